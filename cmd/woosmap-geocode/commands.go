// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/wneessen/woosmap-geocode/internal/config"
	"github.com/wneessen/woosmap-geocode/internal/geocode"
	"github.com/wneessen/woosmap-geocode/internal/geocode/provider/woosmap"
	"github.com/wneessen/woosmap-geocode/internal/http"
	"github.com/wneessen/woosmap-geocode/internal/logger"
	"github.com/wneessen/woosmap-geocode/internal/observability"
	"github.com/wneessen/woosmap-geocode/internal/template"
)

// options holds the values of the global command line flags
type options struct {
	configPath string
	locale     string
	limit      int
	format     string
	template   string
	metrics    bool
}

type app struct {
	conf      *config.Config
	log       *logger.Logger
	geocoder  geocode.Geocoder
	metrics   *observability.Metrics
	templates *template.Templates
	stdout    io.Writer
	stderr    io.Writer

	// transport replaces the HTTP transport of the Woosmap client if set
	transport stdhttp.RoundTripper
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	opts := new(options)
	root := &cobra.Command{
		Use:           "woosmap-geocode",
		Short:         "Forward and reverse geocoding with the Woosmap Address API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the config file")
	flags.StringVarP(&opts.locale, "locale", "l", "", "response language, e.g. en or fr-FR")
	flags.IntVarP(&opts.limit, "limit", "n", geocode.DefaultLimit, "maximum number of addresses")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	flags.StringVarP(&opts.template, "template", "t", "", "text/template rendered per address")
	flags.BoolVar(&opts.metrics, "metrics", false, "print request metrics to stderr")

	root.AddCommand(geocodeCmd(a), reverseCmd(a))
	return root
}

func geocodeCmd(a *app) *cobra.Command {
	var components []string
	var rawComponents, ccFormat string
	cmd := &cobra.Command{
		Use:   "geocode <address>",
		Short: "Resolve a free-text address into coordinates and address details",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := geocode.NewGeocodeQuery(strings.Join(args, " "))
			query.Limit = a.conf.Query.Limit
			query.Locale = a.conf.Language()
			query.CCFormat = ccFormat

			switch {
			case cmd.Flags().Changed("components-raw"):
				query.Components = geocode.RawComponents(rawComponents)
			case len(components) > 0:
				filter, err := parseComponents(components)
				if err != nil {
					return err
				}
				query.Components = filter
			}

			addresses, err := a.geocoder.Geocode(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to geocode %q: %w", query.Text, err)
			}
			return a.print(addresses)
		},
	}
	cmd.Flags().StringArrayVar(&components, "components", nil, "component filter as name:value, may be repeated")
	cmd.Flags().StringVar(&rawComponents, "components-raw", "", "pre-serialized component filter, e.g. country:SE|postal_code:11129")
	cmd.Flags().StringVar(&ccFormat, "cc-format", "", "country code format of the response, e.g. alpha2 or alpha3")
	cmd.MarkFlagsMutuallyExclusive("components", "components-raw")
	return cmd
}

func reverseCmd(a *app) *cobra.Command {
	var ccFormat string
	cmd := &cobra.Command{
		Use:   "reverse <latitude> <longitude>",
		Short: "Resolve coordinates into the nearest addresses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			query := geocode.NewReverseQuery(lat, lon)
			query.Limit = a.conf.Query.Limit
			query.Locale = a.conf.Language()
			query.CCFormat = ccFormat

			addresses, err := a.geocoder.Reverse(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to reverse geocode %s,%s: %w", args[0], args[1], err)
			}
			return a.print(addresses)
		},
	}
	cmd.Flags().StringVar(&ccFormat, "cc-format", "", "country code format of the response, e.g. alpha2 or alpha3")
	return cmd
}

// execute runs the root command and writes the collected metrics, also for failed requests
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if a.metrics != nil {
		if merr := a.metrics.WriteText(a.stderr); merr != nil {
			err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", merr))
		}
	}
	return err
}

// logFailure logs err with API credentials masked
func (a *app) logFailure(err error) {
	log := logger.NewLogger(slog.LevelError, a.stderr)
	log.Error("woosmap-geocode failed", slog.String("error", http.RedactCredentials(err.Error())),
		slog.String("version", version), slog.String("commit", commit), slog.String("date", date))
}

// setup loads the configuration, applies flag overrides and wires the geocoder
func (a *app) setup(cmd *cobra.Command, opts *options) error {
	conf, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("locale") {
		conf.Locale = opts.locale
	}
	if flags.Changed("limit") {
		conf.Query.Limit = opts.limit
	}
	if flags.Changed("format") {
		conf.Output.Format = opts.format
	}
	if flags.Changed("template") {
		conf.Output.Template = opts.template
	}
	if flags.Changed("metrics") {
		conf.Metrics.Enabled = opts.metrics
	}
	if err = conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.conf = conf
	a.log = logger.NewLogger(conf.LogLevel, a.stderr)

	a.templates, err = template.New(conf.Output.Template)
	if err != nil {
		return err
	}

	fieldSet, err := woosmap.ParseFieldSet(conf.API.FieldSet)
	if err != nil {
		return err
	}
	if conf.API.PublicKey == "" && conf.API.PrivateKey == "" {
		a.log.Warn("no Woosmap API key configured, requests will likely be denied")
	}

	client := http.NewWithTimeout(a.log, conf.API.Timeout)
	if a.transport != nil {
		client.Transport = a.transport
	}
	a.geocoder = woosmap.New(client, woosmap.Options{
		Endpoint:          conf.API.Endpoint,
		PublicKey:         conf.API.PublicKey,
		PrivateKey:        conf.API.PrivateKey,
		CCFormat:          conf.API.CCFormat,
		IncludeLimitParam: conf.API.IncludeLimitParam,
		FieldSet:          fieldSet,
	})
	if conf.Metrics.Enabled {
		a.metrics = observability.NewMetrics(nil)
		a.geocoder = geocode.NewInstrumentedGeocoder(a.geocoder, a.metrics, clockwork.NewRealClock())
	}
	a.log.Debug("geocoder initialized", slog.String("provider", a.geocoder.Name()),
		slog.String("field_set", fieldSet.String()), slog.String("locale", conf.Locale))

	return nil
}

func (a *app) print(addresses geocode.AddressCollection) error {
	if addresses.IsEmpty() {
		a.log.Info("no address found")
	}
	if strings.EqualFold(a.conf.Output.Format, "json") {
		encoder := json.NewEncoder(a.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(addresses)
	}
	return a.templates.Render(a.stdout, addresses)
}

// loadConfig reads the config from path, from the default location or from the environment only
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		conf, err := config.NewFromFile(filepath.Dir(path), filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	if dir, file := findConfigFile(); dir != "" && file != "" {
		conf, err := config.NewFromFile(dir, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	conf, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}

// parseComponents converts name:value arguments into a component filter
func parseComponents(args []string) (geocode.Components, error) {
	filter := geocode.NewComponents()
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		if !ok || name == "" {
			return geocode.Components{}, fmt.Errorf("invalid component filter %q, expected name:value", arg)
		}
		filter = filter.Add(name, value)
	}
	return filter, nil
}
