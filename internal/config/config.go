// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const (
	configEnv       = "WOOSMAP"
	DefaultTemplate = "{{.FormattedAddress}} ({{coords .}})"
	MaxLimit        = 100
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	API struct {
		PublicKey  string `fig:"public_key"`
		PrivateKey string `fig:"private_key"`
		Endpoint   string `fig:"endpoint" default:"https://api.woosmap.com/address/geocode/json"`
		CCFormat   string `fig:"cc_format"`
		// Allowed values: extended, political
		FieldSet          string        `fig:"field_set" default:"extended"`
		IncludeLimitParam bool          `fig:"include_limit_param"`
		Timeout           time.Duration `fig:"timeout" default:"10s"`
	} `fig:"api"`

	Query struct {
		// Allowed value: 1 to 100
		Limit int `fig:"limit" default:"5"`
	} `fig:"query"`

	Output struct {
		// Allowed values: text, json
		Format   string `fig:"format" default:"text"`
		Template string `fig:"template"`
	} `fig:"output"`

	Metrics struct {
		Enabled bool `fig:"enabled"`
	} `fig:"metrics"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return errors.New("API endpoint must not be empty")
	}
	switch strings.ToLower(c.API.FieldSet) {
	case "extended", "political":
	default:
		return fmt.Errorf("invalid field set: %s", c.API.FieldSet)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.API.Timeout)
	}
	if c.Query.Limit < 1 || c.Query.Limit > MaxLimit {
		return fmt.Errorf("invalid query limit: %d", c.Query.Limit)
	}
	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}
	if c.Output.Template == "" {
		c.Output.Template = DefaultTemplate
	}

	if c.Locale == "" {
		c.Locale = detectLanguage().String()
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}

	return nil
}

// Language returns the configured locale as language tag. Call Validate first.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// detectLanguage returns the language of the environment, falling back to English
func detectLanguage() language.Tag {
	tag, err := locale.Detect()
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}
