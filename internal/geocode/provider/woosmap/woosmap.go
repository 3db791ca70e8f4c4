// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package woosmap implements forward and reverse geocoding against the Woosmap Address API.
package woosmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/woosmap-geocode/internal/geocode"
	whttp "github.com/wneessen/woosmap-geocode/internal/http"
)

const (
	APIEndpoint = "https://api.woosmap.com/address/geocode/json"
	name        = "woosmap"
)

// Options configures a Woosmap geocoder. It is copied on construction.
type Options struct {
	// Endpoint overrides APIEndpoint, e.g. for test doubles
	Endpoint string

	// PublicKey is sent as key parameter. It takes precedence over PrivateKey.
	PublicKey string

	// PrivateKey is sent as private_key parameter if no PublicKey is set
	PrivateKey string

	// CCFormat is the cc_format sent when a query does not set its own
	CCFormat string

	// IncludeLimitParam asks the API to cap the result count on its side, too
	IncludeLimitParam bool

	FieldSet FieldSet
}

type Woosmap struct {
	fetcher      geocode.Fetcher
	endpoint     string
	publicKey    string
	privateKey   string
	ccFormat     string
	includeLimit bool
	table        dispatchTable
}

// requestParams are the query settings shared by forward and reverse lookups
type requestParams struct {
	components geocode.Components
	ccFormat   string
	limit      int
	locale     language.Tag
}

func New(fetcher geocode.Fetcher, opts Options) *Woosmap {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	table, ok := dispatchTables[opts.FieldSet]
	if !ok {
		table = dispatchTables[FieldSetExtended]
	}
	return &Woosmap{
		fetcher:      fetcher,
		endpoint:     endpoint,
		publicKey:    opts.PublicKey,
		privateKey:   opts.PrivateKey,
		ccFormat:     opts.CCFormat,
		includeLimit: opts.IncludeLimitParam,
		table:        table,
	}
}

func (w *Woosmap) Name() string {
	return name
}

// Geocode resolves a free-text address. IP addresses are rejected before any request is made, since
// the API answers them with unrelated results.
func (w *Woosmap) Geocode(ctx context.Context, query geocode.GeocodeQuery) (geocode.AddressCollection, error) {
	if strings.TrimSpace(query.Text) == "" {
		return geocode.AddressCollection{}, geocode.ErrEmptyQuery
	}
	if isIPAddress(query.Text) {
		return geocode.AddressCollection{}, fmt.Errorf("%w: the Woosmap provider does not support IP addresses, "+
			"only street addresses", geocode.ErrUnsupportedOperation)
	}

	base := w.endpoint + w.separator() + "address=" + url.QueryEscape(query.Text)
	params := requestParams{
		components: query.Components,
		ccFormat:   query.CCFormat,
		limit:      query.MaxResults(),
		locale:     query.Locale,
	}
	return w.execute(ctx, w.buildURL(base, params), params.limit)
}

// Reverse resolves a coordinate pair into the nearest addresses
func (w *Woosmap) Reverse(ctx context.Context, query geocode.ReverseQuery) (geocode.AddressCollection, error) {
	base := w.endpoint + w.separator() + "latlng=" + formatCoordinate(query.Latitude) + "," +
		formatCoordinate(query.Longitude)
	params := requestParams{
		components: query.Components,
		ccFormat:   query.CCFormat,
		limit:      query.MaxResults(),
		locale:     query.Locale,
	}
	return w.execute(ctx, w.buildURL(base, params), params.limit)
}

// buildURL appends the optional query parameters and the credentials to base
func (w *Woosmap) buildURL(base string, params requestParams) string {
	var sb strings.Builder
	sb.WriteString(base)

	if params.components.IsSet() {
		sb.WriteString("&components=")
		sb.WriteString(url.QueryEscape(params.components.String()))
	}
	ccFormat := params.ccFormat
	if ccFormat == "" {
		ccFormat = w.ccFormat
	}
	if ccFormat != "" {
		sb.WriteString("&cc_format=")
		sb.WriteString(ccFormat)
	}
	if w.includeLimit {
		sb.WriteString("&limit=")
		sb.WriteString(strconv.Itoa(params.limit))
	}
	if params.locale != language.Und {
		sb.WriteString("&language=")
		sb.WriteString(params.locale.String())
	}

	switch {
	case w.publicKey != "":
		sb.WriteString("&key=")
		sb.WriteString(w.publicKey)
	case w.privateKey != "":
		sb.WriteString("&private_key=")
		sb.WriteString(w.privateKey)
	}

	return sb.String()
}

func (w *Woosmap) execute(ctx context.Context, reqURL string, limit int) (geocode.AddressCollection, error) {
	body, err := w.fetcher.Fetch(ctx, reqURL)
	if err != nil {
		return geocode.AddressCollection{}, classifyFetchError(reqURL, err)
	}
	if len(body) == 0 {
		return geocode.AddressCollection{}, fmt.Errorf("%w: empty response body for %s",
			geocode.ErrInvalidServerResponse, reqURL)
	}

	var response *Response
	if err = json.Unmarshal(body, &response); err != nil {
		return geocode.AddressCollection{}, fmt.Errorf("%w: failed to decode JSON response for %s: %w",
			geocode.ErrInvalidServerResponse, reqURL, err)
	}
	if response == nil {
		return geocode.AddressCollection{}, fmt.Errorf("%w: no JSON value in response for %s",
			geocode.ErrInvalidServerResponse, reqURL)
	}

	if response.Status == statusRequestDenied {
		if response.ErrorMessage == invalidCredentialMsg {
			return geocode.AddressCollection{}, fmt.Errorf("%w: API key is invalid %s",
				geocode.ErrInvalidCredentials, reqURL)
		}
		return geocode.AddressCollection{}, fmt.Errorf("%w: API access denied. Request: %s - Message: %s",
			geocode.ErrInvalidServerResponse, reqURL, response.ErrorMessage)
	}
	if response.Status != statusOK || len(response.Results) == 0 {
		return geocode.NewAddressCollection(), nil
	}

	addresses := make([]geocode.Address, 0, min(len(response.Results), limit))
	for _, result := range response.Results {
		address, err := w.mapResult(result)
		if err != nil {
			return geocode.AddressCollection{}, fmt.Errorf("%w: %w", geocode.ErrInvalidServerResponse, err)
		}
		addresses = append(addresses, address)
		if len(addresses) >= limit {
			break
		}
	}

	return geocode.NewAddressCollection(addresses...), nil
}

// mapResult converts a single API result into an address
func (w *Woosmap) mapResult(result Result) (geocode.Address, error) {
	if result.Geometry.Location == nil {
		return geocode.Address{}, errors.New("result without geometry location")
	}

	builder := geocode.NewAddressBuilder(name)
	builder.SetCoordinates(result.Geometry.Location.Lat, result.Geometry.Location.Lng)
	for _, component := range result.AddressComponents {
		w.table.apply(builder, component)
	}

	if result.PublicID != "" {
		builder.SetID(result.PublicID)
	}
	if result.Geometry.LocationType != nil {
		builder.SetLocationType(*result.Geometry.LocationType)
	}
	if result.Types != nil {
		builder.SetResultTypes(result.Types)
	}
	if result.FormattedAddress != nil {
		builder.SetFormattedAddress(*result.FormattedAddress)
	}

	return builder.Build()
}

func (w *Woosmap) separator() string {
	if strings.Contains(w.endpoint, "?") {
		return "&"
	}
	return "?"
}

// classifyFetchError maps transport status codes onto the geocoding error kinds
func classifyFetchError(reqURL string, err error) error {
	var statusErr *whttp.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("failed to retrieve address details from Woosmap API: %w", err)
	}
	switch statusErr.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: daily quota exceeded %s", geocode.ErrQuotaExceeded, reqURL)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s rejected with %w", geocode.ErrInvalidCredentials, reqURL, statusErr)
	default:
		return fmt.Errorf("%w: %s answered with %w", geocode.ErrInvalidServerResponse, reqURL, statusErr)
	}
}

func isIPAddress(text string) bool {
	_, err := netip.ParseAddr(text)
	return err == nil
}

// formatCoordinate renders a coordinate as fixed-point decimal with six fractional digits
func formatCoordinate(val float64) string {
	return strconv.FormatFloat(val, 'f', 6, 64)
}
