// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLimit is the number of results requested when a query does not set a limit
const DefaultLimit = 5

// GeocodeQuery describes a forward geocoding request
type GeocodeQuery struct {
	Text string

	// Locale selects the response language. language.Und means no preference.
	Locale language.Tag

	// Limit caps the number of returned addresses. Values < 1 select DefaultLimit.
	Limit int

	// Components restricts results to the given address components
	Components Components

	// CCFormat is forwarded verbatim as the country code output format hint
	CCFormat string
}

// NewGeocodeQuery returns a forward query for text using the DefaultLimit
func NewGeocodeQuery(text string) GeocodeQuery {
	return GeocodeQuery{Text: text, Limit: DefaultLimit}
}

// MaxResults returns the effective result limit of the query
func (q GeocodeQuery) MaxResults() int {
	return effectiveLimit(q.Limit)
}

// ReverseQuery describes a reverse geocoding request
type ReverseQuery struct {
	Latitude   float64
	Longitude  float64
	Locale     language.Tag
	Limit      int
	Components Components
	CCFormat   string
}

// NewReverseQuery returns a reverse query for the given coordinates using the DefaultLimit
func NewReverseQuery(lat, lon float64) ReverseQuery {
	return ReverseQuery{Latitude: lat, Longitude: lon, Limit: DefaultLimit}
}

// MaxResults returns the effective result limit of the query
func (q ReverseQuery) MaxResults() int {
	return effectiveLimit(q.Limit)
}

func effectiveLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	return limit
}

// Components is a component filter. It either wraps a pre-serialized filter string or an
// insertion-ordered list of name/value pairs. The zero value is an unset filter.
type Components struct {
	raw   string
	isRaw bool
	pairs []componentPair
}

type componentPair struct {
	name  string
	value string
}

// RawComponents returns a filter that is sent verbatim, e.g. "country:SE|postal_code:11129"
func RawComponents(filter string) Components {
	return Components{raw: filter, isRaw: true}
}

// NewComponents returns an empty filter to be extended with Add
func NewComponents() Components {
	return Components{}
}

// Add returns a copy of the filter with the pair name:value appended
func (c Components) Add(name, value string) Components {
	pairs := slices.Clone(c.pairs)
	pairs = append(pairs, componentPair{name: name, value: value})
	return Components{pairs: pairs}
}

// IsSet reports whether the filter should be sent at all
func (c Components) IsSet() bool {
	return c.isRaw || len(c.pairs) > 0
}

// String returns the serialized filter
func (c Components) String() string {
	if c.isRaw {
		return c.raw
	}
	parts := make([]string, 0, len(c.pairs))
	for _, pair := range c.pairs {
		parts = append(parts, pair.name+":"+pair.value)
	}
	return strings.Join(parts, "|")
}
