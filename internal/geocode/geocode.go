// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode defines the provider-neutral types shared by all geocoding providers: queries,
// addresses, address collections and the error kinds a provider may fail with.
package geocode

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedOperation is returned when the input is categorically unsupported by a provider
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrEmptyQuery is returned when a forward geocoding query has no address text
	ErrEmptyQuery = errors.New("geocode query must not be empty")

	// ErrInvalidCredentials is returned when the upstream API rejected the configured credentials
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidServerResponse is returned for malformed responses or requests denied for other reasons
	ErrInvalidServerResponse = errors.New("invalid server response")

	// ErrQuotaExceeded is returned when the upstream API signals rate limiting
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrCollectionEmpty is returned when accessing the first address of an empty collection
	ErrCollectionEmpty = errors.New("address collection is empty")

	// ErrMissingCoordinates is returned when an address is built without coordinates
	ErrMissingCoordinates = errors.New("address has no coordinates")
)

// Geocoder is implemented by every geocoding provider
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query GeocodeQuery) (AddressCollection, error)
	Reverse(ctx context.Context, query ReverseQuery) (AddressCollection, error)
}

// Fetcher retrieves the body of a URL or fails. Implementations are expected to report
// non-2xx responses as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
