// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package woosmap

const (
	statusOK             = "OK"
	statusRequestDenied  = "REQUEST_DENIED"
	invalidCredentialMsg = "Incorrect authentication credentials. Please check or use a valid API Key"
)

// Response is the JSON body returned by the Woosmap Address geocode endpoint
type Response struct {
	Status       string   `json:"status"`
	Results      []Result `json:"results"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

type Result struct {
	PublicID          string      `json:"public_id,omitempty"`
	Geometry          Geometry    `json:"geometry"`
	Types             []string    `json:"types,omitempty"`
	FormattedAddress  *string     `json:"formatted_address,omitempty"`
	AddressComponents []Component `json:"address_components"`
}

type Geometry struct {
	Location     *Location `json:"location"`
	LocationType *string   `json:"location_type,omitempty"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Component struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}
