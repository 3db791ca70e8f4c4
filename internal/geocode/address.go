// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"encoding/json"
	"maps"
	"slices"
	"sort"

	"github.com/wneessen/woosmap-geocode/internal/vartype"
)

// AdminLevel is a numbered administrative subdivision (state, province, region, ...)
type AdminLevel struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
}

// SublocalityLevel is a numbered subdivision finer than the locality
type SublocalityLevel struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
}

// Address is a normalized, read-only geocoding result. Use an AddressBuilder to create one.
type Address struct {
	provider    string
	coordinates Coordinates

	streetNumber vartype.VarString
	streetName   vartype.VarString
	postalCode   vartype.VarString
	locality     vartype.VarString
	subLocality  vartype.VarString
	country      vartype.VarString
	countryCode  vartype.VarString
	adminLevels  []AdminLevel

	id                vartype.VarString
	locationType      vartype.VarString
	formattedAddress  vartype.VarString
	resultTypes       []string
	sublocalityLevels []SublocalityLevel
	extensions        map[string]string
}

func (a Address) Provider() string          { return a.provider }
func (a Address) Coordinates() Coordinates  { return a.coordinates }
func (a Address) StreetNumber() string      { return a.streetNumber.Value() }
func (a Address) StreetName() string        { return a.streetName.Value() }
func (a Address) PostalCode() string        { return a.postalCode.Value() }
func (a Address) Locality() string          { return a.locality.Value() }
func (a Address) SubLocality() string       { return a.subLocality.Value() }
func (a Address) Country() string           { return a.country.Value() }
func (a Address) CountryCode() string       { return a.countryCode.Value() }
func (a Address) ID() string                { return a.id.Value() }
func (a Address) LocationType() string      { return a.locationType.Value() }
func (a Address) FormattedAddress() string  { return a.formattedAddress.Value() }
func (a Address) AdminLevels() []AdminLevel { return slices.Clone(a.adminLevels) }
func (a Address) ResultTypes() []string     { return slices.Clone(a.resultTypes) }
func (a Address) SublocalityLevels() []SublocalityLevel {
	return slices.Clone(a.sublocalityLevels)
}

// Extension returns the value of a provider-specific field and whether it was populated
func (a Address) Extension(name string) (string, bool) {
	val, ok := a.extensions[name]
	return val, ok
}

// Extensions returns a copy of all populated provider-specific fields
func (a Address) Extensions() map[string]string {
	return maps.Clone(a.extensions)
}

// MarshalJSON encodes the address with unset optional fields as null
func (a Address) MarshalJSON() ([]byte, error) {
	view := struct {
		Provider          string             `json:"provider"`
		Coordinates       Coordinates        `json:"coordinates"`
		StreetNumber      vartype.VarString  `json:"street_number"`
		StreetName        vartype.VarString  `json:"street_name"`
		PostalCode        vartype.VarString  `json:"postal_code"`
		Locality          vartype.VarString  `json:"locality"`
		SubLocality       vartype.VarString  `json:"sub_locality"`
		Country           vartype.VarString  `json:"country"`
		CountryCode       vartype.VarString  `json:"country_code"`
		AdminLevels       []AdminLevel       `json:"admin_levels,omitempty"`
		ID                vartype.VarString  `json:"id"`
		LocationType      vartype.VarString  `json:"location_type"`
		FormattedAddress  vartype.VarString  `json:"formatted_address"`
		ResultTypes       []string           `json:"types,omitempty"`
		SublocalityLevels []SublocalityLevel `json:"sublocality_levels,omitempty"`
		Extensions        map[string]string  `json:"extensions,omitempty"`
	}{
		Provider:          a.provider,
		Coordinates:       a.coordinates,
		StreetNumber:      a.streetNumber,
		StreetName:        a.streetName,
		PostalCode:        a.postalCode,
		Locality:          a.locality,
		SubLocality:       a.subLocality,
		Country:           a.country,
		CountryCode:       a.countryCode,
		AdminLevels:       a.adminLevels,
		ID:                a.id,
		LocationType:      a.locationType,
		FormattedAddress:  a.formattedAddress,
		ResultTypes:       a.resultTypes,
		SublocalityLevels: a.sublocalityLevels,
		Extensions:        a.extensions,
	}
	return json.Marshal(view)
}

// AddressBuilder accumulates the fields of an Address while a provider maps a raw result.
// The zero value is not usable; use NewAddressBuilder.
type AddressBuilder struct {
	addr           Address
	hasCoordinates bool
	sublocalities  []SublocalityLevel
}

// NewAddressBuilder returns an empty builder for addresses of the given provider
func NewAddressBuilder(provider string) *AddressBuilder {
	return &AddressBuilder{addr: Address{provider: provider}}
}

func (b *AddressBuilder) SetCoordinates(lat, lon float64) {
	b.addr.coordinates = Coordinates{Latitude: lat, Longitude: lon}
	b.hasCoordinates = true
}

func (b *AddressBuilder) SetStreetNumber(val string)     { b.addr.streetNumber.Set(val) }
func (b *AddressBuilder) SetStreetName(val string)       { b.addr.streetName.Set(val) }
func (b *AddressBuilder) SetPostalCode(val string)       { b.addr.postalCode.Set(val) }
func (b *AddressBuilder) SetLocality(val string)         { b.addr.locality.Set(val) }
func (b *AddressBuilder) SetSubLocality(val string)      { b.addr.subLocality.Set(val) }
func (b *AddressBuilder) SetID(val string)               { b.addr.id.Set(val) }
func (b *AddressBuilder) SetLocationType(val string)     { b.addr.locationType.Set(val) }
func (b *AddressBuilder) SetFormattedAddress(val string) { b.addr.formattedAddress.Set(val) }

// SetCountry sets the country name and the country code
func (b *AddressBuilder) SetCountry(name, code string) {
	b.addr.country.Set(name)
	b.addr.countryCode.Set(code)
}

func (b *AddressBuilder) SetResultTypes(types []string) {
	b.addr.resultTypes = slices.Clone(types)
}

// AddAdminLevel registers an administrative level. The first entry for a level wins.
func (b *AddressBuilder) AddAdminLevel(level int, name, code string) {
	for _, existing := range b.addr.adminLevels {
		if existing.Level == level {
			return
		}
	}
	b.addr.adminLevels = append(b.addr.adminLevels, AdminLevel{Level: level, Name: name, Code: code})
}

// AddSublocalityLevel queues a sublocality level. Invalid and duplicate entries are removed by Build.
func (b *AddressBuilder) AddSublocalityLevel(level int, name, code string) {
	b.sublocalities = append(b.sublocalities, SublocalityLevel{Level: level, Name: name, Code: code})
}

// SetExtension sets a provider-specific named field
func (b *AddressBuilder) SetExtension(name, value string) {
	if b.addr.extensions == nil {
		b.addr.extensions = make(map[string]string)
	}
	b.addr.extensions[name] = value
}

// Build freezes the accumulated fields into an Address. Later builder calls do not affect it.
func (b *AddressBuilder) Build() (Address, error) {
	if !b.hasCoordinates {
		return Address{}, ErrMissingCoordinates
	}
	addr := b.addr
	addr.adminLevels = slices.Clone(b.addr.adminLevels)
	addr.resultTypes = slices.Clone(b.addr.resultTypes)
	addr.extensions = maps.Clone(b.addr.extensions)
	sort.SliceStable(addr.adminLevels, func(i, j int) bool {
		return addr.adminLevels[i].Level < addr.adminLevels[j].Level
	})
	addr.sublocalityLevels = FinalizeSublocalityLevels(b.sublocalities)
	return addr, nil
}

// FinalizeSublocalityLevels drops entries without a positive level or without both name and code,
// and collapses duplicates while keeping the order of first appearance
func FinalizeSublocalityLevels(levels []SublocalityLevel) []SublocalityLevel {
	if len(levels) == 0 {
		return nil
	}
	seen := make(map[SublocalityLevel]struct{}, len(levels))
	result := make([]SublocalityLevel, 0, len(levels))
	for _, level := range levels {
		if level.Level < 1 {
			continue
		}
		if level.Name == "" && level.Code == "" {
			continue
		}
		if _, ok := seen[level]; ok {
			continue
		}
		seen[level] = struct{}{}
		result = append(result, level)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
