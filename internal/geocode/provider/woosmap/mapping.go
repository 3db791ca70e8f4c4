// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package woosmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wneessen/woosmap-geocode/internal/geocode"
)

// FieldSet selects which provider-specific component types are mapped into address extensions
type FieldSet int

const (
	// FieldSetExtended maps administrative levels and the street feature tags
	FieldSetExtended FieldSet = iota
	// FieldSetPolitical maps only the political, county and state tags
	FieldSetPolitical
)

const maxNumberedLevel = 5

var (
	extendedExtensionTags = []string{
		"street_address", "intersection", "political", "colloquial_area", "ward", "neighborhood",
		"premise", "subpremise", "natural_feature", "airport", "park", "point_of_interest",
		"establishment",
	}
	politicalExtensionTags = []string{"political", "county", "state"}

	dispatchTables = map[FieldSet]dispatchTable{
		FieldSetExtended:  newDispatchTable(FieldSetExtended),
		FieldSetPolitical: newDispatchTable(FieldSetPolitical),
	}
)

// ParseFieldSet converts a configuration value into a FieldSet
func ParseFieldSet(val string) (FieldSet, error) {
	switch strings.ToLower(val) {
	case "", "extended":
		return FieldSetExtended, nil
	case "political":
		return FieldSetPolitical, nil
	default:
		return FieldSetExtended, fmt.Errorf("unsupported field set: %q", val)
	}
}

func (f FieldSet) String() string {
	switch f {
	case FieldSetExtended:
		return "extended"
	case FieldSetPolitical:
		return "political"
	default:
		return "unknown"
	}
}

type fieldKind int

const (
	fieldPostalCode fieldKind = iota + 1
	fieldLocality
	fieldCountry
	fieldStreetNumber
	fieldRoute
	fieldSubLocality
	fieldAdminLevel
	fieldSublocalityLevel
	fieldExtension
)

// fieldRule describes what a component type tag populates. level is set for numbered tags.
type fieldRule struct {
	kind  fieldKind
	level int
}

type dispatchTable map[string]fieldRule

func newDispatchTable(set FieldSet) dispatchTable {
	table := dispatchTable{
		"postal_code":   {kind: fieldPostalCode},
		"locality":      {kind: fieldLocality},
		"postal_town":   {kind: fieldLocality},
		"country":       {kind: fieldCountry},
		"street_number": {kind: fieldStreetNumber},
		"route":         {kind: fieldRoute},
		"sublocality":   {kind: fieldSubLocality},
	}
	for level := 1; level <= maxNumberedLevel; level++ {
		table["sublocality_level_"+strconv.Itoa(level)] = fieldRule{kind: fieldSublocalityLevel, level: level}
	}

	tags := politicalExtensionTags
	if set == FieldSetExtended {
		tags = extendedExtensionTags
		for level := 1; level <= maxNumberedLevel; level++ {
			table["administrative_area_level_"+strconv.Itoa(level)] = fieldRule{kind: fieldAdminLevel, level: level}
		}
	}
	for _, tag := range tags {
		table[tag] = fieldRule{kind: fieldExtension}
	}

	return table
}

// apply populates the builder with every field the component's type tags map to.
// Unknown tags are ignored.
func (t dispatchTable) apply(builder *geocode.AddressBuilder, component Component) {
	for _, tag := range component.Types {
		rule, ok := t[tag]
		if !ok {
			continue
		}
		switch rule.kind {
		case fieldPostalCode:
			builder.SetPostalCode(component.LongName)
		case fieldLocality:
			builder.SetLocality(component.LongName)
		case fieldCountry:
			builder.SetCountry(component.LongName, component.ShortName)
		case fieldStreetNumber:
			builder.SetStreetNumber(component.LongName)
		case fieldRoute:
			builder.SetStreetName(component.LongName)
		case fieldSubLocality:
			builder.SetSubLocality(component.LongName)
		case fieldAdminLevel:
			builder.AddAdminLevel(rule.level, component.LongName, component.ShortName)
		case fieldSublocalityLevel:
			builder.AddSublocalityLevel(rule.level, component.LongName, component.ShortName)
		case fieldExtension:
			builder.SetExtension(tag, component.LongName)
		}
	}
}
