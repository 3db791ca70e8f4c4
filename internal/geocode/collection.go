// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"encoding/json"
	"slices"
)

// AddressCollection is the ordered, possibly empty result of a geocoding operation
type AddressCollection struct {
	addresses []Address
}

// NewAddressCollection returns a collection holding a copy of addresses
func NewAddressCollection(addresses ...Address) AddressCollection {
	return AddressCollection{addresses: slices.Clone(addresses)}
}

func (c AddressCollection) Len() int {
	return len(c.addresses)
}

func (c AddressCollection) IsEmpty() bool {
	return len(c.addresses) == 0
}

// All returns a copy of the addresses in upstream order
func (c AddressCollection) All() []Address {
	return slices.Clone(c.addresses)
}

// First returns the first address or ErrCollectionEmpty
func (c AddressCollection) First() (Address, error) {
	if len(c.addresses) == 0 {
		return Address{}, ErrCollectionEmpty
	}
	return c.addresses[0], nil
}

// Get returns the address at index i and whether it exists
func (c AddressCollection) Get(i int) (Address, bool) {
	if i < 0 || i >= len(c.addresses) {
		return Address{}, false
	}
	return c.addresses[i], true
}

func (c AddressCollection) MarshalJSON() ([]byte, error) {
	if c.addresses == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.addresses)
}
