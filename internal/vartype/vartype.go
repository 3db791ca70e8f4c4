// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"encoding/json"
	"fmt"
)

type (
	// VarString is a type alias for Variable[string], used for optional address fields.
	VarString = Variable[string]

	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]
)

// Variable represents a generic type wrapper that holds a value and tracks its initialization state.
// An unset Variable is distinct from a Variable holding the zero value of T.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Value retrieves the current value stored in the Variable.
func (v Variable[T]) Value() T {
	return v.value
}

// Get returns the stored value and whether it has been set.
func (v Variable[T]) Get() (T, bool) {
	return v.value, v.isset
}

// Set assigns the provided value to the Variable and marks it as initialized.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v Variable[T]) IsSet() bool {
	return v.isset
}

// String returns the formatted value, or an empty string if the Variable is unset.
func (v Variable[T]) String() string {
	if !v.isset {
		return ""
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON encodes an unset Variable as null and a set one as its value.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
