// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"encoding/json"
	"fmt"
)

// Placeholder is rendered for values that were never set.
const Placeholder = "-"

// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
type VarFloat64 = Variable[float64]

// Variable represents a generic type wrapper that holds a value and tracks its initialization state.
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

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v Variable[T]) IsSet() bool {
	return v.isset
}

// Format renders a set value with the given fmt verb layout and returns Placeholder otherwise.
func (v Variable[T]) Format(layout string) string {
	if !v.isset {
		return Placeholder
	}
	return fmt.Sprintf(layout, v.value)
}

// MarshalJSON encodes an unset Variable as null.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
