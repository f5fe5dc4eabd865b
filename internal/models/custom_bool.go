package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexibleBool is a custom bool type that can unmarshal both JSON booleans
// and the quoted "True"/"False" strings found in account description files
type FlexibleBool bool

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)

	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return fmt.Errorf("invalid boolean value %q", s)
	}
	*f = FlexibleBool(v)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleBool) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Bool returns the underlying bool.
func (f FlexibleBool) Bool() bool {
	return bool(f)
}
