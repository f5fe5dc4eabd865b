package models

import (
	"encoding/json"
	"testing"
)

// Account description files spell taxability as quoted "True"/"False"
// strings; API clients send JSON booleans. Both must decode.
func TestFlexibleBoolUnmarshal(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`"True"`, true},
		{`"False"`, false},
		{`"true"`, true},
		{`"FALSE"`, false},
		{`"1"`, true},
		{`"0"`, false},
	}
	for _, tc := range cases {
		var f FlexibleBool
		if err := json.Unmarshal([]byte(tc.input), &f); err != nil {
			t.Errorf("%s: unexpected error: %v", tc.input, err)
			continue
		}
		if f.Bool() != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.input, tc.want, f.Bool())
		}
	}
}

func TestFlexibleBoolUnmarshalInvalid(t *testing.T) {
	for _, input := range []string{`"yes"`, `"si"`, `""`, `42`} {
		var f FlexibleBool
		if err := json.Unmarshal([]byte(input), &f); err == nil {
			t.Errorf("%s: expected error", input)
		}
	}
}

func TestFlexibleBoolMarshal(t *testing.T) {
	data, err := json.Marshal(FlexibleBool(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "true" {
		t.Errorf("expected plain JSON true, got %s", data)
	}
}
