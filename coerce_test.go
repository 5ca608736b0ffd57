package vcskema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	vcskema "github.com/reoring/vcskema"
)

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		typ  string
		in   any
		want any
	}{
		{"number", "45.67", 45.67},
		{"number", "", ""},
		{"number", "   ", "   "},
		{"number", " 12 ", 12.0},
		{"number", "-1.5e3", -1500.0},
		{"number", ".5", 0.5},
		{"number", "0x1F", 31.0},
		{"number", "0o17", 15.0},
		{"number", "0b101", 5.0},
		{"number", "Infinity", math.Inf(1)},
		{"number", "-Infinity", math.Inf(-1)},
		{"number", "abc", "abc"},
		{"number", "inf", "inf"},
		{"number", "NaN", "NaN"},
		{"number", "1_000", "1_000"},
		{"number", "0x", "0x"},
		{"number", "-0x10", "-0x10"},
		{"number", true, 1.0},
		{"number", false, 0.0},
		{"number", nil, nil},
		{"number", 3.0, 3.0},
		{"integer", "42", 42.0},
		{"boolean", "YES", true},
		{"boolean", "True", true},
		{"boolean", "1", true},
		{"boolean", "no", false},
		{"boolean", "FALSE", false},
		{"boolean", "0", false},
		{"boolean", "maybe", "maybe"},
		{"boolean", 0, false},
		{"boolean", 0.0, false},
		{"boolean", 2.5, true},
		{"boolean", true, true},
		{"boolean", nil, nil},
		{"string", 5, 5},
		{"object", "1", "1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, vcskema.NormalizeType(tc.typ, tc.in), "%s %#v", tc.typ, tc.in)
	}
}
