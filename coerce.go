package vcskema

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NormalizeType coerces v towards the declared JSON type:
//
//   - number/integer: booleans become 1/0 and numeric strings become
//     float64; blank and non-numeric strings are kept.
//   - boolean: numbers become v != 0, and "yes"/"true"/"1" and
//     "no"/"false"/"0" (any case) become true and false.
//
// Everything else is returned unchanged.
func NormalizeType(typ string, v any) any {
	switch typ {
	case TypeNumber, TypeInteger:
		return toNumber(v)
	case TypeBoolean:
		return toBoolean(v)
	}
	return v
}

func toNumber(v any) any {
	switch t := v.(type) {
	case bool:
		if t {
			return float64(1)
		}
		return float64(0)
	case string:
		if f, ok := parseNumber(t); ok {
			return f
		}
	}
	return v
}

func toBoolean(v any) any {
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "yes", "true", "1":
			return true
		case "no", "false", "0":
			return false
		}
		return v
	}
	if f, ok := asFloat(v); ok {
		return f != 0
	}
	return v
}

// parseNumber reads a numeric string the way loosely typed form input is
// usually read: surrounding whitespace is ignored, Infinity is spelled out,
// and 0x/0o/0b prefixes select a radix.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, false
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok || strings.ContainsAny(s[2:], "_+-") {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, true
		}
	}
	// ParseFloat also accepts "inf", "nan", underscores and hex floats
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-')
	}) >= 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}
