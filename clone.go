package vcskema

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// cloneJSON deep-copies v through a JSON round trip, so the result only holds
// map[string]any, []any, string, float64, bool and nil.
func cloneJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("vcskema: object is not JSON-serializable: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("vcskema: clone: %w", err)
	}
	return out, nil
}

// deepCopy copies the container structure of a JSON-like value. Leaves are
// shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// JSONSafe returns a copy of v in which every NaN or infinite number is
// replaced by null, matching JSON.stringify. Such numbers come out of
// NormalizeType ("Infinity") and cannot be encoded as JSON otherwise.
func JSONSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = JSONSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = JSONSafe(e)
		}
		return out
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return nil
		}
	case float32:
		if f := float64(t); math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
