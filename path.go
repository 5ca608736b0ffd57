package vcskema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a field name or an array index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Path builds dot/bracket property paths (address.lines[0]) in a chain-safe
// way: Field and Index never share the receiver's backing array.
type Path []Segment

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (p Path) Field(name string) Path {
	return append(append(Path{}, p...), Segment{Name: name})
}

func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), Segment{Index: i, IsIndex: true})
}

// String renders the path. Names that are not identifiers are bracket-quoted
// (a["b.c"]) so ParsePath can read them back. The root renders as "".
func (p Path) String() string {
	b := &strings.Builder{}
	for _, s := range p {
		switch {
		case s.IsIndex:
			fmt.Fprintf(b, "[%d]", s.Index)
		case identRE.MatchString(s.Name):
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(s.Name))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// ParsePath reads a path rendered by Path.String.
func ParsePath(s string) (Path, error) {
	var out Path
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			if i == 0 {
				return nil, fmt.Errorf("vcskema: path %q: leading '.'", s)
			}
			i++
			fallthrough
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("vcskema: path %q: empty name at %d", s, i)
			}
			out = append(out, Segment{Name: s[i:j]})
			i = j
		case '[':
			end, seg, err := parseBracket(s, i)
			if err != nil {
				return nil, err
			}
			out = append(out, seg)
			i = end
		}
	}
	return out, nil
}

// parseBracket reads "[12]" or "[\"name\"]" starting at s[i] == '['.
func parseBracket(s string, i int) (int, Segment, error) {
	if i+1 < len(s) && s[i+1] == '"' {
		j := i + 2
		for j < len(s) && s[j] != '"' {
			if s[j] == '\\' {
				j++
			}
			j++
		}
		if j+1 >= len(s) || s[j+1] != ']' {
			return 0, Segment{}, fmt.Errorf("vcskema: path %q: unterminated bracket at %d", s, i)
		}
		name, err := strconv.Unquote(s[i+1 : j+1])
		if err != nil {
			return 0, Segment{}, fmt.Errorf("vcskema: path %q: %w", s, err)
		}
		return j + 2, Segment{Name: name}, nil
	}
	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return 0, Segment{}, fmt.Errorf("vcskema: path %q: unterminated bracket at %d", s, i)
	}
	n, err := strconv.Atoi(s[i+1 : i+end])
	if err != nil || n < 0 {
		return 0, Segment{}, fmt.Errorf("vcskema: path %q: bad index %q", s, s[i+1:i+end])
	}
	return i + end + 1, Segment{Index: n, IsIndex: true}, nil
}

// Lookup resolves the path inside a JSON-like value.
func (p Path) Lookup(root any) (any, bool) {
	cur := root
	for _, s := range p {
		var ok bool
		if cur, ok = step(cur, s); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set assigns v at the path. The parent container must already exist.
func (p Path) Set(root any, v any) bool {
	if len(p) == 0 {
		return false
	}
	parent, ok := p[:len(p)-1].Lookup(root)
	if !ok {
		return false
	}
	last := p[len(p)-1]
	switch c := parent.(type) {
	case map[string]any:
		if last.IsIndex {
			return false
		}
		c[last.Name] = v
		return true
	case []any:
		if !last.IsIndex || last.Index >= len(c) {
			return false
		}
		c[last.Index] = v
		return true
	}
	return false
}

func step(cur any, s Segment) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		if s.IsIndex {
			return nil, false
		}
		v, ok := c[s.Name]
		return v, ok
	case []any:
		if !s.IsIndex || s.Index >= len(c) {
			return nil, false
		}
		return c[s.Index], true
	}
	return nil, false
}

// locate converts an engine instance location (plain tokens) into a Path by
// walking the instance, so array positions become indexes.
func locate(root any, tokens []string) Path {
	out := make(Path, 0, len(tokens))
	cur := root
	for _, tok := range tokens {
		if arr, ok := cur.([]any); ok {
			if n, err := strconv.Atoi(tok); err == nil && n >= 0 && n < len(arr) {
				out = append(out, Segment{Index: n, IsIndex: true})
				cur = arr[n]
				continue
			}
		}
		out = append(out, Segment{Name: tok})
		if m, ok := cur.(map[string]any); ok {
			cur = m[tok]
		} else {
			cur = nil
		}
	}
	return out
}
