// Package loader reads schema definitions from YAML or JSON files. A file
// holds one or more documents (YAML "---" separated), each of the form:
//
//	id: AccountV1
//	baseUri: https://example.com/schema/   # optional
//	schema:
//	  properties:
//	    name: {required: true}
//	    address: {$ref: AddressV1}
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	vcskema "github.com/reoring/vcskema"
)

// Definition is one decoded schema document.
type Definition struct {
	ID      string
	BaseURI string
	Schema  map[string]any
	// Source names the file the definition came from, when known.
	Source string
}

// Options controls how definitions become schemas.
type Options struct {
	// BaseURI applies to definitions that do not declare their own.
	BaseURI string
}

// Extensions lists the file suffixes ReadDir picks up.
var Extensions = []string{".yaml", ".yml", ".json"}

// Decode reads every document in data. Empty documents are skipped.
func Decode(data []byte) ([]Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []Definition
	for i := 0; ; i++ {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("loader: document %d: %w", i, err)
		}
		if node == nil {
			continue
		}
		m := yamlAnyToStringMap(node)
		if m == nil {
			return nil, fmt.Errorf("loader: document %d: expected a mapping", i)
		}
		def, err := definition(m)
		if err != nil {
			return nil, fmt.Errorf("loader: document %d: %w", i, err)
		}
		out = append(out, def)
	}
	return out, nil
}

func definition(m map[string]any) (Definition, error) {
	var def Definition
	var ok bool
	if def.ID, ok = m["id"].(string); !ok || def.ID == "" {
		return def, errors.New(`"id" must be a non-empty string`)
	}
	if raw, has := m["baseUri"]; has {
		if def.BaseURI, ok = raw.(string); !ok {
			return def, errors.New(`"baseUri" must be a string`)
		}
	}
	switch s := m["schema"].(type) {
	case map[string]any:
		def.Schema = s
	case nil:
		def.Schema = map[string]any{}
	default:
		return def, errors.New(`"schema" must be a mapping`)
	}
	return def, nil
}

// Schemas normalizes definitions into schemas.
func Schemas(defs []Definition, opts Options) ([]*vcskema.Schema, error) {
	out := make([]*vcskema.Schema, 0, len(defs))
	for _, d := range defs {
		base := d.BaseURI
		if base == "" {
			base = opts.BaseURI
		}
		s, err := vcskema.NewSchema(d.ID, d.Schema, vcskema.SchemaOpt{BaseURI: base})
		if err != nil {
			if d.Source != "" {
				return nil, fmt.Errorf("loader: %s: %w", d.Source, err)
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadFile decodes the definitions in one file.
func ReadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range defs {
		defs[i].Source = path
	}
	return defs, nil
}

// ReadDir decodes every definition file directly inside dir, in file name
// order.
func ReadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	var out []Definition
	for _, n := range names {
		defs, err := ReadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, defs...)
	}
	return out, nil
}

// Load reads files and directories and builds a schema set from everything
// found.
func Load(paths []string, opts Options) (*vcskema.SchemaSet, error) {
	var defs []Definition
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		read := ReadFile
		if fi.IsDir() {
			read = ReadDir
		}
		d, err := read(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d...)
	}
	schemas, err := Schemas(defs, opts)
	if err != nil {
		return nil, err
	}
	return vcskema.NewSchemaSet(schemas...)
}

func hasExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
