package vcskema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vcskema "github.com/reoring/vcskema"
)

func personSource() map[string]any {
	return map[string]any{
		"properties": map[string]any{
			"id":      map[string]any{},
			"name":    map[string]any{},
			"age":     map[string]any{"type": "integer"},
			"score":   map[string]any{"type": "number"},
			"born":    map[string]any{"format": "date"},
			"seen":    map[string]any{"format": "date-time"},
			"motto":   map[string]any{"@type": "schema:Text"},
			"rank":    map[string]any{"type": "integer", "@type": "schema:Rank"},
			"address": map[string]any{"$ref": "AddressV1"},
			"schema":  map[string]any{},
			"@extra":  map[string]any{},
		},
	}
}

func TestLinkedDataType_Context(t *testing.T) {
	s, err := vcskema.NewSchema("Person", personSource(), vcskema.SchemaOpt{BaseURI: "https://example.com/schema/"})
	require.NoError(t, err)

	ld, ok := s.LinkedDataType()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/schema/Person", ld.ID)

	want := map[string]any{
		"@vocab":     "https://example.com/schema/",
		"@version":   1.1,
		"@protected": true,
		"schema":     "http://schema.org/",
		"address":    map[string]any{"@id": "address"},
		"age":        map[string]any{"@id": "age", "@type": "schema:Integer"},
		"born":       map[string]any{"@id": "born", "@type": "schema:Date"},
		"motto":      map[string]any{"@id": "motto", "@type": "schema:Text"},
		"name":       map[string]any{"@id": "name"},
		"rank":       map[string]any{"@id": "rank", "@type": "schema:Rank"},
		"score":      map[string]any{"@id": "score", "@type": "schema:Number"},
		"seen":       map[string]any{"@id": "seen", "@type": "schema:DateTime"},
	}
	if diff := cmp.Diff(want, ld.Context); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}

	term := ld.Term()
	assert.Equal(t, ld.ID, term["@id"])
	assert.Equal(t, ld.Context, term["@context"])
}

func TestLinkedDataType_Vocabulary(t *testing.T) {
	cases := []struct {
		base  string
		vocab string
		alias bool
	}{
		{"https://example.com/schema/AccountV1", "https://example.com/schema/AccountV1#", true},
		{"https://example.com/ns#", "https://example.com/ns#", true},
		{"http://schema.org/", "http://schema.org/", false},
	}
	for _, tc := range cases {
		s := vcskema.MustSchema("Thing", map[string]any{}, vcskema.SchemaOpt{BaseURI: tc.base})
		ld, ok := s.LinkedDataType()
		require.True(t, ok, tc.base)
		assert.Equal(t, tc.vocab, ld.Context["@vocab"], tc.base)
		assert.Equal(t, tc.vocab+"Thing", ld.ID, tc.base)
		_, hasAlias := ld.Context["schema"]
		assert.Equal(t, tc.alias, hasAlias, tc.base)
	}
}
