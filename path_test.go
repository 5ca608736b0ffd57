package vcskema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vcskema "github.com/reoring/vcskema"
)

func TestPath_String(t *testing.T) {
	var root vcskema.Path
	assert.Equal(t, "", root.String())
	assert.Equal(t, "items[0].name", root.Field("items").Index(0).Field("name").String())
	assert.Equal(t, `["a.b"].c`, root.Field("a.b").Field("c").String())
	assert.Equal(t, `m["0"]`, root.Field("m").Field("0").String())

	// chain safety: siblings built from one parent do not alias
	base := root.Field("a")
	x, y := base.Field("x"), base.Field("y")
	assert.Equal(t, "a.x", x.String())
	assert.Equal(t, "a.y", y.String())
}

func TestParsePath_RoundTrip(t *testing.T) {
	var root vcskema.Path
	paths := []vcskema.Path{
		root,
		root.Field("name"),
		root.Field("items").Index(12).Field("name"),
		root.Field("a.b").Field("c"),
		root.Field(`q"uote`).Index(0).Index(1),
		root.Field("m").Field("0"),
	}
	for _, p := range paths {
		got, err := vcskema.ParsePath(p.String())
		require.NoError(t, err, p.String())
		assert.Equal(t, p.String(), got.String())
		assert.Equal(t, len(p), len(got), p.String())
	}
}

func TestParsePath_Errors(t *testing.T) {
	for _, s := range []string{".a", "a.", "a..b", "a[x]", "a[1", `a["b`, "a[-1]"} {
		_, err := vcskema.ParsePath(s)
		assert.Error(t, err, s)
	}
}

func TestPath_LookupAndSet(t *testing.T) {
	obj := map[string]any{"items": []any{map[string]any{"name": "x"}}}
	p, err := vcskema.ParsePath("items[0].name")
	require.NoError(t, err)

	v, ok := p.Lookup(obj)
	require.True(t, ok)
	assert.Equal(t, "x", v)

	require.True(t, p.Set(obj, nil))
	v, ok = p.Lookup(obj)
	assert.True(t, ok)
	assert.Nil(t, v)

	missing, _ := vcskema.ParsePath("items[3].name")
	_, ok = missing.Lookup(obj)
	assert.False(t, ok)
	assert.False(t, missing.Set(obj, 1))
}
