package vcskema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vcskema "github.com/reoring/vcskema"
)

func walkFixtures() (*vcskema.Schema, map[string]*vcskema.Schema) {
	address := vcskema.MustSchema("Address", props(map[string]any{
		"city": map[string]any{},
		"zip":  map[string]any{},
	}))
	color := vcskema.MustSchema("Color", map[string]any{"enum": []any{"red"}})
	root := vcskema.MustSchema("Person", props(map[string]any{
		"name":    map[string]any{},
		"address": ref("Address"),
		"color":   ref("Color"),
		"tags":    map[string]any{"items": props(map[string]any{"label": map[string]any{}})},
		"nums":    map[string]any{"items": map[string]any{"type": "number"}},
	}))
	return root, map[string]*vcskema.Schema{"Address": address, "Color": color, "Person": root}
}

func visitedPaths(t *testing.T, value any, s *vcskema.Schema, lookup map[string]*vcskema.Schema) ([]string, error) {
	t.Helper()
	var paths []string
	for v, err := range vcskema.Walk(value, s, lookup) {
		if err != nil {
			return paths, err
		}
		paths = append(paths, v.Path)
	}
	return paths, nil
}

func TestWalk_DepthFirstInPropertyOrder(t *testing.T) {
	root, lookup := walkFixtures()
	value := map[string]any{
		"name":    "a",
		"address": map[string]any{"city": "x"},
		"color":   5,
		"tags":    []any{map[string]any{"label": "l1"}, map[string]any{}},
		"nums":    []any{1, 2},
	}
	paths, err := visitedPaths(t, value, root, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"address", "address.city", "address.zip",
		"color",
		"name",
		"nums",
		"tags", "tags[0].label", "tags[1].label",
	}, paths)
}

func TestWalk_UndefinedValuesAreNotDescended(t *testing.T) {
	root, lookup := walkFixtures()
	paths, err := visitedPaths(t, map[string]any{}, root, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "color", "name", "nums", "tags"}, paths)
}

func TestWalk_ShapeMismatchStops(t *testing.T) {
	root, lookup := walkFixtures()
	for name, bad := range map[string]any{"string": "str", "null": nil} {
		paths, err := visitedPaths(t, map[string]any{"address": bad, "name": "n"}, root, lookup)
		var se *vcskema.ShapeError
		require.True(t, errors.As(err, &se), name)
		assert.Equal(t, "address", se.Path, name)
		assert.Equal(t, "object", se.Want, name)
		assert.Equal(t, []string{"address"}, paths, name)
	}

	_, err := visitedPaths(t, map[string]any{"tags": map[string]any{}}, root, lookup)
	var se *vcskema.ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "array", se.Want)

	_, err = visitedPaths(t, []any{}, root, lookup)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "", se.Path)
}

func TestWalk_UnresolvedReference(t *testing.T) {
	root, _ := walkFixtures()
	_, err := visitedPaths(t, map[string]any{"address": map[string]any{}}, root, map[string]*vcskema.Schema{})
	var ue *vcskema.UnresolvedRefError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "address.$ref", ue.Path)
}

func TestWalk_StopsOnBreak(t *testing.T) {
	root, lookup := walkFixtures()
	n := 0
	for range vcskema.Walk(map[string]any{"address": map[string]any{}}, root, lookup) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestWalkFunc_DescendsIntoAssignedValues(t *testing.T) {
	root, lookup := walkFixtures()
	value := map[string]any{}
	var paths []string
	err := vcskema.WalkFunc(value, root, lookup, func(v vcskema.Visit) error {
		paths = append(paths, v.Path)
		if v.Name == "address" {
			v.Parent[v.Name] = map[string]any{}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "address.city", "address.zip", "color", "name", "nums", "tags"}, paths)

	stop := errors.New("stop")
	err = vcskema.WalkFunc(value, root, lookup, func(vcskema.Visit) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestWalk_EnumRootYieldsNothing(t *testing.T) {
	_, lookup := walkFixtures()
	paths, err := visitedPaths(t, "red", lookup["Color"], lookup)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
