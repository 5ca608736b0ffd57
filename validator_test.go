package vcskema_test

import (
	"context"
	"errors"
	"math"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vcskema "github.com/reoring/vcskema"
)

const exampleBase = "https://example.com/schema/"

func accountSchemas(t *testing.T) []*vcskema.Schema {
	t.Helper()
	address, err := vcskema.NewSchema("AddressV1", props(map[string]any{
		"street": map[string]any{"required": true},
		"zip":    map[string]any{"pattern": `^\d{3}-\d{4}$`},
	}), vcskema.SchemaOpt{BaseURI: exampleBase})
	require.NoError(t, err)
	color, err := vcskema.NewSchema("ColorV1", map[string]any{"enum": []any{"red", "green"}})
	require.NoError(t, err)
	account, err := vcskema.NewSchema("AccountV1", props(map[string]any{
		"id":        map[string]any{},
		"name":      map[string]any{"default": "Anonymous"},
		"verified":  map[string]any{"type": "boolean"},
		"age":       map[string]any{"type": "integer", "minimum": 0},
		"nickname":  map[string]any{"pattern": "^[A-Z]"},
		"code":      map[string]any{"pattern": "^[A-Z]", "required": true},
		"favorite":  ref("ColorV1"),
		"size":      map[string]any{"enum": []any{"S", "M", "L"}},
		"address":   ref("AddressV1"),
		"addresses": map[string]any{"items": ref("AddressV1")},
	}), vcskema.SchemaOpt{BaseURI: exampleBase})
	require.NoError(t, err)
	return []*vcskema.Schema{account, address, color}
}

func newValidator(t *testing.T, opts ...vcskema.ValidatorOpt) *vcskema.Validator {
	t.Helper()
	set, err := vcskema.NewSchemaSet(accountSchemas(t)...)
	require.NoError(t, err)
	v, err := vcskema.NewValidator(set, opts...)
	require.NoError(t, err)
	return v
}

func validAccount() map[string]any {
	return map[string]any{
		"id":       "https://example.com/accounts/1",
		"code":     "ABC",
		"verified": "yes",
		"age":      "42",
		"extra":    "drop me",
	}
}

func issueCodes(iss vcskema.Issues) map[string]string {
	out := map[string]string{}
	for _, is := range iss {
		out[is.Path] = is.Code
	}
	return out
}

func TestValidate_CleansAndNormalizes(t *testing.T) {
	v := newValidator(t)
	in := validAccount()
	out, err := v.Validate(context.Background(), in, "AccountV1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":       "https://example.com/accounts/1",
		"code":     "ABC",
		"verified": true,
		"age":      42.0,
		"name":     "Anonymous",
		"type":     "AccountV1",
	}, out)

	// input untouched
	assert.Equal(t, "drop me", in["extra"])
	assert.Equal(t, "yes", in["verified"])
	assert.True(t, v.Valid(context.Background(), in, "AccountV1"))
}

func TestValidate_Issues(t *testing.T) {
	v := newValidator(t)
	in := validAccount()
	delete(in, "code")
	in["id"] = "not a url"
	in["age"] = -1
	in["addresses"] = []any{map[string]any{"street": "s", "zip": "abc"}}
	_, err := v.Validate(context.Background(), in, "AccountV1")
	require.Error(t, err)

	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, `"AccountV1" validation failed`, ve.Error())
	assert.Equal(t, "AccountV1", ve.SchemaID)
	assert.Equal(t, map[string]string{
		"":                  vcskema.CodeRequired,
		"addresses[0].zip": vcskema.CodePattern,
		"age":               vcskema.CodeMinimum,
		"id":                vcskema.CodeInvalidFormat,
	}, issueCodes(ve.Issues))

	for _, is := range ve.Issues {
		if is.Code == vcskema.CodeRequired {
			assert.Equal(t, []string{"code"}, is.Params)
		}
		assert.NotEmpty(t, is.Message)
	}

	iss, ok := vcskema.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, iss, 4)
}

func TestValidate_NullifyEmptyValues(t *testing.T) {
	v := newValidator(t)
	ctx := context.Background()
	in := validAccount()
	in["nickname"] = ""
	in["size"] = ""
	in["favorite"] = ""
	in["address"] = map[string]any{"street": "s", "zip": ""}

	out, err := v.Validate(ctx, in, "AccountV1", vcskema.ValidateOpt{NullifyEmptyValues: true})
	require.NoError(t, err)
	obj := out.(map[string]any)
	assert.Nil(t, obj["nickname"])
	assert.Contains(t, obj, "nickname")
	assert.Nil(t, obj["size"])
	assert.Nil(t, obj["favorite"])
	assert.Nil(t, obj["address"].(map[string]any)["zip"])

	_, err = v.Validate(ctx, in, "AccountV1")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	codes := issueCodes(ve.Issues)
	assert.Equal(t, vcskema.CodePattern, codes["nickname"])
	assert.Equal(t, vcskema.CodeEnumMismatch, codes["size"])
	assert.Equal(t, vcskema.CodeEnumMismatch, codes["favorite"])
	assert.Equal(t, vcskema.CodePattern, codes["address.zip"])
}

func TestValidate_NullifyKeepsRequiredAndNonEmpty(t *testing.T) {
	v := newValidator(t)
	in := validAccount()
	in["code"] = ""
	in["nickname"] = "lower"
	_, err := v.Validate(context.Background(), in, "AccountV1", vcskema.ValidateOpt{NullifyEmptyValues: true})
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"code":     vcskema.CodePattern,
		"nickname": vcskema.CodePattern,
	}, issueCodes(ve.Issues))
	assert.Equal(t, "", ve.Object.(map[string]any)["code"])
}

func TestValidate_CleanupNulls(t *testing.T) {
	v := newValidator(t)
	in := validAccount()
	in["nickname"] = nil

	_, err := v.Validate(context.Background(), in, "AccountV1")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, vcskema.CodeInvalidType, issueCodes(ve.Issues)["nickname"])

	out, err := v.Validate(context.Background(), in, "AccountV1", vcskema.ValidateOpt{CleanupNulls: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "nickname")
}

func TestValidate_ShapeMismatchIsReportedByEngine(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	v := newValidator(t, vcskema.ValidatorOpt{Logger: logger})

	in := validAccount()
	in["address"] = "somewhere"
	_, err := v.Validate(context.Background(), in, "AccountV1")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, vcskema.CodeInvalidType, issueCodes(ve.Issues)["address"])

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "cleanup skipped", hook.LastEntry().Message)
	assert.Equal(t, "AccountV1", hook.LastEntry().Data["schema"])
}

func TestValidate_Errors(t *testing.T) {
	v := newValidator(t)
	_, err := v.Validate(context.Background(), map[string]any{}, "Nope")
	assert.True(t, errors.Is(err, vcskema.ErrSchemaNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = v.Validate(ctx, validAccount(), "AccountV1")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = v.Validate(context.Background(), map[string]any{"bad": make(chan int)}, "AccountV1")
	assert.Error(t, err)
	_, ok := vcskema.AsValidationError(err)
	assert.False(t, ok)
}

func TestValidate_EnumRoot(t *testing.T) {
	v := newValidator(t)
	out, err := v.Validate(context.Background(), "red", "ColorV1")
	require.NoError(t, err)
	assert.Equal(t, "red", out)

	_, err = v.Validate(context.Background(), "blue", "ColorV1")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, vcskema.CodeEnumMismatch, ve.Issues[0].Code)
	assert.Equal(t, "", ve.Issues[0].Path)
}

func TestNormalize(t *testing.T) {
	v := newValidator(t)
	out, err := v.Normalize(context.Background(), map[string]any{"verified": "no", "extra": 1}, "AccountV1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"verified": false,
		"extra":    1.0,
		"name":     "Anonymous",
		"type":     "AccountV1",
	}, out)
}

func TestValidationError_JSON(t *testing.T) {
	v := newValidator(t)
	in := validAccount()
	in["nickname"] = "lower"
	_, err := v.Validate(context.Background(), in, "AccountV1")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)

	b, err := json.Marshal(ve)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "ValidationError", got["code"])
	assert.Equal(t, `"AccountV1" validation failed`, got["message"])
	assert.Equal(t, "AccountV1", got["schemaId"])
	assert.Equal(t, "lower", got["object"].(map[string]any)["nickname"])
	entries := got["validationErrors"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "nickname", entry["path"])
	assert.Equal(t, "PATTERN", entry["code"])
	assert.Equal(t, []any{"^[A-Z]", "lower"}, entry["params"])
	assert.NotEmpty(t, entry["message"])
}

func TestNewValidator_RejectsInvalidSchemas(t *testing.T) {
	bad := vcskema.MustSchema("Bad", props(map[string]any{"x": map[string]any{"minLength": "three"}}))
	set, err := vcskema.NewSchemaSet(bad)
	require.NoError(t, err)
	_, err = vcskema.NewValidator(set)
	assert.Error(t, err)
}

func TestValidate_BarePropertyMapSource(t *testing.T) {
	user, err := vcskema.NewSchema("User", map[string]any{
		"name":     map[string]any{"type": "string", "default": "Anonymous"},
		"verified": map[string]any{"type": "boolean"},
	})
	require.NoError(t, err)
	set, err := vcskema.NewSchemaSet(user)
	require.NoError(t, err)
	v, err := vcskema.NewValidator(set)
	require.NoError(t, err)

	out, err := v.Validate(context.Background(), map[string]any{"verified": "1"}, "User")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Anonymous", "verified": true}, out)
}

func TestValidate_NonFiniteNumbersRenderAsNull(t *testing.T) {
	measure := vcskema.MustSchema("Measure", map[string]any{
		"properties": map[string]any{
			"n": map[string]any{"type": "number"},
			"p": map[string]any{"pattern": "^[A-Z]"},
		},
	})
	set, err := vcskema.NewSchemaSet(measure)
	require.NoError(t, err)
	v, err := vcskema.NewValidator(set)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = v.Validate(ctx, map[string]any{"n": "Infinity", "p": "x"}, "Measure")
	ve, ok := vcskema.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, math.IsInf(ve.Object.(map[string]any)["n"].(float64), 1))

	b, err := json.Marshal(ve)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	obj := got["object"].(map[string]any)
	assert.Contains(t, obj, "n")
	assert.Nil(t, obj["n"])
	assert.Equal(t, "x", obj["p"])

	out, err := v.Validate(ctx, map[string]any{"n": "-Infinity"}, "Measure")
	require.NoError(t, err)
	safe := vcskema.JSONSafe(out).(map[string]any)
	assert.Nil(t, safe["n"])
	assert.True(t, math.IsInf(out.(map[string]any)["n"].(float64), -1), "JSONSafe copies")
	_, err = json.Marshal(safe)
	assert.NoError(t, err)
}
