package i18n_test

import (
	"testing"

	"github.com/reoring/vcskema/i18n"
	"github.com/stretchr/testify/assert"
)

func TestTranslator_SwitchLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	assert.Equal(t, "必須プロパティが不足しています: name", i18n.T("OBJECT_MISSING_REQUIRED_PROPERTY", "name"))
	// codes missing from the ja dictionary fall back to English
	assert.Equal(t, "Value 3 is not a multiple of 2", i18n.T("MULTIPLE_OF", "3", "2"))
}

func TestTranslator_UnknownCodeEchoesCode(t *testing.T) {
	assert.Equal(t, "SOMETHING_ELSE", i18n.T("SOMETHING_ELSE"))
}

func TestFormat_LeavesUnmatchedPlaceholders(t *testing.T) {
	assert.Equal(t, "String does not match pattern ^a$: {1}", i18n.Format("String does not match pattern {0}: {1}", []string{"^a$"}))
}
