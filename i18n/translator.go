package i18n

import (
	"strconv"
	"strings"
	"sync"
)

// Translator retrieves localized messages for violation codes.
// params are positional and substituted into "{0}", "{1}", ... placeholders.
type Translator interface {
	Message(code string, params []string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"OBJECT_MISSING_REQUIRED_PROPERTY": "Missing required property: {0}",
		"OBJECT_ADDITIONAL_PROPERTIES":     "Additional properties not allowed: {0}",
		"INVALID_TYPE":                     "Expected type {0} but found type {1}",
		"PATTERN":                          "String does not match pattern {0}: {1}",
		"ENUM_MISMATCH":                    "No enum match for: {0}",
		"CONST_MISMATCH":                   "Value does not match const: {0}",
		"INVALID_FORMAT":                   "Object didn't pass validation for format {0}: {1}",
		"MIN_LENGTH":                       "String is too short ({0} chars), minimum {1}",
		"MAX_LENGTH":                       "String is too long ({0} chars), maximum {1}",
		"MINIMUM":                          "Value {0} is less than minimum {1}",
		"MAXIMUM":                          "Value {0} is greater than maximum {1}",
		"MINIMUM_EXCLUSIVE":                "Value {0} is equal or less than exclusive minimum {1}",
		"MAXIMUM_EXCLUSIVE":                "Value {0} is equal or greater than exclusive maximum {1}",
		"MULTIPLE_OF":                      "Value {0} is not a multiple of {1}",
		"ARRAY_LENGTH_SHORT":               "Array is too short ({0}), minimum {1}",
		"ARRAY_LENGTH_LONG":                "Array is too long ({0}), maximum {1}",
		"ARRAY_UNIQUE":                     "Array items are not unique (indexes {0} and {1})",
		"KEYWORD_MISMATCH":                 "Value failed keyword {0}",
	},
	"ja": {
		"OBJECT_MISSING_REQUIRED_PROPERTY": "必須プロパティが不足しています: {0}",
		"OBJECT_ADDITIONAL_PROPERTIES":     "追加のプロパティは許可されていません: {0}",
		"INVALID_TYPE":                     "型が不正です ({0} が必要ですが {1} でした)",
		"PATTERN":                          "パターン {0} に一致しません: {1}",
		"ENUM_MISMATCH":                    "列挙値に一致しません: {0}",
		"INVALID_FORMAT":                   "フォーマット {0} に一致しません: {1}",
		"MIN_LENGTH":                       "短すぎます ({0} 文字, 最小 {1})",
		"MAX_LENGTH":                       "長すぎます ({0} 文字, 最大 {1})",
	},
}

func (t dictTranslator) Message(code string, params []string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		tmpl, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return Format(tmpl, params)
}

// Format substitutes positional placeholders. Placeholders without a matching
// parameter are left untouched.
func Format(tmpl string, params []string) string {
	if len(params) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", p)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, params ...string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, params)
}
