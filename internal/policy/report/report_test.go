package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpolicy/internal/policy/models"
)

type mapMessages map[string]map[string]string

func (m mapMessages) Lookup(locale, key string) string {
	if msg, ok := m[locale][key]; ok {
		return msg
	}
	if msg, ok := m["en"][key]; ok {
		return msg
	}
	return key
}

var messages = mapMessages{
	"en": {
		KeyRequirements:      "Requirements:",
		KeyNull:              "Password required.",
		KeyHistory:           "Password used before.",
		KeyMinLength:         "At least {0} characters (has {1}).",
		KeyBadWord:           "Must not contain {0}.",
		KeyComplexity:        "Needs 3 of 4 groups.",
		KeyComplexityFound:   "Found: {0}",
		KeyComplexityMissing: "Missing: {0}",
		KeyInvalidChars:      "Not allowed: {0}",
	},
	"pt": {
		KeyRequirements: "Requisitos:",
		KeyMinLength:    "Pelo menos {0} caracteres (tem {1}).",
	},
}

func TestBuildAccepted(t *testing.T) {
	v := New(messages).Build("en", nil)

	assert.True(t, v.Accepted)
	assert.Equal(t, "en", v.Locale)
	assert.Empty(t, v.Message())
}

func TestBuildRendersEveryViolationInOrder(t *testing.T) {
	violations := []models.Violation{
		{Kind: models.ViolationHistoryReuse},
		{Kind: models.ViolationMinLength, Params: []any{12, 6}},
		{Kind: models.ViolationForbiddenWord, Params: []any{"shahadat"}},
		{Kind: models.ViolationComplexity, Params: []any{
			[]models.CharGroup{models.GroupDigits, models.GroupLowercase},
			[]models.CharGroup{models.GroupUppercase, models.GroupSymbols},
		}},
		{Kind: models.ViolationDisallowedChars, Params: []any{[]string{"+", "-"}}},
	}

	v := New(messages).Build("en", violations)
	require.False(t, v.Accepted)

	assert.Equal(t, "Requirements:", v.Header)
	assert.Equal(t, []string{
		"Password used before.",
		"At least 12 characters (has 6).",
		"Must not contain shahadat.",
		"Needs 3 of 4 groups.",
		"Found: digits (0-9), lowercase (a-z)",
		"Missing: uppercase (A-Z), symbols (@!#$%&()=.:,;*<>)",
		"Not allowed: +, -",
	}, v.Lines)
	assert.Equal(t, violations, v.Violations)
	assert.Equal(t,
		"Requirements:<br/>Password used before.<br/>At least 12 characters (has 6).<br/>Must not contain shahadat.<br/>"+
			"Needs 3 of 4 groups.<br/>Found: digits (0-9), lowercase (a-z)<br/>"+
			"Missing: uppercase (A-Z), symbols (@!#$%&()=.:,;*<>)<br/>Not allowed: +, -",
		v.Message())
}

func TestBuildComplexityWithNothingFound(t *testing.T) {
	v := New(messages).Build("en", []models.Violation{{
		Kind: models.ViolationComplexity,
		Params: []any{
			[]models.CharGroup(nil),
			[]models.CharGroup{models.GroupDigits, models.GroupLowercase, models.GroupUppercase, models.GroupSymbols},
		},
	}})

	assert.Equal(t, "Found: none", v.Lines[1])
}

func TestBuildLocaleFallbackAndSeparator(t *testing.T) {
	v := New(messages, WithSeparator("\n")).Build("pt", []models.Violation{
		{Kind: models.ViolationMinLength, Params: []any{12, 4}},
		{Kind: models.ViolationPasswordNull},
	})

	assert.Equal(t, "pt", v.Locale)
	assert.Equal(t, "Requisitos:\nPelo menos 12 caracteres (tem 4).\nPassword required.", v.Message())
}

func TestBuildMissingKeyRendersKeyName(t *testing.T) {
	v := New(mapMessages{}).Build("en", []models.Violation{{Kind: models.ViolationHistoryReuse}})

	assert.Equal(t, "invalidPasswordRequirements<br/>invalidPasswordHistory", v.Message())
}
