// Package tokenizer derives the forbidden words of a user from identity data.
//
// Names are reduced to plain ASCII words: anything that is not an ASCII letter
// or whitespace is dropped (accented letters are stripped, not transliterated),
// configured stop-words and single letters are removed, and what remains is
// split on whitespace.
package tokenizer

import (
	"regexp"
	"strings"

	"pwpolicy/internal/policy/models"
	pstrings "pwpolicy/pkg/platform/strings"
)

var (
	nonLetter   = regexp.MustCompile(`[^a-zA-Z\s]`)
	singleChar  = regexp.MustCompile(`\b\w\b\s?`)
	whitespace  = regexp.MustCompile(`\s+`)
	digitRun    = regexp.MustCompile(`[0-9]{4,}`)
	emptyTokens = []string{}
)

// Tokenizer turns identity data into an ordered list of forbidden tokens.
type Tokenizer struct {
	stopWords []*regexp.Regexp
}

// New builds a Tokenizer that removes stopWords (case-insensitive, whole word).
func New(stopWords []string) *Tokenizer {
	t := &Tokenizer{}
	for _, w := range stopWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		t.stopWords = append(t.stopWords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return t
}

// Tokenize splits a full name into its significant words, in order.
func (t *Tokenizer) Tokenize(fullName string) []string {
	if fullName == "" {
		return emptyTokens
	}

	clean := nonLetter.ReplaceAllString(fullName, "")
	for _, sw := range t.stopWords {
		clean = sw.ReplaceAllString(clean, "")
	}
	clean = singleChar.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(whitespace.ReplaceAllString(clean, " "))
	if clean == "" {
		return emptyTokens
	}
	return strings.Fields(clean)
}

// ForbiddenTokens returns the lowercased, de-duplicated tokens that may not
// appear in the user's password. Order is significant: the username digit
// run comes first, then the username, then the name words.
func (t *Tokenizer) ForbiddenTokens(identity *models.Identity) []string {
	if identity == nil {
		return emptyTokens
	}

	var tokens []string
	if run := DigitRun(identity.Username); run != "" {
		tokens = append(tokens, run)
	}
	if identity.Username != "" {
		tokens = append(tokens, identity.Username)
	}
	tokens = append(tokens, t.Tokenize(FullName(identity))...)

	if len(tokens) == 0 {
		return emptyTokens
	}
	return pstrings.DedupeLower(tokens)
}

// FullName picks the best available full name: LDAP cn, then displayName,
// then first and last name joined by a space.
func FullName(identity *models.Identity) string {
	if identity == nil {
		return ""
	}
	if identity.CN != "" {
		return identity.CN
	}
	if identity.DisplayName != "" {
		return identity.DisplayName
	}

	parts := make([]string, 0, 2)
	if identity.FirstName != "" {
		parts = append(parts, identity.FirstName)
	}
	if identity.LastName != "" {
		parts = append(parts, identity.LastName)
	}
	return strings.Join(parts, " ")
}

// DigitRun returns the first run of four or more consecutive digits in
// username, or "".
func DigitRun(username string) string {
	return digitRun.FindString(username)
}
