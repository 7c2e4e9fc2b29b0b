// Package rules evaluates a password against the fixed policy pipeline.
// This is pure domain logic apart from the reuse check, which is delegated.
package rules

import (
	"context"
	"strings"
	"unicode/utf8"

	"pwpolicy/internal/policy/models"
	pstrings "pwpolicy/pkg/platform/strings"
)

// DefaultMinLength applies when no positive minimum is configured.
const DefaultMinLength = 12

// Symbols is the character set of the symbols complexity group.
const Symbols = "@!#$%&()=.:,;*<>"

// DisallowedChars may never appear in a password: quotes, accented Latin
// letters, the euro sign, plus and hyphen.
const DisallowedChars = `"'áàãâÁÀÃÂéèêÉÈÊíìîÍÌÎóòõôÓÒÕÔúùûÚÙÛçÇ€+-`

// MinGroups is how many of the four character groups a password must hit.
const MinGroups = 3

// Kind is a rule of the closed policy set.
type Kind int

const (
	KindHistoryReuse Kind = iota
	KindMinLength
	KindForbiddenWord
	KindComplexity
	KindDisallowedChars
)

// Pipeline is the evaluation order. History comes first so its violation
// leads the report.
var Pipeline = []Kind{
	KindHistoryReuse,
	KindMinLength,
	KindForbiddenWord,
	KindComplexity,
	KindDisallowedChars,
}

// ReuseChecker answers whether userID already used password.
type ReuseChecker interface {
	IsReused(ctx context.Context, userID, password string) bool
}

// Input is everything one evaluation needs.
type Input struct {
	Password  *string
	UserID    string
	Tokens    []string
	MinLength int
	Reuse     ReuseChecker
}

// Evaluate runs every rule of Pipeline and returns the violations in order.
// A nil password yields only ViolationPasswordNull.
func Evaluate(ctx context.Context, in Input) []models.Violation {
	if in.Password == nil {
		return []models.Violation{{Kind: models.ViolationPasswordNull}}
	}

	var violations []models.Violation
	for _, kind := range Pipeline {
		if v, failed := evaluate(ctx, kind, *in.Password, in); failed {
			violations = append(violations, v)
		}
	}
	return violations
}

func evaluate(ctx context.Context, kind Kind, password string, in Input) (models.Violation, bool) {
	switch kind {
	case KindHistoryReuse:
		return checkHistory(ctx, password, in.UserID, in.Reuse)
	case KindMinLength:
		return checkMinLength(password, in.MinLength)
	case KindForbiddenWord:
		return checkForbiddenWords(password, in.Tokens)
	case KindComplexity:
		return checkComplexity(password)
	case KindDisallowedChars:
		return checkDisallowedChars(password)
	default:
		return models.Violation{}, false
	}
}

func checkHistory(ctx context.Context, password, userID string, reuse ReuseChecker) (models.Violation, bool) {
	if userID == "" || reuse == nil {
		return models.Violation{}, false
	}
	if reuse.IsReused(ctx, userID, password) {
		return models.Violation{Kind: models.ViolationHistoryReuse}, true
	}
	return models.Violation{}, false
}

// EffectiveMinLength returns configured, or DefaultMinLength when configured
// is not positive.
func EffectiveMinLength(configured int) int {
	if configured <= 0 {
		return DefaultMinLength
	}
	return configured
}

func checkMinLength(password string, configured int) (models.Violation, bool) {
	required := EffectiveMinLength(configured)
	actual := utf8.RuneCountInString(password)
	if actual < required {
		return models.Violation{Kind: models.ViolationMinLength, Params: []any{required, actual}}, true
	}
	return models.Violation{}, false
}

// checkForbiddenWords reports only the first token found in password.
func checkForbiddenWords(password string, tokens []string) (models.Violation, bool) {
	lower := strings.ToLower(password)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(token)) {
			return models.Violation{Kind: models.ViolationForbiddenWord, Params: []any{token}}, true
		}
	}
	return models.Violation{}, false
}

// Groups returns which character groups password hits, in display order.
func Groups(password string) (found, missing []models.CharGroup) {
	var digits, lower, upper, symbols bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(Symbols, r):
			symbols = true
		}
	}

	for _, g := range []struct {
		group models.CharGroup
		hit   bool
	}{
		{models.GroupDigits, digits},
		{models.GroupLowercase, lower},
		{models.GroupUppercase, upper},
		{models.GroupSymbols, symbols},
	} {
		if g.hit {
			found = append(found, g.group)
		} else {
			missing = append(missing, g.group)
		}
	}
	return found, missing
}

func checkComplexity(password string) (models.Violation, bool) {
	found, missing := Groups(password)
	if len(found) >= MinGroups {
		return models.Violation{}, false
	}
	return models.Violation{Kind: models.ViolationComplexity, Params: []any{found, missing}}, true
}

func checkDisallowedChars(password string) (models.Violation, bool) {
	var offending []string
	for _, r := range password {
		if strings.ContainsRune(DisallowedChars, r) {
			offending = append(offending, string(r))
		}
	}
	offending = pstrings.Dedupe(offending)
	if len(offending) == 0 {
		return models.Violation{}, false
	}
	return models.Violation{Kind: models.ViolationDisallowedChars, Params: []any{offending}}, true
}
