// Package models holds the value types exchanged by the password policy components.
package models

import (
	"strings"
	"time"
)

// Identity is the user data the host supplies for one validation. Every field
// is optional.
type Identity struct {
	Username    string
	FirstName   string
	LastName    string
	CN          string
	DisplayName string
	Locale      string
}

// ValidationRequest is the input of one validation call. A nil Identity means
// no user is known; a nil Password means the host sent no password at all.
type ValidationRequest struct {
	Identity       *Identity
	Password       *string
	AcceptLanguage string
	ClientIP       string
}

// Username returns the identity username, or "" when no identity is present.
func (r ValidationRequest) Username() string {
	if r.Identity == nil {
		return ""
	}
	return r.Identity.Username
}

// ViolationKind enumerates the closed set of rule failures.
type ViolationKind string

const (
	ViolationPasswordNull    ViolationKind = "password_null"
	ViolationHistoryReuse    ViolationKind = "history_reuse"
	ViolationMinLength       ViolationKind = "min_length"
	ViolationForbiddenWord   ViolationKind = "forbidden_word"
	ViolationComplexity      ViolationKind = "complexity"
	ViolationDisallowedChars ViolationKind = "disallowed_chars"
)

// Violation is one failed rule with its positional parameters.
//
//	min_length:       required int, actual int
//	forbidden_word:   token string
//	complexity:       found []CharGroup, missing []CharGroup
//	disallowed_chars: chars []string
type Violation struct {
	Kind   ViolationKind
	Params []any
}

// CharGroup is one of the four complexity character classes.
type CharGroup string

const (
	GroupDigits    CharGroup = "digits"
	GroupLowercase CharGroup = "lowercase"
	GroupUppercase CharGroup = "uppercase"
	GroupSymbols   CharGroup = "symbols"
)

// Label is the human-readable name rendered in complexity messages.
func (g CharGroup) Label() string {
	switch g {
	case GroupDigits:
		return "digits (0-9)"
	case GroupLowercase:
		return "lowercase (a-z)"
	case GroupUppercase:
		return "uppercase (A-Z)"
	case GroupSymbols:
		return "symbols (@!#$%&()=.:,;*<>)"
	default:
		return string(g)
	}
}

// Verdict is the outcome of one validation call.
type Verdict struct {
	Accepted   bool
	Locale     string
	Header     string
	Lines      []string
	Violations []Violation
	separator  string
}

// Accepted returns an accepting verdict.
func Accepted(locale string) *Verdict {
	return &Verdict{Accepted: true, Locale: locale}
}

// Rejected returns a rejecting verdict whose message joins header and lines with sep.
func Rejected(locale, header string, lines []string, violations []Violation, sep string) *Verdict {
	return &Verdict{
		Locale:     locale,
		Header:     header,
		Lines:      lines,
		Violations: violations,
		separator:  sep,
	}
}

// Message is the rendered rejection text, or "" for an accepted verdict.
func (v *Verdict) Message() string {
	if v == nil || v.Accepted {
		return ""
	}
	return strings.Join(append([]string{v.Header}, v.Lines...), v.separator)
}

// HasViolation reports whether the verdict carries a violation of kind.
func (v *Verdict) HasViolation(kind ViolationKind) bool {
	if v == nil {
		return false
	}
	for _, violation := range v.Violations {
		if violation.Kind == kind {
			return true
		}
	}
	return false
}

// HistoryRecord is one stored password fingerprint.
type HistoryRecord struct {
	UserID      string
	Fingerprint string
	CreatedAt   time.Time
	ClientIP    string
}
