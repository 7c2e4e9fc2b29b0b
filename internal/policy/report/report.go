// Package report renders rule violations into a localized verdict.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"pwpolicy/internal/policy/models"
)

// Message keys of the catalog.
const (
	KeyRequirements      = "invalidPasswordRequirements"
	KeyNull              = "invalidPasswordNull"
	KeyHistory           = "invalidPasswordHistory"
	KeyMinLength         = "invalidPasswordMinLength"
	KeyBadWord           = "invalidPasswordContainsBadWord"
	KeyComplexity        = "invalidPasswordComplexity"
	KeyComplexityFound   = "invalidPasswordComplexityFound"
	KeyComplexityMissing = "invalidPasswordComplexityMissing"
	KeyInvalidChars      = "invalidPasswordInvalidChars"
)

// DefaultSeparator joins the header and lines of a rejection message.
const DefaultSeparator = "<br/>"

const (
	listSeparator = ", "
	noneFound     = "none"
)

// Messages resolves a template for a locale.
type Messages interface {
	Lookup(locale, key string) string
}

// Builder turns violations into verdicts.
type Builder struct {
	messages  Messages
	separator string
}

type Option func(*Builder)

func WithSeparator(sep string) Option {
	return func(b *Builder) {
		if sep != "" {
			b.separator = sep
		}
	}
}

func New(messages Messages, opts ...Option) *Builder {
	b := &Builder{
		messages:  messages,
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns Accepted for no violations, otherwise a rejection whose
// lines follow the order of violations.
func (b *Builder) Build(locale string, violations []models.Violation) *models.Verdict {
	if len(violations) == 0 {
		return models.Accepted(locale)
	}

	lines := make([]string, 0, len(violations)+2)
	for _, v := range violations {
		lines = append(lines, b.render(locale, v)...)
	}
	header := b.messages.Lookup(locale, KeyRequirements)
	return models.Rejected(locale, header, lines, violations, b.separator)
}

func (b *Builder) render(locale string, v models.Violation) []string {
	switch v.Kind {
	case models.ViolationPasswordNull:
		return []string{b.format(locale, KeyNull)}
	case models.ViolationHistoryReuse:
		return []string{b.format(locale, KeyHistory)}
	case models.ViolationMinLength:
		return []string{b.format(locale, KeyMinLength, v.Params...)}
	case models.ViolationForbiddenWord:
		return []string{b.format(locale, KeyBadWord, v.Params...)}
	case models.ViolationComplexity:
		found, missing := groupsParam(v.Params, 0), groupsParam(v.Params, 1)
		foundText := noneFound
		if len(found) > 0 {
			foundText = joinGroups(found)
		}
		return []string{
			b.format(locale, KeyComplexity),
			b.format(locale, KeyComplexityFound, foundText),
			b.format(locale, KeyComplexityMissing, joinGroups(missing)),
		}
	case models.ViolationDisallowedChars:
		var chars []string
		if len(v.Params) > 0 {
			chars, _ = v.Params[0].([]string)
		}
		return []string{b.format(locale, KeyInvalidChars, strings.Join(chars, listSeparator))}
	default:
		return []string{string(v.Kind)}
	}
}

// format looks up key and replaces each {i} with the i-th param.
func (b *Builder) format(locale, key string, params ...any) string {
	msg := b.messages.Lookup(locale, key)
	for i, p := range params {
		msg = strings.ReplaceAll(msg, "{"+strconv.Itoa(i)+"}", fmt.Sprint(p))
	}
	return msg
}

func groupsParam(params []any, i int) []models.CharGroup {
	if i >= len(params) {
		return nil
	}
	groups, _ := params[i].([]models.CharGroup)
	return groups
}

func joinGroups(groups []models.CharGroup) string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label()
	}
	return strings.Join(labels, listSeparator)
}
