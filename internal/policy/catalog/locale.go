package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// newMatcher builds a matcher over the available locales with def first, so
// def is what the matcher falls back to.
func newMatcher(def string, locales []string) ([]string, language.Matcher) {
	supported := []string{def}
	for _, l := range locales {
		if l != def {
			supported = append(supported, l)
		}
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		tag, err := language.Parse(l)
		if err != nil {
			tag = language.Und
		}
		tags = append(tags, tag)
	}
	return supported, language.NewMatcher(tags)
}

// Resolve picks the locale for one validation: the identity's own locale
// when it is a well-formed tag, then a supported language from the Accept-Language hint, then
// the default locale.
func (c *Catalog) Resolve(identityLocale, acceptLanguage string) string {
	if locale := primarySubtag(identityLocale); locale != "" {
		return locale
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, confidence := c.matcher.Match(tags...)
			if confidence != language.No && idx >= 0 && idx < len(c.supported) {
				return c.supported[idx]
			}
		}
	}

	return c.defaultLocale
}

// primarySubtag returns the base language of a tag like "pt-BR" or "pt_BR",
// or "" when locale is not a well-formed BCP 47 tag.
func primarySubtag(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
