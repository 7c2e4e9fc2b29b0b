// Package catalog serves localized message templates.
//
// Catalogs are Java-style .properties files named messages_<locale>.properties.
// An external directory takes priority over the built-in catalogs. Loaded
// catalogs are cached per locale for the life of the process.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// DefaultLocale is used when nothing better is known.
const DefaultLocale = "en"

// Catalog is a read-through cache of message catalogs. Safe for concurrent use.
type Catalog struct {
	dir           string
	defaultLocale string
	logger        *slog.Logger

	mu    sync.RWMutex
	cache map[string]map[string]string
	group singleflight.Group

	supported []string
	known     map[string]struct{}
	matcher   language.Matcher
}

type Option func(*Catalog)

// WithDir sets the external directory searched before the built-in catalogs.
func WithDir(dir string) Option {
	return func(c *Catalog) {
		c.dir = dir
	}
}

func WithDefaultLocale(locale string) Option {
	return func(c *Catalog) {
		if locale != "" {
			c.defaultLocale = locale
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		defaultLocale: DefaultLocale,
		logger:        slog.Default(),
		cache:         make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.supported, c.matcher = newMatcher(c.defaultLocale, available(c.dir))
	c.known = make(map[string]struct{}, len(c.supported))
	for _, l := range c.supported {
		c.known[l] = struct{}{}
	}
	return c
}

// DefaultLocale returns the fallback locale.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Supported returns the locales that have a catalog, default first.
func (c *Catalog) Supported() []string {
	return append([]string(nil), c.supported...)
}

// Lookup returns the template for key in locale, falling back to the default
// locale and finally to key itself.
func (c *Catalog) Lookup(locale, key string) string {
	if msg, ok := c.Messages(locale)[key]; ok {
		return msg
	}
	if locale != c.defaultLocale {
		if msg, ok := c.Messages(c.defaultLocale)[key]; ok {
			return msg
		}
	}
	return key
}

// Messages returns the catalog for locale. A locale without a catalog yields
// the default locale's catalog; a failed default yields an empty catalog.
func (c *Catalog) Messages(locale string) map[string]string {
	locale = c.catalogLocale(locale)

	c.mu.RLock()
	m, ok := c.cache[locale]
	c.mu.RUnlock()
	if ok {
		return m
	}

	v, _, _ := c.group.Do(locale, func() (any, error) {
		c.mu.RLock()
		m, ok := c.cache[locale]
		c.mu.RUnlock()
		if ok {
			return m, nil
		}

		m = c.load(locale)

		c.mu.Lock()
		c.cache[locale] = m
		c.mu.Unlock()
		return m, nil
	})
	return v.(map[string]string)
}

// catalogLocale maps locale to the cache key it is served from. Only locales
// listed at construction are ever loaded or cached.
func (c *Catalog) catalogLocale(locale string) string {
	if _, ok := c.known[locale]; ok {
		return locale
	}
	return c.defaultLocale
}

func (c *Catalog) load(locale string) map[string]string {
	ctx := context.Background()

	m, source, err := loadFrom(c.dir, locale)
	if err == nil {
		c.logger.InfoContext(ctx, "message catalog loaded", "locale", locale, "source", source)
		return m
	}

	if locale != c.defaultLocale {
		c.logger.WarnContext(ctx, "message catalog failed to load, using default locale",
			"locale", locale,
			"default_locale", c.defaultLocale,
			"error", err,
		)
		return c.Messages(c.defaultLocale)
	}

	c.logger.ErrorContext(ctx, "default message catalog unavailable, messages fall back to keys",
		"locale", locale,
		"error", err,
	)
	return map[string]string{}
}
