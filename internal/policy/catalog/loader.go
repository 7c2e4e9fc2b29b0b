package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magiconair/properties"

	"pwpolicy/pkg/platform/sentinel"
)

//go:embed messages/*.properties
var builtin embed.FS

const (
	filePrefix = "messages_"
	fileSuffix = ".properties"
)

var parser = properties.Loader{
	Encoding:         properties.UTF8,
	DisableExpansion: true,
}

func fileName(locale string) string {
	return filePrefix + locale + fileSuffix
}

// loadFrom reads the catalog for locale from dir when present, then from the
// built-in catalogs. It returns sentinel.ErrNotFound when neither has one.
func loadFrom(dir, locale string) (map[string]string, string, error) {
	if dir != "" {
		path := filepath.Join(dir, fileName(locale))
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			m, err := parse(b)
			if err != nil {
				return nil, "", fmt.Errorf("parse %s: %w", path, err)
			}
			return m, "external", nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, "", fmt.Errorf("read %s: %w", path, err)
		}
	}

	b, err := builtin.ReadFile("messages/" + fileName(locale))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("catalog %q: %w", locale, sentinel.ErrNotFound)
		}
		return nil, "", fmt.Errorf("read built-in catalog %q: %w", locale, err)
	}
	m, err := parse(b)
	if err != nil {
		return nil, "", fmt.Errorf("parse built-in catalog %q: %w", locale, err)
	}
	return m, "builtin", nil
}

func parse(b []byte) (map[string]string, error) {
	p, err := parser.LoadBytes(b)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

// available lists the locales with a catalog in dir or built in, sorted.
func available(dir string) []string {
	seen := map[string]struct{}{}
	collect := func(names []string) {
		for _, name := range names {
			base := filepath.Base(name)
			if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
				continue
			}
			locale := strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix)
			if locale != "" {
				seen[locale] = struct{}{}
			}
		}
	}

	if entries, err := fs.Glob(builtin, "messages/*"+fileSuffix); err == nil {
		collect(entries)
	}
	if dir != "" {
		if entries, err := filepath.Glob(filepath.Join(dir, "*"+fileSuffix)); err == nil {
			collect(entries)
		}
	}

	out := make([]string, 0, len(seen))
	for locale := range seen {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}
