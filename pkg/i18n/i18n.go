// Package i18n is the museum's string table. Lookups fall back to English
// and finally to the key itself, so a missing translation never breaks a
// screen.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
)

// DefaultLocale is the fallback locale.
const DefaultLocale = "en"

//go:embed locales/*.json
var embedded embed.FS

// Bundle holds the strings of every loaded locale.
type Bundle struct {
	mu       sync.RWMutex
	strings  map[string]map[string]string
	fallback string
}

// NewBundle creates an empty bundle falling back to fallback.
func NewBundle(fallback string) *Bundle {
	return &Bundle{strings: make(map[string]map[string]string), fallback: fallback}
}

// Default returns a bundle with the built-in locales.
func Default() *Bundle {
	b := NewBundle(DefaultLocale)
	if err := b.LoadFS(embedded, "locales"); err != nil {
		panic(fmt.Sprintf("i18n: built-in locales: %v", err))
	}
	return b
}

// Add merges strings into locale.
func (b *Bundle) Add(locale string, entries map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.strings[locale]
	if m == nil {
		m = make(map[string]string, len(entries))
		b.strings[locale] = m
	}
	for k, v := range entries {
		m[k] = v
	}
}

// LoadFS loads every <locale>.json file of dir.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		b.Add(strings.TrimSuffix(e.Name(), ".json"), m)
	}
	return nil
}

// Locales returns the loaded locales, sorted.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.strings))
	for l := range b.strings {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.strings[locale][key]; ok && v != "" {
		return v, true
	}
	if v, ok := b.strings[b.fallback][key]; ok && v != "" {
		return v, true
	}
	return "", false
}

// T translates key for locale. Args are applied with fmt.Sprintf.
func (b *Bundle) T(locale, key string, args ...any) string {
	v, ok := b.lookup(strings.ToLower(locale), key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(v, args...)
	}
	return v
}

// Translator returns a translator bound to locale.
func (b *Bundle) Translator(locale string) *Translator {
	return &Translator{bundle: b, locale: strings.ToLower(locale)}
}

// Translator translates for one locale.
type Translator struct {
	bundle *Bundle
	locale string
}

// Locale returns the bound locale.
func (t *Translator) Locale() string { return t.locale }

// T translates key.
func (t *Translator) T(key string, args ...any) string {
	if t == nil || t.bundle == nil {
		return key
	}
	return t.bundle.T(t.locale, key, args...)
}

type translatorKey struct{}

// WithTranslator adds a translator to ctx.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, translatorKey{}, t)
}

// TranslatorFromContext returns the translator of ctx, or nil.
func TranslatorFromContext(ctx context.Context) *Translator {
	t, _ := ctx.Value(translatorKey{}).(*Translator)
	return t
}

// T translates with the translator of ctx. Without one the key is returned.
func T(ctx context.Context, key string, args ...any) string {
	return TranslatorFromContext(ctx).T(key, args...)
}
