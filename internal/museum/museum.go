// Package museum is the catalog browser itself: the category screens, the
// route table that reaches them and the live component that serves one
// browser tab.
//
// A Museum holds what every session shares (the snapshot store, templates,
// strings). NewComponent creates the per-connection Page.
package museum

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/wgaamuseum/museum/pkg/assets"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/hashroute"
	"github.com/wgaamuseum/museum/pkg/i18n"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/view"
)

//go:embed templates/*.tmpl landing.md
var files embed.FS

// ErrNoVersions is returned by the default version source.
var ErrNoVersions = errors.New("no version source configured")

// VersionSource returns the game version document.
type VersionSource func(ctx context.Context) (catalog.Versions, error)

// Observer receives router outcomes and preload volume. Used for metrics.
type Observer interface {
	hashroute.Observer
	Preloaded(count int)
}

// Museum is shared by every session.
type Museum struct {
	store         *catalog.Store
	locator       *assets.Locator
	bundle        *i18n.Bundle
	versions      VersionSource
	region        string
	locale        string
	preloadRadius int
	logger        logging.Logger
	observer      Observer

	templates *template.Template
	landing   template.HTML
	text      *bluemonday.Policy
}

// Option configures a Museum.
type Option func(*Museum)

// WithLocator sets the asset locator.
func WithLocator(l *assets.Locator) Option {
	return func(m *Museum) { m.locator = l }
}

// WithBundle sets the string table.
func WithBundle(b *i18n.Bundle) Option {
	return func(m *Museum) { m.bundle = b }
}

// WithVersions sets the source of the landing version table.
func WithVersions(v VersionSource) Option {
	return func(m *Museum) { m.versions = v }
}

// WithRegion sets the region of sessions that ask for none.
func WithRegion(region string) Option {
	return func(m *Museum) { m.region = region }
}

// WithLocale sets the locale of sessions that ask for none.
func WithLocale(locale string) Option {
	return func(m *Museum) { m.locale = locale }
}

// WithPreloadRadius sets how many neighbours a detail view preloads.
func WithPreloadRadius(r int) Option {
	return func(m *Museum) { m.preloadRadius = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Museum) { m.logger = l }
}

// WithObserver sets the observer.
func WithObserver(o Observer) Option {
	return func(m *Museum) { m.observer = o }
}

// New creates a museum reading snapshots from store.
func New(store *catalog.Store, opts ...Option) (*Museum, error) {
	m := &Museum{
		store:         store,
		locator:       assets.NewLocator(assets.DefaultBaseURL),
		bundle:        i18n.Default(),
		region:        "en",
		locale:        i18n.DefaultLocale,
		preloadRadius: view.DefaultPreloadRadius,
		logger:        logging.NopLogger{},
		text:          bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.versions == nil {
		m.versions = func(context.Context) (catalog.Versions, error) {
			return nil, ErrNoVersions
		}
	}

	tmpl, err := template.New("museum").Funcs(template.FuncMap{
		"stars": stars,
	}).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	m.templates = tmpl

	landing, err := renderMarkdown("landing.md")
	if err != nil {
		return nil, err
	}
	m.landing = landing
	return m, nil
}

// NewComponent creates the component of one connection.
func (m *Museum) NewComponent() core.Component {
	return newPage(m)
}

// Shell writes the HTML document that hosts the live view. liveURL is the
// websocket endpoint and script the client script URL.
func (m *Museum) Shell(w io.Writer, liveURL, script string) error {
	return m.templates.ExecuteTemplate(w, "shell", shellView{
		Title:   m.bundle.T(m.locale, "siteTitle"),
		Lang:    m.locale,
		LiveURL: liveURL,
		Script:  script,
		Region:  m.region,
	})
}

// renderMarkdown converts an embedded Markdown file. Raw HTML in the source
// is dropped.
func renderMarkdown(name string) (template.HTML, error) {
	src, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// clean strips the game's rich-text tags from record text.
func (m *Museum) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(m.text.Sanitize(s)))
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("★", n)
}

// CachedVersions wraps src so the document is fetched at most once per ttl.
// Failures are not cached.
func CachedVersions(src VersionSource, ttl time.Duration) VersionSource {
	var (
		mu      sync.Mutex
		value   catalog.Versions
		fetched time.Time
	)
	return func(ctx context.Context) (catalog.Versions, error) {
		mu.Lock()
		defer mu.Unlock()
		if value != nil && time.Since(fetched) < ttl {
			return value, nil
		}
		v, err := src(ctx)
		if err != nil {
			return nil, err
		}
		value, fetched = v, time.Now()
		return v, nil
	}
}
