// Package hashroute dispatches hash-fragment paths to handlers.
//
// Routes are tried in registration order and the first structurally
// compatible pattern wins. No ambiguity checks happen at registration, so
// callers that register both "/a/:x/:y" and "/a/:x/:page?" must register the
// longer one first.
package hashroute

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/wgaamuseum/museum/pkg/logging"
)

// Handler handles a matched route.
type Handler func(ctx context.Context, params Params)

// NotFoundHandler handles a path that matched no route.
type NotFoundHandler func(ctx context.Context, path string)

// Route binds a pattern to a handler.
type Route struct {
	Pattern Pattern
	Handler Handler

	// Name is an optional label used in logs and metrics.
	Name string
}

// Match is the outcome of matching a path against the route table.
type Match struct {
	Route  *Route
	Path   string
	Params Params
}

// Observer receives dispatch outcomes. Used for metrics.
type Observer interface {
	Matched(pattern string)
	NotFound(path string)
}

// Router holds an ordered route table. It keeps no per-dispatch state.
type Router struct {
	routes   []*Route
	notFound NotFoundHandler
	observer Observer
	logger   logging.Logger
	mu       sync.RWMutex
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithObserver sets a dispatch observer.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		r.observer = o
	}
}

// WithNotFound sets the handler for unmatched paths.
func WithNotFound(h NotFoundHandler) Option {
	return func(r *Router) {
		r.notFound = h
	}
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		routes:   make([]*Route, 0),
		notFound: func(context.Context, string) {},
		logger:   logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RouteOption configures a Route at registration.
type RouteOption func(*Route)

// Named labels the route.
func Named(name string) RouteOption {
	return func(rt *Route) {
		rt.Name = name
	}
}

// Register appends a route to the table.
func (r *Router) Register(pattern string, h Handler, opts ...RouteOption) error {
	p, err := Parse(pattern)
	if err != nil {
		return err
	}

	rt := &Route{Pattern: p, Handler: h, Name: pattern}
	for _, opt := range opts {
		opt(rt)
	}

	r.mu.Lock()
	r.routes = append(r.routes, rt)
	r.mu.Unlock()
	return nil
}

// Handle is like Register but panics on a malformed pattern.
func (r *Router) Handle(pattern string, h Handler, opts ...RouteOption) {
	if err := r.Register(pattern, h, opts...); err != nil {
		panic(err)
	}
}

// SetNotFound replaces the not-found handler.
func (r *Router) SetNotFound(h NotFoundHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = h
}

// Routes returns the route table in registration order.
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Match finds the first compatible route for path.
func (r *Router) Match(path string) (*Match, bool) {
	path = Normalize(path)
	parts := Split(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if params, ok := rt.Pattern.match(parts); ok {
			return &Match{Route: rt, Path: path, Params: params}, true
		}
	}
	return nil, false
}

// Dispatch matches path and invokes the route handler, or the not-found
// handler when nothing matches. It reports whether a route matched.
func (r *Router) Dispatch(ctx context.Context, path string) bool {
	m, ok := r.Match(path)

	r.mu.RLock()
	notFound := r.notFound
	r.mu.RUnlock()

	if !ok {
		norm := Normalize(path)
		r.logger.Info("route not found", logging.String("path", norm))
		if r.observer != nil {
			r.observer.NotFound(norm)
		}
		notFound(ctx, norm)
		return false
	}

	r.logger.Debug("route matched",
		logging.String("path", m.Path),
		logging.String("pattern", m.Route.Pattern.String()),
		logging.Any("params", m.Params.Values()),
	)
	if r.observer != nil {
		r.observer.Matched(m.Route.Name)
	}
	m.Route.Handler(ctx, m.Params)
	return true
}

// Normalize turns an address fragment into a route path: a leading '#' is
// dropped, an empty path becomes "/", and a missing leading slash is added.
func Normalize(path string) string {
	path = strings.TrimPrefix(path, "#")
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Split breaks a normalized path into percent-decoded segments, dropping
// the empty segment before the leading slash. "/" yields [""].
func Split(path string) []string {
	parts := strings.Split(path, "/")[1:]
	for i, part := range parts {
		parts[i] = decode(part)
	}
	return parts
}

// decode percent-decodes a segment, keeping the raw text when it is not
// valid percent-encoding.
func decode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}

// Join builds a route path from raw segment values, escaping each one so
// that Split recovers them exactly.
func Join(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
