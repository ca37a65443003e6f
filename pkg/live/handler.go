package live

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/protocol"
	"github.com/wgaamuseum/museum/pkg/transport"
)

// Handler upgrades requests to websocket connections and runs one session
// per connection. The query string becomes the component params; the
// "codec" parameter selects the wire codec.
type Handler struct {
	factory   func() core.Component
	sockets   *core.SocketManager
	config    *transport.Config
	wsConfig  *transport.WebSocketConfig
	logger    logging.Logger
	observer  Observer
	baseCtx   context.Context
	newSocket func() string
}

// Option configures a Handler.
type Option func(*Handler)

// WithSocketManager shares a socket manager with the caller.
func WithSocketManager(m *core.SocketManager) Option {
	return func(h *Handler) { h.sockets = m }
}

// WithTransportConfig sets the transport timeouts and buffers.
func WithTransportConfig(c *transport.Config) Option {
	return func(h *Handler) { h.config = c }
}

// WithWebSocketConfig sets the origin policy.
func WithWebSocketConfig(c *transport.WebSocketConfig) Option {
	return func(h *Handler) { h.wsConfig = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithObserver sets the session observer.
func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

// WithBaseContext sets the parent context of every session. Cancelling it
// ends all sessions.
func WithBaseContext(ctx context.Context) Option {
	return func(h *Handler) { h.baseCtx = ctx }
}

// NewHandler creates a handler running components built by factory.
func NewHandler(factory func() core.Component, opts ...Option) *Handler {
	h := &Handler{
		factory:   factory,
		sockets:   core.NewSocketManager(),
		config:    transport.DefaultConfig(),
		wsConfig:  transport.DefaultWebSocketConfig(),
		logger:    logging.NopLogger{},
		observer:  nopObserver{},
		baseCtx:   context.Background(),
		newSocket: uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Sockets returns the socket manager.
func (h *Handler) Sockets() *core.SocketManager {
	return h.sockets
}

// ServeHTTP upgrades the request and blocks until the session ends. The
// websocket outlives the request context, so sessions run under the base
// context instead.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tr, err := transport.Accept(w, r, h.config, h.wsConfig, codec, h.logger)
	if err != nil {
		h.logger.Info("websocket rejected",
			logging.String("remote", r.RemoteAddr),
			logging.Err(err),
		)
		return
	}

	h.Serve(tr, extractParams(r))
}

// Serve runs a session over an established transport and blocks until it
// ends.
func (h *Handler) Serve(tr transport.Transport, params core.Params) {
	socket := core.NewSocket(h.newSocket(), tr)
	if !h.sockets.Add(socket) {
		tr.Close()
		return
	}
	defer h.sockets.Remove(socket.ID())

	_ = NewSession(socket, tr, h.factory(), params, h.logger, h.observer).Run(h.baseCtx)
}

// Shutdown closes every connection and waits for the sessions to end.
func (h *Handler) Shutdown(ctx context.Context) error {
	return h.sockets.Shutdown(ctx)
}

func extractParams(r *http.Request) core.Params {
	params := make(core.Params)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
