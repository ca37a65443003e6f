package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/protocol"
)

// WebSocket security errors
var (
	ErrOriginNotAllowed = errors.New("origin not allowed")
)

// WebSocketConfig configures WebSocket security settings.
type WebSocketConfig struct {
	// AllowedOrigins lists origins accepted besides the same origin. "*"
	// allows every origin.
	AllowedOrigins []string

	// InsecureDevMode disables origin validation. Development only.
	InsecureDevMode bool
}

// DefaultWebSocketConfig returns the same-origin-only configuration.
func DefaultWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{}
}

// isOriginAllowed checks origin against the request host and the
// allow-list.
func (c *WebSocketConfig) isOriginAllowed(origin, requestHost string) bool {
	if c != nil && c.InsecureDevMode {
		return true
	}

	// No Origin header means a non-browser or same-origin request.
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Host == requestHost {
		return true
	}

	if c == nil {
		return false
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if allowedURL, err := url.Parse(allowed); err == nil && allowedURL.Host != "" && allowedURL.Host == originURL.Host {
			return true
		}
	}
	return false
}

// WebSocketTransport implements Transport over a server-side websocket.
type WebSocketTransport struct {
	*BaseTransport
	conn   *websocket.Conn
	codec  protocol.Codec
	logger logging.Logger
	mu     sync.Mutex
}

// Accept validates the origin, upgrades the request and starts the
// read, write and ping loops. A nil codec selects JSON.
func Accept(w http.ResponseWriter, r *http.Request, config *Config, wsConfig *WebSocketConfig, codec protocol.Codec, logger logging.Logger) (*WebSocketTransport, error) {
	if wsConfig == nil {
		wsConfig = DefaultWebSocketConfig()
	}
	if codec == nil {
		codec = protocol.JSONCodec{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	if !wsConfig.isOriginAllowed(r.Header.Get("Origin"), r.Host) {
		http.Error(w, "Forbidden: Origin not allowed", http.StatusForbidden)
		return nil, ErrOriginNotAllowed
	}

	// Origin was checked above.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return nil, fmt.Errorf("accept websocket: %w", err)
	}

	t := &WebSocketTransport{
		BaseTransport: NewBaseTransport(config),
		conn:          conn,
		codec:         codec,
		logger:        logger,
	}
	conn.SetReadLimit(t.config.MaxMessageSize)
	t.SetConnected(true)

	go t.readLoop()
	go t.writeLoop()
	go t.pingLoop()

	return t, nil
}

// Codec returns the wire codec of the connection.
func (t *WebSocketTransport) Codec() protocol.Codec {
	return t.codec
}

// Close closes the websocket connection.
func (t *WebSocketTransport) Close() error {
	t.BaseTransport.Close()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		err := t.conn.Close(websocket.StatusNormalClosure, "closing")
		t.conn = nil
		return err
	}
	return nil
}

func (t *WebSocketTransport) current() *websocket.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}

// readLoop decodes client frames. Heartbeats are answered here and never
// reach the session.
func (t *WebSocketTransport) readLoop() {
	defer t.Close()

	for {
		conn := t.current()
		if conn == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), t.config.ReadTimeout)
		_, data, err := conn.Read(ctx)
		cancel()

		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && websocket.CloseStatus(err) != websocket.StatusGoingAway {
				t.logger.Debug("websocket read ended", logging.Err(err))
			}
			return
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			t.logger.Debug("dropping malformed frame", logging.Err(err))
			continue
		}

		if msg.Event == protocol.EventHeartbeat {
			t.reply(msg.Ref)
			continue
		}

		if err := t.PushMessage(msg); err != nil {
			return
		}
	}
}

// writeLoop encodes and writes queued messages.
func (t *WebSocketTransport) writeLoop() {
	typ := websocket.MessageText
	if t.codec.Binary() {
		typ = websocket.MessageBinary
	}

	for {
		select {
		case msg := <-t.sendCh:
			conn := t.current()
			if conn == nil {
				return
			}

			data, err := t.codec.Encode(msg)
			if err != nil {
				t.logger.Warn("encode failed", logging.String("event", msg.Event), logging.Err(err))
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			err = conn.Write(ctx, typ, data)
			cancel()

			if err != nil {
				t.logger.Debug("websocket write failed", logging.Err(err))
				t.Close()
				return
			}

		case <-t.closeCh:
			return
		}
	}
}

// pingLoop sends protocol-level pings to keep intermediaries from closing
// an idle connection.
func (t *WebSocketTransport) pingLoop() {
	if t.config.PingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn := t.current()
			if conn == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			_ = conn.Ping(ctx)
			cancel()
		case <-t.closeCh:
			return
		}
	}
}

func (t *WebSocketTransport) reply(ref string) {
	select {
	case t.sendCh <- protocol.Reply(ref, "ok"):
	default:
	}
}
