// Package transport carries protocol messages between a live session and
// the browser.
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/wgaamuseum/museum/pkg/protocol"
)

// Common transport errors.
var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendTimeout      = errors.New("send timeout")
)

// Transport is a bidirectional message channel to one client.
type Transport interface {
	// Send queues a message for the client.
	Send(msg *protocol.Message) error

	// Receive returns incoming messages in arrival order.
	Receive() <-chan *protocol.Message

	// Done is closed once the transport is closed.
	Done() <-chan struct{}

	Close() error
	IsConnected() bool
}

// Config holds common transport configuration.
type Config struct {
	// ReadTimeout bounds the wait for the next client frame. Clients send
	// heartbeats, so a silent connection is considered dead.
	ReadTimeout time.Duration

	WriteTimeout time.Duration
	PingInterval time.Duration

	// MaxMessageSize is the maximum frame size in bytes.
	MaxMessageSize int64

	SendBufferSize    int
	ReceiveBufferSize int
}

// DefaultConfig returns the defaults used by the server.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:       90 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendBufferSize:    64,
		ReceiveBufferSize: 64,
	}
}

// BaseTransport provides the channels shared by transports.
type BaseTransport struct {
	config    *Config
	connected bool
	sendCh    chan *protocol.Message
	recvCh    chan *protocol.Message
	closeCh   chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
}

// NewBaseTransport creates a base transport. A nil config uses defaults.
func NewBaseTransport(config *Config) *BaseTransport {
	if config == nil {
		config = DefaultConfig()
	}
	return &BaseTransport{
		config:  config,
		sendCh:  make(chan *protocol.Message, config.SendBufferSize),
		recvCh:  make(chan *protocol.Message, config.ReceiveBufferSize),
		closeCh: make(chan struct{}),
	}
}

// Config returns the transport configuration.
func (t *BaseTransport) Config() *Config {
	return t.config
}

// IsConnected returns the connection status.
func (t *BaseTransport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// SetConnected updates the connection status.
func (t *BaseTransport) SetConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = connected
}

// Receive returns the receive channel.
func (t *BaseTransport) Receive() <-chan *protocol.Message {
	return t.recvCh
}

// Done returns the close channel.
func (t *BaseTransport) Done() <-chan struct{} {
	return t.closeCh
}

// Close marks the transport closed. It is safe to call more than once.
func (t *BaseTransport) Close() error {
	t.closeOnce.Do(func() {
		t.SetConnected(false)
		close(t.closeCh)
	})
	return nil
}

// Send queues msg, waiting at most WriteTimeout for buffer space.
func (t *BaseTransport) Send(msg *protocol.Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}

	timer := time.NewTimer(t.config.WriteTimeout)
	defer timer.Stop()

	select {
	case t.sendCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

// PushMessage delivers an incoming message. It blocks while the receive
// buffer is full so that no client event is ever dropped or reordered.
func (t *BaseTransport) PushMessage(msg *protocol.Message) error {
	select {
	case <-t.closeCh:
		return ErrConnectionClosed
	default:
	}

	select {
	case t.recvCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	}
}
