package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wgaamuseum/museum/pkg/protocol"
)

var (
	ErrSocketClosed = errors.New("socket is closed")
	ErrSendFailed   = errors.New("failed to send message")
)

// Transport is the part of a connection transport a socket needs.
type Transport interface {
	Send(msg *protocol.Message) error
	Close() error
	IsConnected() bool
}

// Socket is the server end of one browser tab. Sends are safe from any
// goroutine; the session loop is the usual caller.
type Socket struct {
	id        string
	transport Transport

	mu     sync.RWMutex
	closed bool
	reason TerminateReason

	// Unix nanoseconds of the last message in either direction.
	lastActivity atomic.Int64
}

// NewSocket creates a connected socket.
func NewSocket(id string, transport Transport) *Socket {
	s := &Socket{id: id, transport: transport}
	s.UpdateActivity()
	return s
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// IsConnected reports whether the socket is open and its transport is up.
func (s *Socket) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.transport != nil && s.transport.IsConnected()
}

// LastActivity returns the time of the last send or received event.
func (s *Socket) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// UpdateActivity marks the socket as active now.
func (s *Socket) UpdateActivity() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Send delivers msg to the browser.
func (s *Socket) Send(msg *protocol.Message) error {
	if !s.IsConnected() {
		return ErrSocketClosed
	}
	s.UpdateActivity()

	if err := s.transport.Send(msg); err != nil {
		if !s.IsConnected() {
			return ErrSocketClosed
		}
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// Close closes the connection as a normal disconnect.
func (s *Socket) Close() error {
	return s.closeWith(TerminateNormal)
}

// closeWith closes the connection and records why. Only the first close
// sets the reason.
func (s *Socket) closeWith(reason TerminateReason) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.reason = reason
	s.mu.Unlock()

	if s.transport != nil {
		return s.transport.Close()
	}
	return nil
}

// CloseReason returns why the server closed the socket, or TerminateNormal
// when it is open or the client left on its own.
func (s *Socket) CloseReason() TerminateReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// SocketManager tracks the sockets of all live sessions.
type SocketManager struct {
	mu       sync.RWMutex
	sockets  map[string]*Socket
	shutdown bool
}

// NewSocketManager creates an empty socket manager.
func NewSocketManager() *SocketManager {
	return &SocketManager{sockets: make(map[string]*Socket)}
}

// Add registers a socket. It reports false once Shutdown has started.
func (sm *SocketManager) Add(socket *Socket) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.shutdown {
		return false
	}
	sm.sockets[socket.ID()] = socket
	return true
}

// Remove unregisters a socket.
func (sm *SocketManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sockets, id)
}

// Get retrieves a socket by ID.
func (sm *SocketManager) Get(id string) (*Socket, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sockets[id]
	return s, ok
}

// Count returns the number of registered sockets.
func (sm *SocketManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sockets)
}

// Shutdown stops accepting sockets and closes the registered ones. Their
// sessions remove themselves as they wind down; Shutdown waits for that
// until ctx is done.
func (sm *SocketManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	sm.shutdown = true
	sockets := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		sockets = append(sockets, s)
	}
	sm.mu.Unlock()

	for _, s := range sockets {
		_ = s.closeWith(TerminateShutdown)
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for sm.Count() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// CleanupInactive closes and removes sockets idle for longer than
// maxInactive and returns how many it removed. Their sessions end with
// TerminateTimeout.
func (sm *SocketManager) CleanupInactive(maxInactive time.Duration) int {
	sm.mu.Lock()
	var idle []*Socket
	now := time.Now()
	for id, s := range sm.sockets {
		if now.Sub(s.LastActivity()) > maxInactive {
			idle = append(idle, s)
			delete(sm.sockets, id)
		}
	}
	sm.mu.Unlock()

	for _, s := range idle {
		_ = s.closeWith(TerminateTimeout)
	}
	return len(idle)
}
