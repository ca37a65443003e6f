package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wgaamuseum/museum/pkg/protocol"
)

// MockTransport implements Transport for testing.
type MockTransport struct {
	connected bool
	messages  []*protocol.Message
	failWith  error
	mu        sync.Mutex
}

func NewMockTransport() *MockTransport {
	return &MockTransport{connected: true}
}

func (m *MockTransport) Send(msg *protocol.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockTransport) Messages() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*protocol.Message(nil), m.messages...)
}

func TestNewSocket(t *testing.T) {
	socket := NewSocket("test-id", NewMockTransport())

	if socket.ID() != "test-id" {
		t.Errorf("expected ID 'test-id', got '%s'", socket.ID())
	}
	if !socket.IsConnected() {
		t.Error("expected socket to be connected")
	}
}

func TestSocket_Send(t *testing.T) {
	transport := NewMockTransport()
	socket := NewSocket("test-id", transport)

	if err := socket.Send(protocol.ReplaceAddressMessage("/cg/a/1")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	messages := transport.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Event != protocol.EventReplaceAddress || messages[0].String("path") != "/cg/a/1" {
		t.Errorf("unexpected message %+v", messages[0])
	}
}

func TestSocket_Send_Closed(t *testing.T) {
	socket := NewSocket("test-id", NewMockTransport())
	socket.Close()

	if err := socket.Send(protocol.NewMessage("test", nil)); !errors.Is(err, ErrSocketClosed) {
		t.Errorf("expected ErrSocketClosed, got %v", err)
	}
}

func TestSocket_Send_TransportFailure(t *testing.T) {
	transport := NewMockTransport()
	transport.failWith = errors.New("buffer full")
	socket := NewSocket("test-id", transport)

	if err := socket.Send(protocol.NewMessage("test", nil)); !errors.Is(err, ErrSendFailed) {
		t.Errorf("expected ErrSendFailed, got %v", err)
	}
}

func TestSocket_Send_Concurrent(t *testing.T) {
	transport := NewMockTransport()
	socket := NewSocket("test-id", transport)

	const goroutines = 50
	const messagesPerGoroutine = 20

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range messagesPerGoroutine {
				socket.Send(protocol.NewMessage("test", nil))
			}
		}()
	}
	wg.Wait()

	if got, want := len(transport.Messages()), goroutines*messagesPerGoroutine; got != want {
		t.Errorf("expected %d messages, got %d", want, got)
	}
}

func TestSocket_LastActivity(t *testing.T) {
	socket := NewSocket("test-id", NewMockTransport())
	initial := socket.LastActivity()

	time.Sleep(5 * time.Millisecond)
	socket.Send(protocol.NewMessage("test", nil))

	if !socket.LastActivity().After(initial) {
		t.Error("expected LastActivity to be updated after Send")
	}
}

func TestSocket_CloseReason(t *testing.T) {
	socket := NewSocket("test-id", NewMockTransport())
	if socket.CloseReason() != TerminateNormal {
		t.Errorf("expected normal, got %s", socket.CloseReason())
	}

	socket.closeWith(TerminateTimeout)
	socket.closeWith(TerminateShutdown)
	if socket.CloseReason() != TerminateTimeout {
		t.Errorf("expected the first close to win, got %s", socket.CloseReason())
	}
	if socket.IsConnected() {
		t.Error("expected socket to be closed")
	}
}

func TestSocketManager(t *testing.T) {
	sm := NewSocketManager()
	a := NewSocket("a", NewMockTransport())
	b := NewSocket("b", NewMockTransport())
	sm.Add(a)
	sm.Add(b)

	if sm.Count() != 2 {
		t.Fatalf("expected 2 sockets, got %d", sm.Count())
	}
	if got, ok := sm.Get("a"); !ok || got != a {
		t.Error("expected to find socket a")
	}
	if _, ok := sm.Get("zzz"); ok {
		t.Error("expected no socket zzz")
	}

	sm.Remove("a")
	sm.Remove("b")
	if sm.Count() != 0 {
		t.Errorf("expected 0 sockets, got %d", sm.Count())
	}
}

func TestSocketManager_CleanupInactive(t *testing.T) {
	sm := NewSocketManager()
	idle := NewSocket("idle", NewMockTransport())
	sm.Add(idle)

	time.Sleep(20 * time.Millisecond)
	fresh := NewSocket("fresh", NewMockTransport())
	sm.Add(fresh)

	if removed := sm.CleanupInactive(10 * time.Millisecond); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, ok := sm.Get("idle"); ok {
		t.Error("expected idle socket to be removed")
	}
	if idle.IsConnected() {
		t.Error("expected idle socket to be closed")
	}
	if idle.CloseReason() != TerminateTimeout {
		t.Errorf("expected timeout, got %s", idle.CloseReason())
	}
	if _, ok := sm.Get("fresh"); !ok {
		t.Error("expected fresh socket to remain")
	}
}

func TestSocketManager_Shutdown(t *testing.T) {
	sm := NewSocketManager()
	s := NewSocket("s", NewMockTransport())
	sm.Add(s)

	// Sessions remove their socket once it is closed.
	go func() {
		for s.IsConnected() {
			time.Sleep(time.Millisecond)
		}
		sm.Remove("s")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if s.CloseReason() != TerminateShutdown {
		t.Errorf("expected shutdown, got %s", s.CloseReason())
	}
	if sm.Add(NewSocket("late", NewMockTransport())) {
		t.Error("expected Add to be refused after shutdown")
	}
}

func TestContextHelpers(t *testing.T) {
	socket := NewSocket("ctx", NewMockTransport())
	params := Params{"path": "/memory"}
	ctx := BuildContext(context.Background(), socket, params)

	if SocketFromContext(ctx) != socket {
		t.Error("expected socket from context")
	}
	if ParamsFromContext(ctx).Get("path") != "/memory" {
		t.Error("expected params from context")
	}
	if SocketFromContext(context.Background()) != nil {
		t.Error("expected nil socket from empty context")
	}
	if params.GetDefault("region", "en") != "en" {
		t.Error("expected default region")
	}
	if params.GetDefault("path", "/") != "/memory" {
		t.Error("expected the supplied path")
	}
}
