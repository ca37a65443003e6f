package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/protocol"
	"github.com/wgaamuseum/museum/pkg/transport"
)

// counter renders the events it has seen.
type counter struct {
	core.BaseComponent

	mu         sync.Mutex
	path       string
	events     []string
	terminated []core.TerminateReason
	mountErr   error
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Mount(ctx context.Context, params core.Params) error {
	c.path = params.GetDefault("path", "/")
	return c.mountErr
}

func (c *counter) HandleEvent(ctx context.Context, msg *protocol.Message) error {
	switch msg.Event {
	case "explode":
		panic("boom")
	case "fail":
		return errors.New("nope")
	}
	c.events = append(c.events, msg.Event)
	return nil
}

func (c *counter) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s|%s", c.path, strings.Join(c.events, ","))
		return err
	})
}

func (c *counter) Terminate(ctx context.Context, reason core.TerminateReason) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminated = append(c.terminated, reason)
	return nil
}

func (c *counter) reasons() []core.TerminateReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.TerminateReason(nil), c.terminated...)
}

func next(t *testing.T, tr *transport.MemoryTransport) *protocol.Message {
	t.Helper()
	select {
	case msg := <-tr.Outbox():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestSession_RendersAfterEveryEventInOrder(t *testing.T) {
	comp := &counter{}
	h := NewHandler(func() core.Component { return comp })
	tr := transport.NewMemoryTransport(nil)

	done := make(chan struct{})
	go func() {
		h.Serve(tr, core.Params{"path": "/cg/a"})
		close(done)
	}()

	if got := next(t, tr); got.Event != protocol.EventRender || got.String("html") != "/cg/a|" {
		t.Fatalf("expected initial render, got %s %q", got.Event, got.String("html"))
	}

	for _, ev := range []string{protocol.EventNext, protocol.EventNext, protocol.EventPrev} {
		if err := tr.Inject(protocol.NewMessage(ev, nil)); err != nil {
			t.Fatalf("inject: %v", err)
		}
	}
	want := []string{"/cg/a|next", "/cg/a|next,next", "/cg/a|next,next,prev"}
	for _, w := range want {
		if got := next(t, tr).String("html"); got != w {
			t.Errorf("expected %q, got %q", w, got)
		}
	}

	if h.Sockets().Count() != 1 {
		t.Errorf("expected 1 socket, got %d", h.Sockets().Count())
	}

	tr.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end")
	}
	if h.Sockets().Count() != 0 {
		t.Errorf("expected socket to be removed, got %d", h.Sockets().Count())
	}
	if r := comp.reasons(); len(r) != 1 || r[0] != core.TerminateNormal {
		t.Errorf("expected normal termination, got %v", r)
	}
}

func TestSession_ErrorsDoNotEndSession(t *testing.T) {
	comp := &counter{}
	h := NewHandler(func() core.Component { return comp })
	tr := transport.NewMemoryTransport(nil)
	go h.Serve(tr, nil)
	defer tr.Close()

	next(t, tr)

	tr.Inject(protocol.NewMessage("explode", nil).WithRef("1"))
	got := next(t, tr)
	if got.Event != protocol.EventError || got.Ref != "1" || !strings.Contains(got.String("reason"), "panicked") {
		t.Errorf("expected panic error for ref 1, got %+v", got)
	}

	tr.Inject(protocol.NewMessage("fail", nil).WithRef("2"))
	got = next(t, tr)
	if got.Event != protocol.EventError || got.String("reason") != "nope" {
		t.Errorf("expected error nope, got %+v", got)
	}

	tr.Inject(protocol.NewMessage(protocol.EventBack, nil))
	if got := next(t, tr); got.String("html") != "/|back" {
		t.Errorf("expected render after recovery, got %q", got.String("html"))
	}
}

func TestSession_MountFailure(t *testing.T) {
	comp := &counter{mountErr: errors.New("failed to load data for region")}
	h := NewHandler(func() core.Component { return comp })
	tr := transport.NewMemoryTransport(nil)

	done := make(chan struct{})
	go func() {
		h.Serve(tr, nil)
		close(done)
	}()

	if got := next(t, tr); got.Event != protocol.EventError {
		t.Errorf("expected error message, got %s", got.Event)
	}
	tr.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end after mount failure")
	}
	if r := comp.reasons(); len(r) != 1 || r[0] != core.TerminateError {
		t.Errorf("expected error termination, got %v", r)
	}
}

func TestHandler_ShutdownTerminatesSessions(t *testing.T) {
	comp := &counter{}
	h := NewHandler(func() core.Component { return comp })
	tr := transport.NewMemoryTransport(nil)
	go h.Serve(tr, nil)
	next(t, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if r := comp.reasons(); len(r) != 1 || r[0] != core.TerminateShutdown {
		t.Errorf("expected shutdown termination, got %v", r)
	}

	late := transport.NewMemoryTransport(nil)
	h.Serve(late, nil)
	if late.IsConnected() {
		t.Error("expected late connection to be refused")
	}
}

func TestHandler_IdleSessionsTimeOut(t *testing.T) {
	comp := &counter{}
	h := NewHandler(func() core.Component { return comp })
	tr := transport.NewMemoryTransport(nil)

	done := make(chan struct{})
	go func() {
		h.Serve(tr, nil)
		close(done)
	}()
	next(t, tr)

	time.Sleep(20 * time.Millisecond)
	if n := h.Sockets().CleanupInactive(10 * time.Millisecond); n != 1 {
		t.Fatalf("expected 1 idle session, got %d", n)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("idle session did not end")
	}
	if r := comp.reasons(); len(r) != 1 || r[0] != core.TerminateTimeout {
		t.Errorf("expected timeout termination, got %v", r)
	}
}

func TestHandler_WebSocket(t *testing.T) {
	h := NewHandler(func() core.Component { return &counter{} })
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?path=/memory&codec=msgpack"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Errorf("expected binary frame for msgpack, got %v", typ)
	}
	msg, err := protocol.MsgPackCodec{}.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.String("html") != "/memory|" {
		t.Errorf("expected initial render of /memory, got %q", msg.String("html"))
	}
}

func TestHandler_RejectsUnknownCodec(t *testing.T) {
	h := NewHandler(func() core.Component { return &counter{} })
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/live?codec=xml", nil))
	if w.Code != 400 {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
