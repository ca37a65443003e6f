package limits

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConnectionLimiter_AcquireRelease(t *testing.T) {
	cl := NewConnectionLimiter(2)

	if !cl.Acquire("10.0.0.1") || !cl.Acquire("10.0.0.1") {
		t.Fatal("expected two slots to be free")
	}
	if cl.Acquire("10.0.0.1") {
		t.Error("expected the third connection to be refused")
	}
	if !cl.Acquire("10.0.0.2") {
		t.Error("expected another address to have its own slots")
	}
	if cl.Blocked() != 1 {
		t.Errorf("expected 1 blocked, got %d", cl.Blocked())
	}

	cl.Release("10.0.0.1")
	if got := cl.Count("10.0.0.1"); got != 1 {
		t.Errorf("expected 1 open connection, got %d", got)
	}
	cl.Release("10.0.0.1")
	cl.Release("10.0.0.1")
	if got := cl.Count("10.0.0.1"); got != 0 {
		t.Errorf("expected 0 open connections, got %d", got)
	}
}

func TestConnectionLimiter_Unlimited(t *testing.T) {
	cl := NewConnectionLimiter(0)
	for i := 0; i < 100; i++ {
		if !cl.Acquire("10.0.0.1") {
			t.Fatalf("expected no limit, refused at %d", i)
		}
	}
}

func TestConnectionLimiter_Middleware(t *testing.T) {
	cl := NewConnectionLimiter(1)
	inner := make(chan struct{})
	release := make(chan struct{})
	h := cl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(inner)
		<-release
	}))

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()
	<-inner

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 while the first connection is open, got %d", w.Code)
	}

	close(release)
	<-done
	if cl.Count("10.0.0.1") != 0 {
		t.Error("expected the slot to be released")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:4242"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Errorf("expected 192.168.1.9, got %s", got)
	}
	req.RemoteAddr = "unix"
	if got := ClientIP(req); got != "unix" {
		t.Errorf("expected unix, got %s", got)
	}
}
