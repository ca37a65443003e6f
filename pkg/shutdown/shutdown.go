// Package shutdown runs ordered cleanup hooks when the server stops.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/wgaamuseum/museum/pkg/logging"
)

var (
	ErrShutdownTimeout = errors.New("shutdown timed out")
	ErrAlreadyClosed   = errors.New("shutdown handler already closed")
)

// Hook priorities. Lower runs earlier.
const (
	PriorityHTTP     = 100
	PrioritySessions = 200
	PriorityLast     = 1000
)

// Hook is one cleanup step.
type Hook struct {
	Name     string
	Priority int
	Fn       func(ctx context.Context) error
}

// Handler collects hooks and runs them once.
type Handler struct {
	timeout time.Duration
	signals []os.Signal
	logger  logging.Logger

	mu     sync.Mutex
	hooks  []Hook
	done   chan struct{}
	closed bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithTimeout bounds the total time spent in hooks.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// WithSignals replaces the signals Wait listens for.
func WithSignals(sig ...os.Signal) Option {
	return func(h *Handler) { h.signals = sig }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a handler listening for SIGINT and SIGTERM with a
// 30 second budget.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		timeout: 30 * time.Second,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		logger:  logging.NopLogger{},
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a hook.
func (h *Handler) Register(name string, priority int, fn func(ctx context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Priority: priority, Fn: fn})
}

// Wait blocks until a signal arrives or ctx ends, then runs the hooks.
// It returns nil without running them if Shutdown was already called.
func (h *Handler) Wait(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, h.signals...)
	defer stop()

	select {
	case <-ctx.Done():
	case <-h.done:
		return nil
	}
	h.logger.Info("shutting down")
	return h.Shutdown()
}

// Shutdown runs every hook in priority order. Hook errors are joined; a
// blown budget stops the remaining hooks.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrAlreadyClosed
	}
	h.closed = true
	close(h.done)
	hooks := slices.Clone(h.hooks)
	h.mu.Unlock()

	slices.SortStableFunc(hooks, func(a, b Hook) int { return a.Priority - b.Priority })

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var errs []error
	for _, hook := range hooks {
		start := time.Now()
		err := hook.Fn(ctx)
		fields := []logging.Field{logging.String("hook", hook.Name), logging.Duration("took", time.Since(start))}
		if err != nil {
			h.logger.Warn("shutdown hook failed", append(fields, logging.Err(err))...)
			errs = append(errs, err)
		} else {
			h.logger.Debug("shutdown hook done", fields...)
		}
		if ctx.Err() != nil {
			return errors.Join(append(errs, ErrShutdownTimeout)...)
		}
	}
	return errors.Join(errs...)
}

// Done is closed when shutdown starts.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
