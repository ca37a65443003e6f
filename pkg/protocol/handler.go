package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wgaamuseum/museum/pkg/logging"
)

// Common handler errors.
var (
	ErrHandlerNotFound = errors.New("handler not found for event")
	ErrHandlerPanic    = errors.New("handler panicked")
)

// MessageHandler processes one client message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *Message) error
}

// MessageHandlerFunc is an adapter to allow functions as MessageHandler.
type MessageHandlerFunc func(ctx context.Context, msg *Message) error

// HandleMessage implements MessageHandler.
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// MiddlewareFunc wraps message handling.
type MiddlewareFunc func(next MessageHandler) MessageHandler

// Dispatcher routes messages to handlers by event name. A fallback handler,
// when set, receives events with no dedicated handler.
type Dispatcher struct {
	handlers   map[string]MessageHandler
	fallback   MessageHandler
	middleware []MiddlewareFunc
	mu         sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]MessageHandler)}
}

// On registers a handler for an event.
func (d *Dispatcher) On(event string, h MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = h
}

// OnFunc registers a handler function for an event.
func (d *Dispatcher) OnFunc(event string, fn func(ctx context.Context, msg *Message) error) {
	d.On(event, MessageHandlerFunc(fn))
}

// Fallback sets the handler for unregistered events.
func (d *Dispatcher) Fallback(h MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = h
}

// Use appends middleware. The first added runs outermost.
func (d *Dispatcher) Use(mw MiddlewareFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middleware = append(d.middleware, mw)
}

// Dispatch routes msg to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) error {
	d.mu.RLock()
	handler, ok := d.handlers[msg.Event]
	if !ok {
		handler = d.fallback
	}
	middleware := make([]MiddlewareFunc, len(d.middleware))
	copy(middleware, d.middleware)
	d.mu.RUnlock()

	if handler == nil {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, msg.Event)
	}
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler.HandleMessage(ctx, msg)
}

// LoggingMiddleware logs every handled event at debug level and failures
// at warn level.
func LoggingMiddleware(logger logging.Logger) MiddlewareFunc {
	return func(next MessageHandler) MessageHandler {
		return MessageHandlerFunc(func(ctx context.Context, msg *Message) error {
			start := time.Now()
			err := next.HandleMessage(ctx, msg)
			if err != nil {
				logger.Warn("event failed",
					logging.String("event", msg.Event),
					logging.Duration("duration", time.Since(start)),
					logging.Err(err),
				)
				return err
			}
			logger.Debug("event handled",
				logging.String("event", msg.Event),
				logging.Duration("duration", time.Since(start)),
			)
			return nil
		})
	}
}

// RecoveryMiddleware turns a handler panic into ErrHandlerPanic.
func RecoveryMiddleware(onPanic func(any)) MiddlewareFunc {
	return func(next MessageHandler) MessageHandler {
		return MessageHandlerFunc(func(ctx context.Context, msg *Message) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if onPanic != nil {
						onPanic(r)
					}
					err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
				}
			}()
			return next.HandleMessage(ctx, msg)
		})
	}
}
