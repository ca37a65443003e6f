// Package core provides the abstractions shared by server-driven views:
// the component lifecycle, rendering and the client socket.
package core

import (
	"context"
	"io"

	"github.com/wgaamuseum/museum/pkg/protocol"
)

// Component is a stateful server-side view bound to one connection.
// All methods of one component are called from a single goroutine, so a
// component needs no locking of its own.
type Component interface {
	// Name returns the component type name, used in logs.
	Name() string

	// Mount is called once when the connection is established.
	Mount(ctx context.Context, params Params) error

	// Render returns the current HTML of the component. It is called after
	// Mount and after every handled event.
	Render(ctx context.Context) Renderer

	// HandleEvent applies one client event.
	HandleEvent(ctx context.Context, msg *protocol.Message) error

	// Terminate is called when the connection goes away.
	Terminate(ctx context.Context, reason TerminateReason) error
}

// Renderer writes HTML.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc is an adapter to allow ordinary functions to be used as Renderers.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Params contains the query parameters of the connection.
type Params map[string]string

// Get returns a parameter value or empty string if not found.
func (p Params) Get(key string) string {
	return p[key]
}

// GetDefault returns a parameter value or the default if not found or empty.
func (p Params) GetDefault(key, defaultValue string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

// TerminateReason indicates why a component is being terminated.
type TerminateReason int

const (
	// TerminateNormal indicates clean disconnection.
	TerminateNormal TerminateReason = iota
	// TerminateShutdown indicates server shutdown.
	TerminateShutdown
	// TerminateError indicates termination due to an error.
	TerminateError
	// TerminateTimeout indicates termination due to inactivity.
	TerminateTimeout
)

func (r TerminateReason) String() string {
	switch r {
	case TerminateNormal:
		return "normal"
	case TerminateShutdown:
		return "shutdown"
	case TerminateError:
		return "error"
	case TerminateTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// BaseComponent provides no-op lifecycle methods. Embed it to implement
// only what a component needs.
type BaseComponent struct{}

// Mount does nothing by default.
func (BaseComponent) Mount(context.Context, Params) error { return nil }

// HandleEvent does nothing by default.
func (BaseComponent) HandleEvent(context.Context, *protocol.Message) error { return nil }

// Terminate does nothing by default.
func (BaseComponent) Terminate(context.Context, TerminateReason) error { return nil }
