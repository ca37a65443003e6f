// Package live hosts components over websocket connections. Every
// connection gets one session whose loop applies client events strictly in
// arrival order and sends the re-rendered component after each one.
package live

import (
	"context"
	"errors"
	"time"

	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/pool"
	"github.com/wgaamuseum/museum/pkg/protocol"
	"github.com/wgaamuseum/museum/pkg/transport"
)

// ErrNilRenderer is returned when a component renders nothing.
var ErrNilRenderer = errors.New("component returned nil renderer")

// Observer receives session lifecycle and event outcomes. Used for metrics.
type Observer interface {
	SessionStarted()
	SessionEnded(reason core.TerminateReason)
	EventHandled(event string, took time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) SessionStarted()                            {}
func (nopObserver) SessionEnded(core.TerminateReason)          {}
func (nopObserver) EventHandled(string, time.Duration, error) {}

// Session runs one component for one connection.
type Session struct {
	socket     *core.Socket
	transport  transport.Transport
	component  core.Component
	params     core.Params
	dispatcher *protocol.Dispatcher
	logger     logging.Logger
	observer   Observer
}

// NewSession creates a session. The component receives every client event
// through HandleEvent.
func NewSession(socket *core.Socket, tr transport.Transport, comp core.Component, params core.Params, logger logging.Logger, observer Observer) *Session {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	logger = logger.With(
		logging.String("session", socket.ID()),
		logging.String("component", comp.Name()),
	)

	s := &Session{
		socket:     socket,
		transport:  tr,
		component:  comp,
		params:     params,
		dispatcher: protocol.NewDispatcher(),
		logger:     logger,
		observer:   observer,
	}
	s.dispatcher.Use(protocol.RecoveryMiddleware(func(r any) {
		logger.Error("event handler panicked", logging.Any("panic", r))
	}))
	s.dispatcher.Use(protocol.LoggingMiddleware(logger))
	s.dispatcher.Fallback(protocol.MessageHandlerFunc(comp.HandleEvent))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.socket.ID()
}

// Run mounts the component, sends the first render and then processes
// events until the transport closes or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ctx = core.BuildContext(ctx, s.socket, s.params)
	ctx = logging.ContextWithLogger(ctx, s.logger)

	s.observer.SessionStarted()
	s.logger.Debug("session started")

	if err := s.component.Mount(ctx, s.params); err != nil {
		s.logger.Warn("mount failed", logging.Err(err))
		_ = s.socket.Send(protocol.ErrorMessage(err.Error()))

		// Keep the connection until the client leaves so the error is
		// delivered and shown.
		select {
		case <-s.transport.Done():
		case <-ctx.Done():
			s.socket.Close()
		}
		s.terminate(context.WithoutCancel(ctx), core.TerminateError)
		return err
	}
	s.render(ctx)

	for {
		select {
		case msg := <-s.transport.Receive():
			s.handle(ctx, msg)

		case <-s.transport.Done():
			s.terminate(ctx, s.socket.CloseReason())
			return nil

		case <-ctx.Done():
			s.terminate(context.WithoutCancel(ctx), core.TerminateShutdown)
			s.socket.Close()
			return ctx.Err()
		}
	}
}

func (s *Session) handle(ctx context.Context, msg *protocol.Message) {
	s.socket.UpdateActivity()

	start := time.Now()
	err := s.dispatcher.Dispatch(ctx, msg)
	s.observer.EventHandled(msg.Event, time.Since(start), err)

	if err != nil {
		_ = s.socket.Send(protocol.ErrorMessage(err.Error()).WithRef(msg.Ref))
		return
	}
	s.render(ctx)
}

// render sends the current component HTML.
func (s *Session) render(ctx context.Context) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	r := s.component.Render(ctx)
	if r == nil {
		s.logger.Error("render failed", logging.Err(ErrNilRenderer))
		return
	}
	if err := r.Render(ctx, buf); err != nil {
		s.logger.Error("render failed", logging.Err(err))
		_ = s.socket.Send(protocol.ErrorMessage(err.Error()))
		return
	}
	if err := s.socket.Send(protocol.RenderMessage(buf.String())); err != nil {
		s.logger.Debug("render not delivered", logging.Err(err))
	}
}

func (s *Session) terminate(ctx context.Context, reason core.TerminateReason) {
	if err := s.component.Terminate(ctx, reason); err != nil {
		s.logger.Warn("terminate failed", logging.Err(err))
	}
	s.observer.SessionEnded(reason)
	s.logger.Debug("session ended", logging.String("reason", reason.String()))
}
