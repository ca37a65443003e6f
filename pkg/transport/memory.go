package transport

import "github.com/wgaamuseum/museum/pkg/protocol"

// MemoryTransport is an in-process transport. Sent messages are readable
// from Outbox and incoming ones are injected with Inject. It backs session
// tests and server-side rendering without a browser.
type MemoryTransport struct {
	*BaseTransport
}

// NewMemoryTransport creates a connected in-memory transport.
func NewMemoryTransport(config *Config) *MemoryTransport {
	t := &MemoryTransport{BaseTransport: NewBaseTransport(config)}
	t.SetConnected(true)
	return t
}

// Send queues msg on the outbox. Messages queued before Close stay
// readable.
func (t *MemoryTransport) Send(msg *protocol.Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}
	select {
	case t.sendCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	}
}

// Inject delivers msg as if the client had sent it.
func (t *MemoryTransport) Inject(msg *protocol.Message) error {
	return t.PushMessage(msg)
}

// Outbox returns messages sent to the client, in order.
func (t *MemoryTransport) Outbox() <-chan *protocol.Message {
	return t.sendCh
}
