package museum

import (
	"context"

	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/protocol"
	"github.com/wgaamuseum/museum/pkg/view"
)

// socketAddress drives the browser address bar over the live connection.
type socketAddress struct {
	socket *core.Socket
}

func (a socketAddress) Replace(path string) {
	_ = a.socket.Send(protocol.ReplaceAddressMessage(path))
}

func (a socketAddress) Push(path string) {
	_ = a.socket.Send(protocol.PushAddressMessage(path))
}

// socketPreloader forwards preload requests to the browser. Delivery is
// best effort.
type socketPreloader struct {
	socket   *core.Socket
	observer Observer
}

func (p socketPreloader) Preload(_ context.Context, urls []string) {
	if err := p.socket.Send(protocol.PreloadMessage(urls)); err != nil {
		return
	}
	if p.observer != nil {
		p.observer.Preloaded(len(urls))
	}
}

// trackedAddress keeps the page's notion of the current path in step with
// the address updates it sends.
type trackedAddress struct {
	current *string
	bar     view.AddressBar
}

func (a trackedAddress) Replace(path string) {
	*a.current = path
	a.bar.Replace(path)
}

func (a trackedAddress) Push(path string) {
	*a.current = path
	a.bar.Push(path)
}
