package museum

import (
	"context"
	"fmt"

	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/logging"
	"github.com/wgaamuseum/museum/pkg/protocol"
	"github.com/wgaamuseum/museum/pkg/view"
)

// HandleEvent applies one client event. Events that do not apply to the
// current screen are ignored.
func (p *Page) HandleEvent(ctx context.Context, msg *protocol.Message) error {
	switch msg.Event {
	case protocol.EventNavigate:
		p.navigate(ctx, msg.String("path"))

	case protocol.EventActivate:
		if s, ok := p.screen.(activator); ok {
			if id, ok := msg.Int("id"); ok {
				s.activate(ctx, id)
			}
		}

	case protocol.EventPage:
		if s, ok := p.screen.(pager); ok {
			s.turn(ctx, msg.String("action"))
		}

	case protocol.EventPageJump:
		if s, ok := p.screen.(pager); ok {
			s.jump(ctx, msg.String("value"))
		}

	case protocol.EventPrev:
		if s, ok := p.screen.(traverser); ok {
			s.goPrev(ctx)
		}

	case protocol.EventNext:
		if s, ok := p.screen.(traverser); ok {
			s.goNext(ctx)
		}

	case protocol.EventBack:
		if s, ok := p.screen.(traverser); ok {
			s.back(ctx)
		}

	case protocol.EventKey:
		p.key(ctx, view.Key(msg.String("key")))

	case protocol.EventImageLoaded:
		if s, ok := p.screen.(traverser); ok {
			if id, ok := msg.Int("id"); ok {
				s.imageLoaded(id)
			}
		}

	case protocol.EventOpenModal:
		if s, ok := p.screen.(traverser); ok {
			index, ok := msg.Int("index")
			if !ok {
				index = -1
			}
			s.openModal(index)
		}

	case protocol.EventCloseModal:
		if s, ok := p.screen.(traverser); ok {
			s.closeModal()
		}

	case protocol.EventFilter:
		return p.filter(msg.String("field"), msg.String("value"))

	case protocol.EventRegion:
		return p.switchRegion(ctx, msg.String("value"))

	case protocol.EventSearch:
		p.search = msg.String("value")

	case protocol.EventHeartbeat:

	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, msg.Event)
	}
	return nil
}

// key handles a key press on a single-item screen. Escape closes the image
// overlay first and leaves the item on the next press.
func (p *Page) key(ctx context.Context, k view.Key) {
	s, ok := p.screen.(traverser)
	if !ok {
		return
	}
	if k != view.KeyEscape {
		s.key(ctx, k)
		return
	}
	if s.modalOpen() {
		s.closeModal()
		return
	}
	s.back(ctx)
}

// filter updates a gallery filter and shows the first page of the result
// when that gallery is on screen.
func (p *Page) filter(field, value string) error {
	switch field {
	case "description", "name":
		if field == "description" {
			p.memoryDesc = value
		} else {
			p.memorySearch = value
		}
		if _, ok := p.screen.(*gridScreen[catalog.EquipSuit]); ok {
			p.screen = p.memoryGrid(1)
			p.address.Replace(RouteMemory)
		}

	case "character":
		p.character = value
		if _, ok := p.screen.(*gridScreen[catalog.Fashion]); ok {
			p.screen = p.constructGrid(1)
			p.address.Replace(coatingPath("construct", 1))
		}

	default:
		return fmt.Errorf("%w: %s", ErrUnknownFilter, field)
	}
	return nil
}

// switchRegion loads another region and shows the current path again from
// its records. Filters are reset since their options differ per region.
func (p *Page) switchRegion(ctx context.Context, region string) error {
	if !catalog.ValidRegion(region) {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	p.logger.Info("switching region", logging.String("from", p.region), logging.String("to", region))
	p.memoryDesc, p.memorySearch, p.character = "", "", ""
	p.loadRegion(ctx, region)

	p.screen = blankScreen{}
	p.router.Dispatch(ctx, p.path)
	return nil
}
