// Package protocol defines the messages exchanged between the browser shell
// and a live session, and their wire codecs.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Client to server events.
const (
	EventNavigate    = "navigate"
	EventActivate    = "activate"
	EventPage        = "page"
	EventPageJump    = "page_jump"
	EventPrev        = "prev"
	EventNext        = "next"
	EventBack        = "back"
	EventKey         = "key"
	EventImageLoaded = "image_loaded"
	EventOpenModal   = "open_modal"
	EventCloseModal  = "close_modal"
	EventFilter      = "filter"
	EventRegion      = "region"
	EventSearch      = "search"
	EventHeartbeat   = "heartbeat"
)

// Server to client events.
const (
	EventRender         = "render"
	EventReplaceAddress = "replace_address"
	EventPushAddress    = "push_address"
	EventPreload        = "preload"
	EventError          = "error"
	EventReply          = "reply"
)

// Message is one frame on the live connection.
type Message struct {
	// Ref correlates a reply with the client event that caused it.
	Ref string `json:"ref,omitempty" msgpack:"ref,omitempty"`

	Event   string         `json:"event" msgpack:"event"`
	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`

	// Timestamp in Unix milliseconds.
	Timestamp int64 `json:"ts,omitempty" msgpack:"ts,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(event string, payload map[string]any) *Message {
	return &Message{Event: event, Payload: payload, Timestamp: time.Now().UnixMilli()}
}

// WithRef sets the correlation id.
func (m *Message) WithRef(ref string) *Message {
	m.Ref = ref
	return m
}

// String returns a payload value as a string. Numbers are formatted.
func (m *Message) String(key string) string {
	if m.Payload == nil {
		return ""
	}
	switch v := m.Payload[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns a payload value as an int. JSON numbers, every integer type
// MessagePack may produce and numeric strings are accepted.
func (m *Message) Int(key string) (int, bool) {
	if m.Payload == nil {
		return 0, false
	}
	switch v := m.Payload[key].(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// RenderMessage carries the re-rendered panel.
func RenderMessage(html string) *Message {
	return NewMessage(EventRender, map[string]any{"html": html})
}

// ReplaceAddressMessage asks the client to rewrite the address without a
// navigation.
func ReplaceAddressMessage(path string) *Message {
	return NewMessage(EventReplaceAddress, map[string]any{"path": path})
}

// PushAddressMessage asks the client to navigate to path.
func PushAddressMessage(path string) *Message {
	return NewMessage(EventPushAddress, map[string]any{"path": path})
}

// PreloadMessage lists images the client should fetch ahead of time.
func PreloadMessage(urls []string) *Message {
	list := make([]any, len(urls))
	for i, u := range urls {
		list[i] = u
	}
	return NewMessage(EventPreload, map[string]any{"urls": list})
}

// ErrorMessage reports a failure the user should see.
func ErrorMessage(reason string) *Message {
	return NewMessage(EventError, map[string]any{"reason": reason})
}

// Reply acknowledges the client event with ref.
func Reply(ref, status string) *Message {
	return NewMessage(EventReply, map[string]any{"status": status}).WithRef(ref)
}
