package protocol

import (
	"context"
	"errors"
	"testing"
)

func TestCodecs_RoundTripEvent(t *testing.T) {
	for _, name := range []string{"json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			codec, err := CodecByName(name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			in := NewMessage(EventActivate, map[string]any{"id": 42}).WithRef("7")
			data, err := codec.Encode(in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			out, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			if out.Event != EventActivate || out.Ref != "7" {
				t.Errorf("expected activate/7, got %s/%s", out.Event, out.Ref)
			}
			if id, ok := out.Int("id"); !ok || id != 42 {
				t.Errorf("expected id 42, got %d (%v)", id, ok)
			}
		})
	}
}

func TestCodec_RejectsMissingEvent(t *testing.T) {
	if _, err := (JSONCodec{}).Decode([]byte(`{"payload":{}}`)); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
	if _, err := (JSONCodec{}).Decode([]byte(`not json`)); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
	if _, err := CodecByName("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("expected ErrUnknownCodec, got %v", err)
	}
}

func TestMessage_PayloadAccessors(t *testing.T) {
	msg := &Message{Payload: map[string]any{
		"float":  float64(3),
		"text":   " 12 ",
		"bad":    "x",
		"uint":   uint8(9),
		"string": "hello",
	}}

	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"float", 3, true},
		{"text", 12, true},
		{"bad", 0, false},
		{"uint", 9, true},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := msg.Int(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Int(%q): expected %d/%v, got %d/%v", tt.key, tt.want, tt.ok, got, ok)
		}
	}

	if s := msg.String("string"); s != "hello" {
		t.Errorf("expected hello, got %q", s)
	}
	if s := msg.String("float"); s != "3" {
		t.Errorf("expected 3, got %q", s)
	}
	if s := (&Message{}).String("x"); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
}

func TestDispatcher_RoutesByEvent(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.OnFunc(EventNavigate, func(ctx context.Context, msg *Message) error {
		got = append(got, "navigate:"+msg.String("path"))
		return nil
	})
	d.Fallback(MessageHandlerFunc(func(ctx context.Context, msg *Message) error {
		got = append(got, "fallback:"+msg.Event)
		return nil
	}))

	ctx := context.Background()
	if err := d.Dispatch(ctx, NewMessage(EventNavigate, map[string]any{"path": "/cg/a"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Dispatch(ctx, NewMessage(EventNext, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0] != "navigate:/cg/a" || got[1] != "fallback:next" {
		t.Errorf("unexpected dispatch order: %v", got)
	}
}

func TestDispatcher_NoHandler(t *testing.T) {
	err := NewDispatcher().Dispatch(context.Background(), NewMessage("nope", nil))
	if !errors.Is(err, ErrHandlerNotFound) {
		t.Errorf("expected ErrHandlerNotFound, got %v", err)
	}
}

func TestDispatcher_MiddlewareOrderAndRecovery(t *testing.T) {
	d := NewDispatcher()
	var trace []string
	mark := func(name string) MiddlewareFunc {
		return func(next MessageHandler) MessageHandler {
			return MessageHandlerFunc(func(ctx context.Context, msg *Message) error {
				trace = append(trace, name)
				return next.HandleMessage(ctx, msg)
			})
		}
	}

	var recovered any
	d.Use(RecoveryMiddleware(func(r any) { recovered = r }))
	d.Use(mark("outer"))
	d.Use(mark("inner"))
	d.OnFunc(EventBack, func(context.Context, *Message) error { panic("boom") })

	err := d.Dispatch(context.Background(), NewMessage(EventBack, nil))
	if !errors.Is(err, ErrHandlerPanic) {
		t.Fatalf("expected ErrHandlerPanic, got %v", err)
	}
	if recovered != "boom" {
		t.Errorf("expected recovered value boom, got %v", recovered)
	}
	if len(trace) != 2 || trace[0] != "outer" || trace[1] != "inner" {
		t.Errorf("unexpected middleware order: %v", trace)
	}
}
