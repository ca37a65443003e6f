package protocol

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrUnknownCodec   = errors.New("unknown codec")
)

// Codec encodes messages for the wire.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
	Name() string

	// Binary reports whether frames must be sent as binary.
	Binary() bool
}

// JSONCodec is the default, human-readable codec.
type JSONCodec struct{}

func (JSONCodec) Encode(msg *Message) ([]byte, error) { return json.Marshal(msg) }

func (JSONCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	if msg.Event == "" {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Binary() bool { return false }

// MsgPackCodec is the compact binary codec.
type MsgPackCodec struct{}

func (MsgPackCodec) Encode(msg *Message) ([]byte, error) { return msgpack.Marshal(msg) }

func (MsgPackCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	if msg.Event == "" {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}

func (MsgPackCodec) Name() string { return "msgpack" }

func (MsgPackCodec) Binary() bool { return true }

// CodecByName returns the codec called name. An empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgPackCodec{}, nil
	}
	return nil, ErrUnknownCodec
}
