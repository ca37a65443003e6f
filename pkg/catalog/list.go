package catalog

import (
	"bytes"
	"encoding/json"
)

// List decodes a JSON array of T. Anything that is not an array decodes to
// an empty list, and elements that do not fit T are dropped.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = List[T]{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make(List[T], 0, len(raw))
	for _, r := range raw {
		if bytes.Equal(r, []byte("null")) {
			continue
		}
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// DecodeList decodes data leniently.
func DecodeList[T any](data []byte) []T {
	var l List[T]
	_ = l.UnmarshalJSON(data)
	return l
}
