package cache

import "encoding/json"

// Codec converts values to and from the UTF-8 text stored in redis. Encode
// may return an empty payload to signal that the value should not be written.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// StringCodec stores strings as raw UTF-8 text. Empty strings encode to an
// empty payload, which Cache.Set treats as a no-op.
type StringCodec struct{}

func (StringCodec) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (StringCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}

// JSONCodec stores values as their JSON encoding.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
