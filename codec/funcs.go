package codec

import "errors"

var errNilFunc = errors.New("codec: nil encode/decode func")

// Funcs adapts a pair of plain functions to Codec, for callers that
// already have serialize/deserialize helpers.
type Funcs[V any] struct {
	EncodeFunc func(V) ([]byte, error)
	DecodeFunc func([]byte) (V, error)
}

func (f Funcs[V]) Encode(v V) ([]byte, error) {
	if f.EncodeFunc == nil {
		return nil, errNilFunc
	}
	return f.EncodeFunc(v)
}

func (f Funcs[V]) Decode(b []byte) (V, error) {
	if f.DecodeFunc == nil {
		var zero V
		return zero, errNilFunc
	}
	return f.DecodeFunc(b)
}
