package codec

import "fmt"

// LimitCodec guards another codec with payload size limits.
// A limit <= 0 disables that direction.
//
// MaxDecode protects readers from oversized entries written by someone else
// into a shared store; MaxEncode keeps a single caller from filling it.
type LimitCodec[V any] struct {
	Inner     Codec[V]
	MaxEncode int
	MaxDecode int
}

// ErrTooLarge reports a payload over the configured limit.
type ErrTooLarge struct {
	Op    string // "encode" or "decode"
	Size  int
	Limit int
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("codec: %s payload too large: %d > %d", e.Op, e.Size, e.Limit)
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, &ErrTooLarge{Op: "encode", Size: len(b), Limit: c.MaxEncode}
	}
	return b, nil
}

func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, &ErrTooLarge{Op: "decode", Size: len(b), Limit: c.MaxDecode}
	}
	return c.Inner.Decode(b)
}
