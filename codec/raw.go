package codec

// String stores Go strings verbatim. With the facade this turns the cache
// into a plain string store: nothing is quoted, nothing is parsed.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }

// Bytes stores raw byte slices. Decode copies so callers may keep the
// result after the provider reuses its buffer.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}
