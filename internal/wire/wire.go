// Package wire frames values for byte stores that lack per-entry TTLs.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	// KindString marks a payload written from a Go string.
	KindString byte = 1
	// KindBytes marks a payload written from a []byte.
	KindBytes byte = 2

	hdrLen = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("cachebox: corrupt entry")
	magic4     = [...]byte{'C', 'B', 'O', 'X'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry is a decoded frame. ExpiresAt is unix nanoseconds; 0 => never.
type Entry struct {
	Kind      byte
	ExpiresAt int64
	Payload   []byte
}

// Expired reports whether the entry is past its deadline at now (unix nanos).
func (e Entry) Expired(now int64) bool {
	return e.ExpiresAt != 0 && now >= e.ExpiresAt
}

// Encode: magic(4) | ver(1) | kind(1) | expiresAt(i64 be) | vlen(u32 be) | payload(vlen)
func Encode(kind byte, expiresAt int64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(expiresAt))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode parses a frame. The payload aliases b.
func Decode(b []byte) (Entry, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return Entry{}, ErrCorrupt
	}
	kind := b[5]
	if kind != KindString && kind != KindBytes {
		return Entry{}, ErrCorrupt
	}

	off := 6
	exp := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// strict: payload must end exactly at the end of b
	if vlen < 0 || vlen != len(b)-off {
		return Entry{}, ErrCorrupt
	}

	return Entry{Kind: kind, ExpiresAt: exp, Payload: b[off : off+vlen]}, nil
}
