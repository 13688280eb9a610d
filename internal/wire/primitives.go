// Package wire implements the binary encoding rules shared by every
// dialect in the system: fixed-width big-endian integers, length-prefixed
// strings, and length-prefixed maps and sequences.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxContainerLen bounds the element count accepted for a map or sequence
// length field. Values above this are refused rather than trusted, so a
// corrupt or hostile length prefix can't trigger an unbounded allocation.
const MaxContainerLen = 1 << 20

// MaxStringLen is the largest string that fits the protocol's 1-byte
// length prefix.
const MaxStringLen = 255

var (
	// ErrStringTooLong is returned by WriteString when the argument would
	// not fit in the 1-byte length prefix.
	ErrStringTooLong = errors.New("wire: string exceeds 255 bytes")
	// ErrContainerTooLarge is returned by ReadSlice/ReadMap when the
	// length prefix exceeds MaxContainerLen.
	ErrContainerTooLarge = errors.New("wire: map or sequence length too large")
)

// ReadUint8 reads a single unsigned byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteUint8 writes a single unsigned byte.
func WriteUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUint16 writes a big-endian unsigned 16-bit integer.
func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint32 reads a big-endian unsigned 32-bit integer.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteUint32 writes a big-endian unsigned 32-bit integer.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadInt32 reads a big-endian signed 32-bit integer (two's complement).
func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// WriteInt32 writes a big-endian signed 32-bit integer (two's complement).
func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// ReadString reads a 1-byte-length-prefixed string. The empty string is
// permitted.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadUint8(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

// WriteString writes a 1-byte-length-prefixed string. It fails loudly
// rather than truncate when s exceeds MaxStringLen bytes.
func WriteString(w io.Writer, s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	if err := WriteUint8(w, uint8(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadTag reads the 1-byte discriminant of a tagged union.
func ReadTag(r io.Reader) (byte, error) {
	return ReadUint8(r)
}

// WriteTag writes the 1-byte discriminant of a tagged union.
func WriteTag(w io.Writer, tag byte) error {
	return WriteUint8(w, tag)
}

// ReadSlice reads a 4-byte length N followed by N elements, each decoded
// by elem. It refuses lengths above MaxContainerLen.
func ReadSlice[T any](r io.Reader, elem func(io.Reader) (T, error)) ([]T, error) {
	n, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}
	if n > MaxContainerLen {
		return nil, ErrContainerTooLarge
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteSlice writes a 4-byte length followed by each element encoded by
// elem, in slice order (the protocol does not require sequences to be
// sorted — only maps are).
func WriteSlice[T any](w io.Writer, s []T, elem func(io.Writer, T) error) error {
	if len(s) > MaxContainerLen {
		return ErrContainerTooLarge
	}
	if err := WriteUint32(w, uint32(len(s))); err != nil {
		return err
	}
	for _, v := range s {
		if err := elem(w, v); err != nil {
			return err
		}
	}
	return nil
}

// OrderedEntry is one (key, value) pair of an ordered map.
type OrderedEntry[K any, V any] struct {
	Key   K
	Value V
}

// ReadMap reads a 4-byte length N followed by N (key, value) pairs, each
// decoded by entry. It refuses lengths above MaxContainerLen. Callers
// that require dense id ranges (e.g. player ids) validate that separately;
// the codec itself only decodes in wire order.
func ReadMap[K comparable, V any](r io.Reader, entry func(io.Reader) (K, V, error)) (map[K]V, error) {
	n, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}
	if n > MaxContainerLen {
		return nil, ErrContainerTooLarge
	}
	out := make(map[K]V, n)
	for i := uint32(0); i < n; i++ {
		k, v, err := entry(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// WriteMap writes a 4-byte length followed by each (key, value) pair in
// ascending key order, per keyLess.
func WriteMap[K comparable, V any](w io.Writer, m map[K]V, keyLess func(a, b K) bool, entry func(io.Writer, K, V) error) error {
	if len(m) > MaxContainerLen {
		return ErrContainerTooLarge
	}
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys, keyLess)

	if err := WriteUint32(w, uint32(len(m))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := entry(w, k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// sortKeys is a tiny insertion sort, adequate for the small maps (player
// counts, typically under a few hundred) this protocol ever carries.
func sortKeys[K any](keys []K, less func(a, b K) bool) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && less(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}
