// UniformAddressableList is AddressableList specialised for fixed-width
// elements: rather than an offset per element, it stores one count and one
// width, and Get(i) is a direct multiply-and-seek. Used for the row array
// (tag byte + 4-byte reference, width 5) where a per-element TOC would be
// pure overhead.
package dict

import (
	"encoding/binary"
	"fmt"
	"io"
)

// UniformAddressableList reads fixed-width elements from a ReaderAt.
type UniformAddressableList[T any] struct {
	r       io.ReaderAt
	decode  decodeFunc[T]
	version int
	count   int
	width   int
	start   int64 // offset of the first element, past the header
}

// openUniformAddressableList reads the [count][width] header starting at
// start and returns a list ready for direct-offset access.
func openUniformAddressableList[T any](r io.ReaderAt, start int64, version int, decode decodeFunc[T]) (*UniformAddressableList[T], error) {
	var hdr [8]byte
	if _, err := r.ReadAt(hdr[:], start); err != nil {
		return nil, fmt.Errorf("%w: uniform list header: %v", ErrCorrupt, err)
	}
	count := int(int32(binary.BigEndian.Uint32(hdr[0:4])))
	width := int(int32(binary.BigEndian.Uint32(hdr[4:8])))
	if count < 0 || width < 0 {
		return nil, fmt.Errorf("%w: negative uniform list count/width", ErrCorrupt)
	}
	return &UniformAddressableList[T]{
		r: r, decode: decode, version: version,
		count: count, width: width, start: start + 8,
	}, nil
}

// Size returns the number of elements.
func (l *UniformAddressableList[T]) Size() int {
	if l == nil {
		return 0
	}
	return l.count
}

// EndOffset returns the byte offset immediately past the last element.
func (l *UniformAddressableList[T]) EndOffset() int64 {
	return l.start + int64(l.count)*int64(l.width)
}

// Get decodes and returns the element at index i.
func (l *UniformAddressableList[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= l.count {
		return zero, fmt.Errorf("%w: uniform list index %d out of range [0,%d)", ErrCorrupt, i, l.count)
	}
	buf := make([]byte, l.width)
	if _, err := l.r.ReadAt(buf, l.start+int64(i)*int64(l.width)); err != nil {
		return zero, fmt.Errorf("%w: uniform list element %d: %v", ErrCorrupt, i, err)
	}
	return l.decode(buf, l.version)
}

// writeUniformAddressableList writes the [count][width] header followed by
// width-byte elements for every item, failing if any encoded element
// doesn't match width exactly — a width mismatch would silently misalign
// every element after it.
func writeUniformAddressableList[T any](w io.WriterAt, start int64, width int, items []T, encode encodeFunc[T]) (int64, error) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(items)))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(width))
	if _, err := w.WriteAt(hdr[:], start); err != nil {
		return 0, err
	}

	pos := start + 8
	for i, item := range items {
		b, err := encode(item)
		if err != nil {
			return 0, fmt.Errorf("dict: encode uniform list element %d: %w", i, err)
		}
		if len(b) != width {
			return 0, fmt.Errorf("dict: uniform list element %d has width %d, want %d", i, len(b), width)
		}
		if _, err := w.WriteAt(b, pos); err != nil {
			return 0, err
		}
		pos += int64(width)
	}
	return pos, nil
}
