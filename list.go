// AddressableList is the core random-access primitive the whole file
// format is built from: a persisted ordered sequence of elements, opened
// once by absolute byte offset, with O(1) seek-and-decode access to any
// element without touching its neighbours.
//
// The on-disk shape is a table of contents (an int32 count followed by
// count+1 int64 offsets, the last one past the final element) followed by
// the raw element bytes. The TOC is read once at open time; elements are
// decoded lazily, on every Get call, by a per-type decode function chosen
// by the caller — this is how one list type serves EntrySource, PairEntry,
// TextEntry, HtmlEntry, HtmlBody, IndexEntry, Index and the int32 htmlRefs
// (rows use UniformAddressableList instead), each with their own wire
// shape, without duplicating the offset-table bookkeeping per type.
package dict

import (
	"encoding/binary"
	"fmt"
	"io"
)

// decodeFunc decodes one element from the raw bytes between its offset
// and the next, given the dictionary format version the container was
// opened at (legacy element shapes differ by version).
type decodeFunc[T any] func(data []byte, version int) (T, error)

// AddressableList reads elements of a persisted, offset-addressed list
// from a ReaderAt. It holds the TOC in memory and decodes on demand.
type AddressableList[T any] struct {
	r       io.ReaderAt
	decode  decodeFunc[T]
	version int
	offsets []int64 // len(offsets) == count+1; offsets[count] == endOffset
}

// openAddressableList reads the TOC for a list starting at start and
// returns a list ready for random access. decode is applied lazily by Get.
func openAddressableList[T any](r io.ReaderAt, start int64, version int, decode decodeFunc[T]) (*AddressableList[T], error) {
	var countBuf [4]byte
	if _, err := r.ReadAt(countBuf[:], start); err != nil {
		return nil, fmt.Errorf("%w: list count: %v", ErrCorrupt, err)
	}
	count := int(int32(binary.BigEndian.Uint32(countBuf[:])))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative list count %d", ErrCorrupt, count)
	}

	tocLen := int64(count+1) * 8
	toc := make([]byte, tocLen)
	if _, err := r.ReadAt(toc, start+4); err != nil {
		return nil, fmt.Errorf("%w: list toc: %v", ErrCorrupt, err)
	}

	offsets := make([]int64, count+1)
	for i := range offsets {
		offsets[i] = int64(binary.BigEndian.Uint64(toc[i*8 : i*8+8]))
	}

	return &AddressableList[T]{r: r, decode: decode, version: version, offsets: offsets}, nil
}

// Size returns the number of elements in the list.
func (l *AddressableList[T]) Size() int {
	if l == nil {
		return 0
	}
	return len(l.offsets) - 1
}

// EndOffset returns the absolute byte offset immediately following the
// list's last element — the position at which the next section starts.
func (l *AddressableList[T]) EndOffset() int64 {
	return l.offsets[len(l.offsets)-1]
}

// Get decodes and returns the element at index i. Each call re-reads and
// re-decodes from the backing store; wrap with CachingList to memoize.
func (l *AddressableList[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= l.Size() {
		return zero, fmt.Errorf("%w: list index %d out of range [0,%d)", ErrCorrupt, i, l.Size())
	}
	start, end := l.offsets[i], l.offsets[i+1]
	if end < start {
		return zero, fmt.Errorf("%w: list element %d has negative length", ErrCorrupt, i)
	}
	buf := make([]byte, end-start)
	if _, err := l.r.ReadAt(buf, start); err != nil {
		return zero, fmt.Errorf("%w: list element %d: %v", ErrCorrupt, i, err)
	}
	return l.decode(buf, l.version)
}

// encodeFunc serializes one element to its raw wire bytes.
type encodeFunc[T any] func(v T) ([]byte, error)

// writeAddressableList writes the TOC-plus-elements layout for items to w
// starting at offset start, returning the offset immediately past
// the list (the position the next section should start at).
func writeAddressableList[T any](w io.WriterAt, start int64, items []T, encode encodeFunc[T]) (int64, error) {
	count := len(items)
	tocLen := int64(count+1) * 8
	headerLen := int64(4) + tocLen
	offsets := make([]int64, count+1)

	// Encode every element first so the TOC can be written in a single
	// pass (element sizes aren't known ahead of time; body bytes are
	// buffered and written once their offsets are settled).
	bodies := make([][]byte, count)
	pos := start + headerLen
	for i, item := range items {
		b, err := encode(item)
		if err != nil {
			return 0, fmt.Errorf("dict: encode list element %d: %w", i, err)
		}
		bodies[i] = b
		offsets[i] = pos
		pos += int64(len(b))
	}
	offsets[count] = pos

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(count))
	if _, err := w.WriteAt(countBuf[:], start); err != nil {
		return 0, err
	}

	toc := make([]byte, tocLen)
	for i, off := range offsets {
		binary.BigEndian.PutUint64(toc[i*8:i*8+8], uint64(off))
	}
	if _, err := w.WriteAt(toc, start+4); err != nil {
		return 0, err
	}

	writePos := start + headerLen
	for _, b := range bodies {
		if len(b) == 0 {
			continue
		}
		if _, err := w.WriteAt(b, writePos); err != nil {
			return 0, err
		}
		writePos += int64(len(b))
	}

	return pos, nil
}

// memBuffer is a growable byte slice that implements io.WriterAt, used to
// build a self-contained AddressableList blob in memory — e.g. the
// per-IndexEntry htmlRefs list, which is nested inside another element's
// bytes rather than written directly to the file.
type memBuffer struct {
	buf []byte
}

func (m *memBuffer) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:end], p)
	return len(p), nil
}

// encodeAddressableListBlob serializes items as a standalone, self-contained
// AddressableList (offsets relative to 0) suitable for embedding inside
// another element's byte buffer.
func encodeAddressableListBlob[T any](items []T, encode encodeFunc[T]) ([]byte, error) {
	m := &memBuffer{}
	if _, err := writeAddressableList(m, 0, items, encode); err != nil {
		return nil, err
	}
	return m.buf, nil
}
