// Wire shapes and codecs for the four Entry Store lists: EntrySource,
// PairEntry, TextEntry and HtmlEntry (plus the HtmlEntry's companion
// HtmlBody list, introduced at version 7). Every encode/decode pair here
// follows the same discipline: fixed field order, big-endian integers,
// length-prefixed strings, against this format's binary wire shape
// instead of JSON.
package dict

import (
	"encoding/binary"
	"fmt"
)

// EntrySource names one contributing source corpus. Its ordinal is its
// position within the sources list, not a stored field — every entry
// referencing a source stores that ordinal instead of a name.
type EntrySource struct {
	Name          string
	NumEntries    int32
	StableOrdinal int
}

func encodeEntrySource(s EntrySource) ([]byte, error) {
	buf := writeMUTF8(nil, s.Name)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(s.NumEntries))
	return append(buf, n[:]...), nil
}

func decodeEntrySource(data []byte, _ int) (EntrySource, error) {
	name, offset, err := readMUTF8(data, 0)
	if err != nil {
		return EntrySource{}, err
	}
	if offset+4 > len(data) {
		return EntrySource{}, fmt.Errorf("%w: truncated entry source", ErrCorrupt)
	}
	num := int32(binary.BigEndian.Uint32(data[offset : offset+4]))
	return EntrySource{Name: name, NumEntries: num}, nil
}

// LangPair is one translation pair within a PairEntry. Which side is the
// "headword" and which is the "translation" is fixed by the containing
// Index's SwapPairEntries flag, not by the pair itself.
type LangPair struct {
	A, B string
}

// PairEntry holds one or more translation pairs attributed to a source.
type PairEntry struct {
	Source int16
	Pairs  []LangPair
}

func encodePairEntry(p PairEntry) ([]byte, error) {
	if len(p.Pairs) == 0 {
		return nil, fmt.Errorf("dict: pair entry has no pairs")
	}
	buf := make([]byte, 2, 6)
	binary.BigEndian.PutUint16(buf[0:2], uint16(p.Source))
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(p.Pairs)))
	buf = append(buf, n[:]...)
	for _, pair := range p.Pairs {
		buf = writeMUTF8(buf, pair.A)
		buf = writeMUTF8(buf, pair.B)
	}
	return buf, nil
}

func decodePairEntry(data []byte, _ int) (PairEntry, error) {
	if len(data) < 6 {
		return PairEntry{}, fmt.Errorf("%w: truncated pair entry", ErrCorrupt)
	}
	source := int16(binary.BigEndian.Uint16(data[0:2]))
	numPairs := int(binary.BigEndian.Uint32(data[2:6]))
	offset := 6
	pairs := make([]LangPair, numPairs)
	for i := range pairs {
		a, next, err := readMUTF8(data, offset)
		if err != nil {
			return PairEntry{}, err
		}
		offset = next
		b, next, err := readMUTF8(data, offset)
		if err != nil {
			return PairEntry{}, err
		}
		offset = next
		pairs[i] = LangPair{A: a, B: b}
	}
	if numPairs == 0 {
		return PairEntry{}, fmt.Errorf("%w: pair entry has no pairs", ErrCorrupt)
	}
	return PairEntry{Source: source, Pairs: pairs}, nil
}

// TextEntry is a plain-text payload row (e.g. a usage note or definition
// with no markup) attributed to a source.
type TextEntry struct {
	Source int16
	Text   string
}

func encodeTextEntry(t TextEntry) ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(t.Source))
	return writeMUTF8(buf, t.Text), nil
}

func decodeTextEntry(data []byte, _ int) (TextEntry, error) {
	if len(data) < 2 {
		return TextEntry{}, fmt.Errorf("%w: truncated text entry", ErrCorrupt)
	}
	source := int16(binary.BigEndian.Uint16(data[0:2]))
	text, _, err := readMUTF8(data, 2)
	if err != nil {
		return TextEntry{}, err
	}
	return TextEntry{Source: source, Text: text}, nil
}

// HtmlEntry is an HTML title with a reference to its (separately stored,
// gzip-compressed) body. BodyRef indexes the dictionary's htmlBodies list
// at version 7+; for version 5-6 files, the body travels inline as
// InlineBody instead (there is no htmlBodies list to reference in those
// versions — see DESIGN.md's v7 htmlData/htmlEntries resolution).
type HtmlEntry struct {
	Source     int16
	Title      string
	BodyRef    int32
	InlineBody []byte // only populated when decoded from a version < 7 file
}

func encodeHtmlEntry(h HtmlEntry) ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(h.Source))
	buf = writeMUTF8(buf, h.Title)
	var ref [4]byte
	binary.BigEndian.PutUint32(ref[:], uint32(h.BodyRef))
	return append(buf, ref[:]...), nil
}

func decodeHtmlEntry(data []byte, version int) (HtmlEntry, error) {
	if len(data) < 2 {
		return HtmlEntry{}, fmt.Errorf("%w: truncated html entry", ErrCorrupt)
	}
	source := int16(binary.BigEndian.Uint16(data[0:2]))
	title, offset, err := readMUTF8(data, 2)
	if err != nil {
		return HtmlEntry{}, err
	}

	if version >= 7 {
		if offset+4 > len(data) {
			return HtmlEntry{}, fmt.Errorf("%w: truncated html entry body ref", ErrCorrupt)
		}
		ref := int32(binary.BigEndian.Uint32(data[offset : offset+4]))
		return HtmlEntry{Source: source, Title: title, BodyRef: ref}, nil
	}

	// Versions 5-6: body is inlined as [uncompressedLen int32][compressedLen int32][bytes].
	if offset+8 > len(data) {
		return HtmlEntry{}, fmt.Errorf("%w: truncated legacy html body", ErrCorrupt)
	}
	compressedLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
	bodyStart := offset + 8
	if bodyStart+compressedLen > len(data) {
		return HtmlEntry{}, fmt.Errorf("%w: truncated legacy html body bytes", ErrCorrupt)
	}
	body := make([]byte, compressedLen+8)
	copy(body, data[offset:offset+8])
	copy(body[8:], data[bodyStart:bodyStart+compressedLen])
	return HtmlEntry{Source: source, Title: title, BodyRef: -1, InlineBody: body}, nil
}

// HtmlBody is the gzip-compressed body of one HTML entry, stored
// separately from its title so the (usually much larger) body can be
// decoded lazily even when only titles are needed.
type HtmlBody struct {
	UncompressedLen int32
	Compressed      []byte
}

func encodeHtmlBody(b HtmlBody) ([]byte, error) {
	buf := make([]byte, 8, 8+len(b.Compressed))
	binary.BigEndian.PutUint32(buf[0:4], uint32(b.UncompressedLen))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(b.Compressed)))
	return append(buf, b.Compressed...), nil
}

func decodeHtmlBody(data []byte, _ int) (HtmlBody, error) {
	if len(data) < 8 {
		return HtmlBody{}, fmt.Errorf("%w: truncated html body", ErrCorrupt)
	}
	uncompressedLen := int32(binary.BigEndian.Uint32(data[0:4]))
	compressedLen := int(binary.BigEndian.Uint32(data[4:8]))
	if 8+compressedLen > len(data) {
		return HtmlBody{}, fmt.Errorf("%w: truncated html body bytes", ErrCorrupt)
	}
	compressed := make([]byte, compressedLen)
	copy(compressed, data[8:8+compressedLen])
	return HtmlBody{UncompressedLen: uncompressedLen, Compressed: compressed}, nil
}
