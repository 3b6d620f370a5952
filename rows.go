// Row is a tagged variant in place of a class hierarchy: one small
// integer discriminator plus a reference into the corresponding Entry
// Store list. Rows are stored in a
// UniformAddressableList (fixed 5-byte width: 1 tag byte + 4-byte
// big-endian reference) so a row stream can be scanned or random-accessed
// without ever touching the Entry Store it points into.
package dict

import (
	"encoding/binary"
	"fmt"
)

// RowKind discriminates what an Index's row stream entries point at.
type RowKind byte

const (
	// RowPair references an entry in the dictionary's pairs list.
	RowPair RowKind = 0
	// RowTokenMain marks the start of a run of rows for a headword that
	// has its own translation pairs directly (a "main" entry).
	RowTokenMain RowKind = 1
	// RowText references an entry in the dictionary's texts list.
	RowText RowKind = 2
	// RowTokenNonMain marks the start of a run for a headword reached
	// only via cross-reference, with no pairs of its own.
	RowTokenNonMain RowKind = 3
	// RowHTML references an entry in the dictionary's htmlTitles list.
	RowHTML RowKind = 4
)

// IsTokenRow reports whether k marks the start of a token's row run.
// rows[entry.StartRow].Kind must always be one of these.
func (k RowKind) IsTokenRow() bool {
	return k == RowTokenMain || k == RowTokenNonMain
}

func (k RowKind) String() string {
	switch k {
	case RowPair:
		return "PairRow"
	case RowTokenMain:
		return "TokenRow(main)"
	case RowText:
		return "TextRow"
	case RowTokenNonMain:
		return "TokenRow(non-main)"
	case RowHTML:
		return "HtmlRow"
	default:
		return fmt.Sprintf("RowKind(%d)", byte(k))
	}
}

// rowWidth is the fixed wire width of a Row: 1 tag byte + 4-byte reference.
const rowWidth = 5

// Row is one element of an Index's row stream: a kind tag plus the
// position of the referenced Entry in its store.
type Row struct {
	Kind           RowKind
	ReferenceIndex int32
}

func encodeRow(r Row) ([]byte, error) {
	var buf [rowWidth]byte
	buf[0] = byte(r.Kind)
	binary.BigEndian.PutUint32(buf[1:5], uint32(r.ReferenceIndex))
	return buf[:], nil
}

func decodeRow(data []byte, _ int) (Row, error) {
	if len(data) != rowWidth {
		return Row{}, fmt.Errorf("%w: row has width %d, want %d", ErrCorrupt, len(data), rowWidth)
	}
	kind := RowKind(data[0])
	switch kind {
	case RowPair, RowTokenMain, RowText, RowTokenNonMain, RowHTML:
	default:
		return Row{}, fmt.Errorf("%w: unknown row tag %d", ErrCorrupt, data[0])
	}
	ref := int32(binary.BigEndian.Uint32(data[1:5]))
	return Row{Kind: kind, ReferenceIndex: ref}, nil
}

// ResolvedRow is a Row dereferenced through its Dictionary into the
// concrete entry it points at — one of PairEntry, TextEntry, or HtmlEntry.
// TokenRow rows carry no payload of their own (Entry is nil); they only
// mark the start of a run.
type ResolvedRow struct {
	Kind  RowKind
	Entry any
}

// resolve dereferences row through d, decoding the entry it references
// from the appropriate Entry Store list.
func (d *Dictionary) resolve(row Row) (ResolvedRow, error) {
	if err := d.checkOpen(); err != nil {
		return ResolvedRow{}, err
	}
	switch row.Kind {
	case RowTokenMain, RowTokenNonMain:
		return ResolvedRow{Kind: row.Kind}, nil
	case RowPair:
		p, err := d.pairs.Get(int(row.ReferenceIndex))
		if err != nil {
			return ResolvedRow{}, err
		}
		return ResolvedRow{Kind: row.Kind, Entry: p}, nil
	case RowText:
		t, err := d.texts.Get(int(row.ReferenceIndex))
		if err != nil {
			return ResolvedRow{}, err
		}
		return ResolvedRow{Kind: row.Kind, Entry: t}, nil
	case RowHTML:
		h, err := d.htmlTitles.Get(int(row.ReferenceIndex))
		if err != nil {
			return ResolvedRow{}, err
		}
		return ResolvedRow{Kind: row.Kind, Entry: h}, nil
	default:
		return ResolvedRow{}, fmt.Errorf("%w: unknown row tag %d", ErrCorrupt, row.Kind)
	}
}
