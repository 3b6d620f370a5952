// writer.go serializes an in-memory DictionaryData into the on-disk
// layout dictionary.go reads back: Write for the current version (7), and
// WriteV6 for the legacy writer, which can additionally elide HTML rows
// entirely and renumber every affected index's row array. The renumbering
// builds a dense remap table and rewrites every reference through it in
// one pass.
package dict

import (
	"encoding/binary"
	"fmt"
	"io"
)

// IndexData is the in-memory form of one Index, as supplied to Write/WriteV6.
type IndexData struct {
	ShortName       string
	LongName        string
	SortLanguageTag string
	NormalizerRules string
	SwapPairEntries bool
	MainTokenCount  int32
	Stoplist        map[string]struct{}
	Entries         []*IndexEntry
	Rows            []Row
}

// DictionaryData is the in-memory form of a whole dictionary file, as
// supplied to Write/WriteV6.
type DictionaryData struct {
	Info           string
	CreationMillis int64
	Sources        []EntrySource
	Pairs          []PairEntry
	Texts          []TextEntry
	HtmlTitles     []HtmlEntry
	HtmlBodies     []HtmlBody
	Indices        []IndexData
}

func encodeIndexData(d IndexData) ([]byte, error) {
	idx := &Index{
		ShortName:       d.ShortName,
		LongName:        d.LongName,
		SortLanguageTag: d.SortLanguageTag,
		NormalizerRules: d.NormalizerRules,
		SwapPairEntries: d.SwapPairEntries,
		MainTokenCount:  d.MainTokenCount,
		Stoplist:        d.Stoplist,
	}
	return encodeIndex(idx, d.Entries, d.Rows)
}

// WriteVersion serializes data to sink at the requested version: version 7
// always writes the full format and rejects skipHTML (there is nothing to
// skip, HTML already has its own dedicated body list at this version);
// version 6 dispatches to WriteV6 with skipHTML honored.
func WriteVersion(sink io.WriterAt, data DictionaryData, version int, skipHTML bool) (int64, error) {
	switch version {
	case CurrentVersion:
		if skipHTML {
			return 0, ErrSkipHTMLv7
		}
		return Write(sink, data)
	case 6:
		return WriteV6(sink, data, skipHTML)
	default:
		return 0, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
}

// Write serializes data as a version-7 dictionary file to sink.
func Write(sink io.WriterAt, data DictionaryData) (int64, error) {
	header := fileHeader{Version: CurrentVersion, CreationMillis: data.CreationMillis, Info: data.Info}
	buf := header.encode()
	if _, err := sink.WriteAt(buf, 0); err != nil {
		return 0, err
	}
	pos := int64(len(buf))

	pos, err := writeAddressableList(sink, pos, data.Sources, encodeEntrySource)
	if err != nil {
		return 0, fmt.Errorf("dict: write sources: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.Pairs, encodePairEntry)
	if err != nil {
		return 0, fmt.Errorf("dict: write pairs: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.Texts, encodeTextEntry)
	if err != nil {
		return 0, fmt.Errorf("dict: write texts: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.HtmlTitles, encodeHtmlEntry)
	if err != nil {
		return 0, fmt.Errorf("dict: write html titles: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.HtmlBodies, encodeHtmlBody)
	if err != nil {
		return 0, fmt.Errorf("dict: write html bodies: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.Indices, encodeIndexData)
	if err != nil {
		return 0, fmt.Errorf("dict: write indices: %w", err)
	}

	sentinel := writeMUTF8(nil, Sentinel)
	if _, err := sink.WriteAt(sentinel, pos); err != nil {
		return 0, err
	}
	return pos + int64(len(sentinel)), nil
}

// WriteV6 serializes data as a version-6 dictionary file: HTML bodies
// travel inline on each HtmlEntry (there is no separate htmlBodies
// section at this version) rather than by reference. When skipHTML is
// true, HTML rows are elided entirely and every index's row array and
// IndexEntry spans are rewritten to match.
func WriteV6(sink io.WriterAt, data DictionaryData, skipHTML bool) (int64, error) {
	header := fileHeader{Version: 6, CreationMillis: data.CreationMillis, Info: data.Info}
	buf := header.encode()
	if _, err := sink.WriteAt(buf, 0); err != nil {
		return 0, err
	}
	pos := int64(len(buf))

	pos, err := writeAddressableList(sink, pos, data.Sources, encodeEntrySource)
	if err != nil {
		return 0, fmt.Errorf("dict: write sources: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.Pairs, encodePairEntry)
	if err != nil {
		return 0, fmt.Errorf("dict: write pairs: %w", err)
	}
	pos, err = writeAddressableList(sink, pos, data.Texts, encodeTextEntry)
	if err != nil {
		return 0, fmt.Errorf("dict: write texts: %w", err)
	}

	htmlTitles := data.HtmlTitles
	indices := data.Indices
	if skipHTML {
		htmlTitles = nil
		indices = make([]IndexData, len(data.Indices))
		for i, d := range data.Indices {
			entries, rows := pruneHTMLRows(d.Entries, d.Rows)
			d.Entries, d.Rows = entries, rows
			indices[i] = d
		}
	}

	legacyEncode := func(h HtmlEntry) ([]byte, error) {
		return encodeHtmlEntryLegacy(h, data.HtmlBodies)
	}
	pos, err = writeAddressableList(sink, pos, htmlTitles, legacyEncode)
	if err != nil {
		return 0, fmt.Errorf("dict: write html titles: %w", err)
	}

	pos, err = writeAddressableList(sink, pos, indices, encodeIndexData)
	if err != nil {
		return 0, fmt.Errorf("dict: write indices: %w", err)
	}

	sentinel := writeMUTF8(nil, Sentinel)
	if _, err := sink.WriteAt(sentinel, pos); err != nil {
		return 0, err
	}
	return pos + int64(len(sentinel)), nil
}

// encodeHtmlEntryLegacy encodes h in the pre-v7 inline-body shape, looking
// up its body by BodyRef in bodies (the version-7-shaped body list the
// caller still supplies in memory, even though it isn't written out as a
// separate section at this version).
func encodeHtmlEntryLegacy(h HtmlEntry, bodies []HtmlBody) ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(h.Source))
	buf = writeMUTF8(buf, h.Title)

	var body HtmlBody
	if h.BodyRef >= 0 && int(h.BodyRef) < len(bodies) {
		body = bodies[h.BodyRef]
	}
	var lens [8]byte
	binary.BigEndian.PutUint32(lens[0:4], uint32(body.UncompressedLen))
	binary.BigEndian.PutUint32(lens[4:8], uint32(len(body.Compressed)))
	buf = append(buf, lens[:]...)
	return append(buf, body.Compressed...), nil
}

// pruneHTMLRows drops every HtmlRow from rows, builds the dense remap
// table (prunedRowIdx[i] = -1 if row i was pruned, else its new index),
// and rewrites entries' StartRow/NumRows to match. Start rows are always
// TokenRows and are never pruned, so every entry's StartRow always has a
// valid remapped position.
func pruneHTMLRows(entries []*IndexEntry, rows []Row) ([]*IndexEntry, []Row) {
	prunedRowIdx := make([]int32, len(rows))
	newRows := make([]Row, 0, len(rows))
	for i, r := range rows {
		if r.Kind == RowHTML {
			prunedRowIdx[i] = -1
			continue
		}
		prunedRowIdx[i] = int32(len(newRows))
		newRows = append(newRows, r)
	}

	newEntries := make([]*IndexEntry, len(entries))
	for i, e := range entries {
		var count int32
		for j := e.StartRow; j < e.StartRow+e.NumRows; j++ {
			if prunedRowIdx[j] != -1 {
				count++
			}
		}
		newEntries[i] = &IndexEntry{
			Token:            e.Token,
			StartRow:         prunedRowIdx[e.StartRow],
			NumRows:          count,
			HtmlRefs:         nil,
			hasPreNormalized: e.hasPreNormalized,
			preNormalized:    e.preNormalized,
		}
	}
	return newEntries, newRows
}
