// Index is one sorted lookup table over the dictionary's tokens: a short
// and long name, a sort language driving collation, the stored normalizer
// rules, the sorted IndexEntry array binary search runs over,
// the row stream each entry's span points into, a main-token count, and a
// stoplist of tokens excluded from being a main entry. A Dictionary may
// carry several Indices (e.g. one per direction of a bilingual pair).
package dict

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IndexEntry is one row of an Index's sorted token array: a token, the
// span of rows belonging to it, and a lazily-computed normalized form
// used for collator comparison during binary search.
//
// normalizedToken is written-once lazy state (the only mutable state in a
// read-opened dictionary): Normalized computes it from Token on first
// access — or, if the file already carried a precomputed value, seeds the
// memo with that instead of recomputing — and every later call reuses the
// cached result. IndexEntry is always handled through a pointer so that
// memo persists across repeated binary-search probes that revisit the
// same entry via the entry's CachingList.
type IndexEntry struct {
	Token    string
	StartRow int32
	NumRows  int32
	HtmlRefs []int32

	normOnce         sync.Once
	normalized       string
	hasPreNormalized bool
	preNormalized    string
}

// Normalized returns the entry's normalized token, computing and caching
// it via n on first call.
func (e *IndexEntry) Normalized(n *Normalizer) string {
	e.normOnce.Do(func() {
		if e.hasPreNormalized {
			e.normalized = e.preNormalized
			return
		}
		e.normalized = n.Normalize(e.Token)
	})
	return e.normalized
}

func encodeIndexEntry(e *IndexEntry) ([]byte, error) {
	if e.Token == "" {
		return nil, fmt.Errorf("dict: index entry has empty token")
	}
	buf := writeMUTF8(nil, e.Token)
	var fixed [8]byte
	binary.BigEndian.PutUint32(fixed[0:4], uint32(e.StartRow))
	binary.BigEndian.PutUint32(fixed[4:8], uint32(e.NumRows))
	buf = append(buf, fixed[:]...)

	if e.hasPreNormalized || e.normalized != "" {
		buf = append(buf, 1)
		norm := e.preNormalized
		if norm == "" {
			norm = e.normalized
		}
		buf = writeMUTF8(buf, norm)
	} else {
		buf = append(buf, 0)
	}

	refs, err := encodeAddressableListBlob(e.HtmlRefs, encodeInt32)
	if err != nil {
		return nil, err
	}
	return append(buf, refs...), nil
}

func decodeIndexEntry(data []byte, version int) (*IndexEntry, error) {
	token, offset, err := readMUTF8(data, 0)
	if err != nil {
		return nil, err
	}
	if offset+8 > len(data) {
		return nil, fmt.Errorf("%w: truncated index entry", ErrCorrupt)
	}
	startRow := int32(binary.BigEndian.Uint32(data[offset : offset+4]))
	numRows := int32(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
	offset += 8

	if offset >= len(data) {
		return nil, fmt.Errorf("%w: truncated index entry normalization flag", ErrCorrupt)
	}
	hasNormalized := data[offset] != 0
	offset++

	e := &IndexEntry{Token: token, StartRow: startRow, NumRows: numRows}

	if hasNormalized {
		pre, next, err := readMUTF8(data, offset)
		if err != nil {
			return nil, err
		}
		e.hasPreNormalized = true
		e.preNormalized = pre
		offset = next
	}

	refs, err := openAddressableList(bytes.NewReader(data[offset:]), 0, version, decodeInt32)
	if err != nil {
		return nil, err
	}
	e.HtmlRefs = make([]int32, refs.Size())
	for i := range e.HtmlRefs {
		v, err := refs.Get(i)
		if err != nil {
			return nil, err
		}
		e.HtmlRefs[i] = v
	}

	return e, nil
}

func encodeInt32(v int32) ([]byte, error) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return b[:], nil
}

func decodeInt32(data []byte, _ int) (int32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("%w: int32 list element has width %d", ErrCorrupt, len(data))
	}
	return int32(binary.BigEndian.Uint32(data)), nil
}

// Index is one sorted lookup table over a Dictionary's tokens.
type Index struct {
	ShortName       string
	LongName        string
	SortLanguageTag string // ISO/BCP-47 tag as persisted, e.g. "en-u-ks-level1"
	NormalizerRules string
	SwapPairEntries bool
	MainTokenCount  int32
	Stoplist        map[string]struct{}

	sortedEntries *CachingList[*IndexEntry]
	rows          *UniformAddressableList[Row]

	language  language.Tag
	collator  *collate.Collator
	normalize *Normalizer

	dict *Dictionary // non-owning back-reference, see resolve()
}

// indexHeader is the fixed portion of an Index's wire form, read before
// the sortedEntries list.
type indexHeader struct {
	ShortName       string
	LongName        string
	SortLanguageTag string
	NormalizerRules string
	SwapPairEntries bool
	MainTokenCount  int32
}

// readIndexHeader reads the fixed portion of an Index directly from r at
// start, returning the header and the absolute offset immediately
// following it (where the sorted entries list begins).
func readIndexHeader(r io.ReaderAt, start int64) (indexHeader, int64, error) {
	var h indexHeader
	offset := start

	short, next, err := readMUTF8At(r, offset)
	if err != nil {
		return h, 0, err
	}
	h.ShortName, offset = short, next

	long, next, err := readMUTF8At(r, offset)
	if err != nil {
		return h, 0, err
	}
	h.LongName, offset = long, next

	iso, next, err := readMUTF8At(r, offset)
	if err != nil {
		return h, 0, err
	}
	h.SortLanguageTag, offset = iso, next

	rules, next, err := readMUTF8At(r, offset)
	if err != nil {
		return h, 0, err
	}
	h.NormalizerRules, offset = rules, next

	var swapBuf [1]byte
	if _, err := r.ReadAt(swapBuf[:], offset); err != nil {
		return h, 0, fmt.Errorf("%w: index header swap flag: %v", ErrCorrupt, err)
	}
	h.SwapPairEntries = swapBuf[0] != 0
	offset++

	var countBuf [4]byte
	if _, err := r.ReadAt(countBuf[:], offset); err != nil {
		return h, 0, fmt.Errorf("%w: index header main token count: %v", ErrCorrupt, err)
	}
	h.MainTokenCount = int32(binary.BigEndian.Uint32(countBuf[:]))
	offset += 4

	return h, offset, nil
}

func (h indexHeader) encode() []byte {
	buf := writeMUTF8(nil, h.ShortName)
	buf = writeMUTF8(buf, h.LongName)
	buf = writeMUTF8(buf, h.SortLanguageTag)
	buf = writeMUTF8(buf, h.NormalizerRules)
	if h.SwapPairEntries {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(h.MainTokenCount))
	return append(buf, n[:]...)
}

// openIndex reads one Index's complete wire form — header, sorted entries,
// stoplist, and row array — starting at start, wiring a back-reference to
// dict for row resolution.
func openIndex(dict *Dictionary, r io.ReaderAt, start int64, version int) (*Index, int64, error) {
	h, pos, err := readIndexHeader(r, start)
	if err != nil {
		return nil, 0, err
	}

	entries, err := openAddressableList(r, pos, version, decodeIndexEntry)
	if err != nil {
		return nil, 0, err
	}
	cachedEntries := newCachingList[*IndexEntry](entries, 0)
	pos = entries.EndOffset()

	stoplist, pos, err := readStoplist(r, pos)
	if err != nil {
		return nil, 0, err
	}

	rows, err := openUniformAddressableList(r, pos, version, decodeRow)
	if err != nil {
		return nil, 0, err
	}
	pos = rows.EndOffset()

	collator, tag, err := collatorFor(h.SortLanguageTag)
	if err != nil {
		return nil, 0, err
	}
	normalizer, err := NewNormalizer(h.NormalizerRules)
	if err != nil {
		return nil, 0, err
	}

	idx := &Index{
		ShortName:       h.ShortName,
		LongName:        h.LongName,
		SortLanguageTag: h.SortLanguageTag,
		NormalizerRules: h.NormalizerRules,
		SwapPairEntries: h.SwapPairEntries,
		MainTokenCount:  h.MainTokenCount,
		Stoplist:        stoplist,
		sortedEntries:   cachedEntries,
		rows:            rows,
		language:        tag,
		collator:        collator,
		normalize:       normalizer,
		dict:            dict,
	}
	return idx, pos, nil
}

// readStoplist reads the "int32 n; n x MUTF8" stoplist block that
// encodeStoplist writes. A legacy platform-serialized stoplist is not
// recognized.
func readStoplist(r io.ReaderAt, start int64) (map[string]struct{}, int64, error) {
	var countBuf [4]byte
	if _, err := r.ReadAt(countBuf[:], start); err != nil {
		return nil, 0, fmt.Errorf("%w: stoplist count: %v", ErrCorrupt, err)
	}
	n := int(int32(binary.BigEndian.Uint32(countBuf[:])))
	if n < 0 {
		return nil, 0, fmt.Errorf("%w: negative stoplist count %d", ErrCorrupt, n)
	}

	offset := start + 4
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		word, next, err := readMUTF8At(r, offset)
		if err != nil {
			return nil, 0, err
		}
		set[word] = struct{}{}
		offset = next
	}
	return set, offset, nil
}

func encodeStoplist(set map[string]struct{}) []byte {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(set)))
	buf := append([]byte{}, n[:]...)
	for word := range set {
		buf = writeMUTF8(buf, word)
	}
	return buf
}

// decodeIndexForDict returns a decodeFunc[*Index] closing over dict, for use
// as the element decoder of the top-level indices AddressableList. Each
// Index is stored as one self-contained byte blob (header, sorted entries,
// stoplist, row array all at offsets relative to the blob's own start),
// exactly like every other AddressableList element — it just happens to be
// compound instead of a single fixed-shape record.
func decodeIndexForDict(dict *Dictionary) decodeFunc[*Index] {
	return func(data []byte, version int) (*Index, error) {
		idx, _, err := openIndex(dict, bytes.NewReader(data), 0, version)
		return idx, err
	}
}

// encodeIndex serializes idx as one self-contained blob: header, sorted
// entries, stoplist, row array, all at offsets relative to 0.
func encodeIndex(idx *Index, entries []*IndexEntry, rows []Row) ([]byte, error) {
	m := &memBuffer{}
	h := indexHeader{
		ShortName:       idx.ShortName,
		LongName:        idx.LongName,
		SortLanguageTag: idx.SortLanguageTag,
		NormalizerRules: idx.NormalizerRules,
		SwapPairEntries: idx.SwapPairEntries,
		MainTokenCount:  idx.MainTokenCount,
	}
	header := h.encode()
	if _, err := m.WriteAt(header, 0); err != nil {
		return nil, err
	}
	pos := int64(len(header))

	pos, err := writeAddressableList(m, pos, entries, encodeIndexEntry)
	if err != nil {
		return nil, err
	}

	stoplist := encodeStoplist(idx.Stoplist)
	if _, err := m.WriteAt(stoplist, pos); err != nil {
		return nil, err
	}
	pos += int64(len(stoplist))

	if _, err := writeUniformAddressableList(m, pos, rowWidth, rows, encodeRow); err != nil {
		return nil, err
	}

	return m.buf, nil
}

// SortedEntries returns the Index's sorted token array.
func (idx *Index) SortedEntries() *CachingList[*IndexEntry] { return idx.sortedEntries }

// Rows returns the Index's row stream.
func (idx *Index) Rows() *UniformAddressableList[Row] { return idx.rows }

// Language returns the parsed sort language tag.
func (idx *Index) Language() language.Tag { return idx.language }
