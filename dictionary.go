// Dictionary is the container type the whole package is built around: it
// owns the open file handle and every top-level list, chaining each
// section's EndOffset into the next section's start exactly as the file
// layout lays them out. There is no read/write/closed state machine here
// for compaction or concurrent writers to coordinate against — a
// Dictionary is written once by writer.go and only ever opened read-only
// afterward, so the only state transition it has is open to closed.
package dict

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Config holds Dictionary.Open's tunable defaults. A zero-value Config is
// valid; Open fills in the usual values.
type Config struct {
	// PairCacheCapacity bounds the pairs list's LRU. 0 uses DefaultCacheCapacity.
	PairCacheCapacity int
	// TextCacheCapacity has no effect: Open decodes the texts list in full
	// and keeps every element, with no LRU bound.
	TextCacheCapacity int
	// HtmlTitleCacheCapacity bounds the htmlTitles list's LRU. 0 uses DefaultCacheCapacity.
	HtmlTitleCacheCapacity int
}

func (c Config) withDefaults() Config {
	if c.PairCacheCapacity <= 0 {
		c.PairCacheCapacity = DefaultCacheCapacity
	}
	if c.TextCacheCapacity <= 0 {
		c.TextCacheCapacity = DefaultCacheCapacity
	}
	if c.HtmlTitleCacheCapacity <= 0 {
		c.HtmlTitleCacheCapacity = DefaultCacheCapacity
	}
	return c
}

// Dictionary is one opened, read-only dictionary file.
type Dictionary struct {
	f       *os.File
	version int
	header  fileHeader
	closed  atomic.Bool

	sources    *AddressableList[EntrySource]
	pairs      *CachingList[PairEntry]
	texts      *CachingList[TextEntry]
	htmlTitles *CachingList[HtmlEntry]
	htmlBodies *AddressableList[HtmlBody]
	indices    *CachingList[*Index]
}

// Open reads a dictionary file's header and every top-level list's offset
// table, returning a Dictionary ready for lookups. The file is held open
// (read-only) until Close.
func Open(path string, cfg Config) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d, err := openFrom(f, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

func openFrom(f *os.File, cfg Config) (*Dictionary, error) {
	cfg = cfg.withDefaults()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size < 12 {
		return nil, fmt.Errorf("%w: file too small", ErrCorrupt)
	}

	header, pos, err := readFileHeaderAt(f)
	if err != nil {
		return nil, err
	}
	version := int(header.Version)
	if version < MinReadableVersion {
		return nil, fmt.Errorf("%w: version %d recognized at framing level only", ErrUnsupportedVersion, version)
	}

	d := &Dictionary{f: f, version: version, header: header}

	d.sources, err = openAddressableList(f, pos, version, decodeEntrySource)
	if err != nil {
		return nil, err
	}
	pos = d.sources.EndOffset()

	pairsRaw, err := openAddressableList(f, pos, version, decodePairEntry)
	if err != nil {
		return nil, err
	}
	d.pairs = newCachingList[PairEntry](pairsRaw, cfg.PairCacheCapacity)
	pos = pairsRaw.EndOffset()

	textsRaw, err := openAddressableList(f, pos, version, decodeTextEntry)
	if err != nil {
		return nil, err
	}
	d.texts, err = newFullyCachedList[TextEntry](textsRaw)
	if err != nil {
		return nil, err
	}
	pos = textsRaw.EndOffset()

	if version >= 5 {
		htmlTitlesRaw, err := openAddressableList(f, pos, version, decodeHtmlEntry)
		if err != nil {
			return nil, err
		}
		d.htmlTitles = newCachingList[HtmlEntry](htmlTitlesRaw, cfg.HtmlTitleCacheCapacity)
		pos = htmlTitlesRaw.EndOffset()
	}

	if version >= 7 {
		d.htmlBodies, err = openAddressableList(f, pos, version, decodeHtmlBody)
		if err != nil {
			return nil, err
		}
		pos = d.htmlBodies.EndOffset()
	}

	indicesRaw, err := openAddressableList(f, pos, version, decodeIndexForDict(d))
	if err != nil {
		return nil, err
	}
	d.indices, err = newFullyCachedList[*Index](indicesRaw)
	if err != nil {
		return nil, err
	}
	pos = indicesRaw.EndOffset()

	sentinel, _, err := readMUTF8At(f, pos)
	if err != nil {
		return nil, err
	}
	if sentinel != Sentinel {
		return nil, fmt.Errorf("%w: missing or mismatched terminator", ErrCorrupt)
	}

	return d, nil
}

// Close releases the underlying file handle. After Close, Indices, Info,
// HTMLBody and row resolution return ErrClosed; Version, CreatedAt and
// DictInfo keep returning the values read at Open. Lists obtained before
// Close are not invalidated: a Get that has to read the file fails with
// an ErrCorrupt-wrapped read error, and elements already held in memory
// (cached entries, the decoded Indices) are still returned. A second
// Close returns nil.
func (d *Dictionary) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return d.f.Close()
}

func (d *Dictionary) checkOpen() error {
	if d.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Version returns the dictionary file's format version.
func (d *Dictionary) Version() int { return d.version }

// CreatedAt returns the dictionary's creation time, in epoch milliseconds.
func (d *Dictionary) CreatedAt() int64 { return d.header.CreationMillis }

// DictInfo returns the free-form info string stored in the file header.
func (d *Dictionary) DictInfo() string { return d.header.Info }

// Sources returns the dictionary's entry source list.
func (d *Dictionary) Sources() *AddressableList[EntrySource] { return d.sources }

// HTMLBody resolves h's decompressed body, whether it was stored by
// reference (version 7) or inline (version 6).
func (d *Dictionary) HTMLBody(h HtmlEntry) ([]byte, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if h.BodyRef >= 0 {
		if d.htmlBodies == nil {
			return nil, fmt.Errorf("%w: dictionary has no html bodies section", ErrCorrupt)
		}
		body, err := d.htmlBodies.Get(int(h.BodyRef))
		if err != nil {
			return nil, err
		}
		return decompressHTMLBody(body)
	}
	body, err := decodeHtmlBody(h.InlineBody, d.version)
	if err != nil {
		return nil, err
	}
	return decompressHTMLBody(body)
}

// Indices returns every Index this dictionary carries.
func (d *Dictionary) Indices() ([]*Index, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]*Index, d.indices.Size())
	for i := range out {
		idx, err := d.indices.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

