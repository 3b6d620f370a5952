// info.go provides DictionaryInfo, a cheap metadata-only view of a
// dictionary (name, creation time, per-index names/counts) plus a JSON
// export via goccy/go-json, for tooling (cmd/dictprint --json and
// external catalog management) that wants a parseable summary without
// linking the binary format reader.
package dict

import (
	"os"

	"github.com/goccy/go-json"
)

// IndexInfo summarizes one Index without touching its row stream or
// sorted entries.
type IndexInfo struct {
	ShortName  string `json:"shortName"`
	LongName   string `json:"longName"`
	Language   string `json:"language"`
	EntryCount int    `json:"entryCount"`
}

// DictionaryInfo is a cheap, metadata-only view of a dictionary file.
type DictionaryInfo struct {
	Path           string      `json:"path"`
	FileSize       int64       `json:"fileSize"`
	Version        int         `json:"version"`
	CreationMillis int64       `json:"creationMillis"`
	DictInfo       string      `json:"dictInfo"`
	SourceCount    int         `json:"sourceCount"`
	Indices        []IndexInfo `json:"indices"`
}

// Info builds a DictionaryInfo for d.
func (d *Dictionary) Info() (DictionaryInfo, error) {
	size := int64(0)
	if st, err := d.f.Stat(); err == nil {
		size = st.Size()
	}

	info := DictionaryInfo{
		Path:           d.f.Name(),
		FileSize:       size,
		Version:        d.version,
		CreationMillis: d.header.CreationMillis,
		DictInfo:       d.header.Info,
		SourceCount:    d.sources.Size(),
	}

	indices, err := d.Indices()
	if err != nil {
		return DictionaryInfo{}, err
	}
	info.Indices = make([]IndexInfo, len(indices))
	for i, idx := range indices {
		info.Indices[i] = IndexInfo{
			ShortName:  idx.ShortName,
			LongName:   idx.LongName,
			Language:   idx.SortLanguageTag,
			EntryCount: idx.sortedEntries.Size(),
		}
	}
	return info, nil
}

// JSON marshals info for debug/catalog consumers. No stable schema is
// guaranteed.
func (info DictionaryInfo) JSON() ([]byte, error) {
	return json.MarshalIndent(info, "", "  ")
}

// Info opens path just far enough to describe it, degrading to a
// filename-and-size-only view on any error (missing file, unreadable
// header, wrong format) rather than ever propagating — this is the one
// operation in the package required never to fail outright, since
// catalog/listing tools call it over files they haven't necessarily
// validated yet.
func Info(path string) DictionaryInfo {
	fallback := DictionaryInfo{Path: path}
	if st, err := os.Stat(path); err == nil {
		fallback.FileSize = st.Size()
	}

	d, err := Open(path, Config{})
	if err != nil {
		return fallback
	}
	defer d.Close()

	info, err := d.Info()
	if err != nil {
		return fallback
	}
	return info
}
