package dict

import (
	"os"
	"strconv"
	"testing"
)

func benchDictionaryData(n int) DictionaryData {
	entries := make([]*IndexEntry, n)
	rows := make([]Row, 0, n*2)
	pairs := make([]PairEntry, n)
	for i := 0; i < n; i++ {
		token := "word" + strconv.Itoa(i)
		entries[i] = &IndexEntry{Token: token, StartRow: int32(len(rows)), NumRows: 2}
		rows = append(rows, Row{Kind: RowTokenMain, ReferenceIndex: int32(i)})
		rows = append(rows, Row{Kind: RowPair, ReferenceIndex: int32(i)})
		pairs[i] = PairEntry{Source: 0, Pairs: []LangPair{{A: token, B: "translation" + strconv.Itoa(i)}}}
	}
	return DictionaryData{
		Info:    "bench",
		Sources: []EntrySource{{Name: "bench", NumEntries: int32(n)}},
		Pairs:   pairs,
		Indices: []IndexData{{
			ShortName:       "bench",
			SortLanguageTag: "en-u-ks-level1",
			NormalizerRules: ":: NFC ; :: Lower ;",
			Entries:         entries,
			Rows:            rows,
		}},
	}
}

func benchDictionary(b *testing.B, n int) *Dictionary {
	b.Helper()
	f, err := os.CreateTemp("", "dict-bench-*.dict")
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { os.Remove(f.Name()) })
	defer f.Close()

	if _, err := Write(f, benchDictionaryData(n)); err != nil {
		b.Fatal(err)
	}
	d, err := Open(f.Name(), Config{})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { d.Close() })
	return d
}

func BenchmarkFindInsertionPoint(b *testing.B) {
	d := benchDictionary(b, 10000)
	indices, err := d.Indices()
	if err != nil {
		b.Fatal(err)
	}
	idx := indices[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.FindInsertionPoint("word5000", nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindInsertionPointCold(b *testing.B) {
	d := benchDictionary(b, 10000)
	indices, err := d.Indices()
	if err != nil {
		b.Fatal(err)
	}
	idx := indices[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		token := "word" + strconv.Itoa(i%10000)
		if _, err := idx.FindInsertionPoint(token, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalize(b *testing.B) {
	n, err := NewNormalizer(":: NFD ; :: [:Mn:] Remove ; :: NFC ; :: Lower ;")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Normalize("Café Déjà Vu")
	}
}

func BenchmarkGzipRoundTrip(b *testing.B) {
	data := make([]byte, 50*1024)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body, err := compressHTMLBody(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := decompressHTMLBody(body); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCachingListGet(b *testing.B) {
	d := benchDictionary(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.pairs.Get(i % 1000); err != nil {
			b.Fatal(err)
		}
	}
}
