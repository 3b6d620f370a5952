package dict_test

import (
	"fmt"
	"log"
	"os"

	"github.com/dictfile/dict"
)

// exampleData builds the smallest dictionary that round-trips through
// Write and Open: one source, one pair entry, and one index with a
// single token spanning a TokenRow and a PairRow.
func exampleData() dict.DictionaryData {
	return dict.DictionaryData{
		Info:    "example",
		Sources: []dict.EntrySource{{Name: "hand-written", NumEntries: 1}},
		Pairs: []dict.PairEntry{
			{Source: 0, Pairs: []dict.LangPair{{A: "apple", B: "pomme"}}},
		},
		Indices: []dict.IndexData{{
			ShortName:       "en-fr",
			LongName:        "English to French",
			SortLanguageTag: "en-u-ks-level1",
			NormalizerRules: ":: NFC ; :: Lower ;",
			Entries: []*dict.IndexEntry{
				{Token: "Apple", StartRow: 0, NumRows: 2},
			},
			Rows: []dict.Row{
				{Kind: dict.RowTokenMain, ReferenceIndex: 0},
				{Kind: dict.RowPair, ReferenceIndex: 0},
			},
		}},
	}
}

func Example() {
	f, err := os.CreateTemp("", "dict-example-*.dict")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := dict.Write(f, exampleData()); err != nil {
		log.Fatal(err)
	}

	d, err := dict.Open(f.Name(), dict.Config{})
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	indices, err := d.Indices()
	if err != nil {
		log.Fatal(err)
	}
	entry, err := indices[0].FindInsertionPoint("APPLE", nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(entry.Token)
	// Output: Apple
}

func ExampleIndex_FindInsertionPoint() {
	f, err := os.CreateTemp("", "dict-example-*.dict")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := dict.Write(f, exampleData()); err != nil {
		log.Fatal(err)
	}

	d, err := dict.Open(f.Name(), dict.Config{})
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	indices, _ := d.Indices()
	entry, err := indices[0].FindInsertionPoint("apple", nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(entry.StartRow, entry.NumRows)
	// Output: 0 2
}
