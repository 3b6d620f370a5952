// End-to-end Dictionary.Open/Close tests: file header and version
// validation, section wiring (sources/pairs/texts/html/indices), and the
// post-Close error behavior every accessor must honor.
package dict

import (
	"os"
	"testing"
)

func TestOpenRoundTripsHeaderAndSources(t *testing.T) {
	d := openTestDictionary(t, DictionaryData{
		Info:    "test dictionary",
		Sources: []EntrySource{{Name: "corpus-a"}, {Name: "corpus-b"}},
		Indices: []IndexData{tokenIndexData([]string{"a"})},
	})
	if d.Version() != CurrentVersion {
		t.Errorf("Version() = %d, want %d", d.Version(), CurrentVersion)
	}
	if d.DictInfo() != "test dictionary" {
		t.Errorf("DictInfo() = %q, want %q", d.DictInfo(), "test dictionary")
	}
	if d.Sources().Size() != 2 {
		t.Errorf("Sources().Size() = %d, want 2", d.Sources().Size())
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/path/to.dict", Config{}); err == nil {
		t.Error("expected error opening a nonexistent file")
	}
}

func TestOpenRejectsFutureVersion(t *testing.T) {
	f, err := os.CreateTemp("", "dict-test-*.dict")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	h := fileHeader{Version: CurrentVersion + 1, Info: "bad"}
	if _, err := f.WriteAt(h.encode(), 0); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(f.Name(), Config{}); err == nil {
		t.Error("expected error opening a file with an out-of-range version")
	}
}

func TestDictionaryOperationsAfterCloseFail(t *testing.T) {
	d := openTestDictionary(t, DictionaryData{
		Sources: []EntrySource{{Name: "s"}},
		Indices: []IndexData{tokenIndexData([]string{"a"})},
	})
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Indices(); err != ErrClosed {
		t.Errorf("Indices() after Close: err = %v, want ErrClosed", err)
	}
	if _, err := d.Info(); err != ErrClosed {
		t.Errorf("Info() after Close: err = %v, want ErrClosed", err)
	}
	// Closing twice must not panic or error.
	if err := d.Close(); err != nil {
		t.Errorf("second Close() returned %v, want nil", err)
	}
}

func TestDictionaryWithPairsTextsAndHTML(t *testing.T) {
	body, err := compressHTMLBody([]byte("<p>hi</p>"))
	if err != nil {
		t.Fatal(err)
	}
	d := openTestDictionary(t, DictionaryData{
		Sources:    []EntrySource{{Name: "s"}},
		Pairs:      []PairEntry{{Source: 0, Pairs: []LangPair{{A: "cat", B: "chat"}}}},
		Texts:      []TextEntry{{Source: 0, Text: "note"}},
		HtmlBodies: []HtmlBody{body},
		HtmlTitles: []HtmlEntry{{Source: 0, Title: "Etymology", BodyRef: 0}},
		Indices: []IndexData{{
			ShortName:       "t",
			SortLanguageTag: "en-u-ks-level1",
			NormalizerRules: ":: Lower ;",
			Entries:         []*IndexEntry{{Token: "cat", StartRow: 0, NumRows: 3}},
			Rows: []Row{
				{Kind: RowTokenMain, ReferenceIndex: 0},
				{Kind: RowPair, ReferenceIndex: 0},
				{Kind: RowText, ReferenceIndex: 0},
			},
		}},
	})

	resolved, err := d.resolve(Row{Kind: RowPair, ReferenceIndex: 0})
	if err != nil {
		t.Fatal(err)
	}
	if pair, ok := resolved.Entry.(PairEntry); !ok || pair.Pairs[0].B != "chat" {
		t.Errorf("resolved pair = %+v", resolved.Entry)
	}

	htmlEntry, err := d.htmlTitles.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := d.HTMLBody(htmlEntry)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "<p>hi</p>" {
		t.Errorf("HTMLBody = %q, want <p>hi</p>", decoded)
	}
}

func TestInfoNeverFailsOnBadPath(t *testing.T) {
	info := Info("/definitely/does/not/exist.dict")
	if info.Path != "/definitely/does/not/exist.dict" {
		t.Errorf("Path = %q", info.Path)
	}
}
