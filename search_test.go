// Index lookup tests: findInsertionPoint's binary search, wind-back to
// the first collator-tied neighbor, cancellation, and longestPrefix.
//
// Covers case-insensitive exact match, wind-back across normalized ties,
// clamped insertion on no match, and cooperative cancellation checked per
// probe.
package dict

import (
	"os"
	"testing"
)

func openTestDictionary(t *testing.T, data DictionaryData) *Dictionary {
	t.Helper()
	f, err := os.CreateTemp("", "dict-test-*.dict")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })

	if _, err := Write(f, data); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()

	d, err := Open(f.Name(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func tokenIndexData(tokens []string) IndexData {
	entries := make([]*IndexEntry, len(tokens))
	rows := make([]Row, 0, len(tokens))
	for i, tok := range tokens {
		entries[i] = &IndexEntry{Token: tok, StartRow: int32(len(rows)), NumRows: 1}
		rows = append(rows, Row{Kind: RowTokenMain, ReferenceIndex: int32(i)})
	}
	return IndexData{
		ShortName:       "test",
		SortLanguageTag: "en-u-ks-level1",
		NormalizerRules: ":: NFC ; :: Lower ;",
		Entries:         entries,
		Rows:            rows,
	}
}

func openTestIndex(t *testing.T, tokens []string) *Index {
	t.Helper()
	d := openTestDictionary(t, DictionaryData{
		Sources: []EntrySource{{Name: "test"}},
		Indices: []IndexData{tokenIndexData(tokens)},
	})
	indices, err := d.Indices()
	if err != nil {
		t.Fatal(err)
	}
	return indices[0]
}

func TestFindInsertionPointCaseInsensitive(t *testing.T) {
	idx := openTestIndex(t, []string{"Apple", "banana", "Cherry"})

	entry, err := idx.FindInsertionPoint("apple", nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Token != "Apple" {
		t.Errorf("Token = %q, want Apple", entry.Token)
	}

	entry, err = idx.FindInsertionPoint("APPLE", nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Token != "Apple" {
		t.Errorf("Token = %q, want Apple", entry.Token)
	}
}

func TestFindInsertionPointWindsBackToFirstTie(t *testing.T) {
	idx := openTestIndex(t, []string{"Apple", "apple", "apply"})

	entry, err := idx.FindInsertionPoint("APPLE", nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.StartRow != 0 {
		t.Errorf("StartRow = %d, want 0 (first tied entry)", entry.StartRow)
	}
}

func TestFindInsertionPointClampsOnNoMatch(t *testing.T) {
	idx := openTestIndex(t, []string{"apple", "banana", "cherry"})

	entry, err := idx.FindInsertionPoint("zzzzzz", nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Token != "cherry" {
		t.Errorf("Token = %q, want cherry (clamped to last)", entry.Token)
	}

	entry, err = idx.FindInsertionPoint("aaa", nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Token != "apple" {
		t.Errorf("Token = %q, want apple (clamped to first)", entry.Token)
	}
}

func TestFindInsertionPointCancellation(t *testing.T) {
	idx := openTestIndex(t, []string{"apple", "banana", "cherry"})

	var flag CancelFlag
	flag.Cancel()

	_, err := idx.FindInsertionPoint("apple", &flag)
	if err != ErrCancelled {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestLongestPrefixSucceeds(t *testing.T) {
	idx := openTestIndex(t, []string{"cat", "catalog", "dog"})

	result, err := idx.LongestPrefix("catalogx", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatal("expected a successful longest-prefix match")
	}
	if result.LongestPrefixString != "catalog" {
		t.Errorf("LongestPrefixString = %q, want catalog", result.LongestPrefixString)
	}
	if result.LongestPrefix.Token != "catalog" {
		t.Errorf("LongestPrefix.Token = %q, want catalog", result.LongestPrefix.Token)
	}
	if result.InsertionPoint == nil {
		t.Error("InsertionPoint should always be set")
	}
}

func TestLongestPrefixNoMatch(t *testing.T) {
	idx := openTestIndex(t, []string{"cat", "dog"})

	result, err := idx.LongestPrefix("zzz", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("expected no successful prefix match")
	}
	if result.InsertionPoint == nil {
		t.Error("InsertionPoint should still be set on failure")
	}
}
