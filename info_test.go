// DictionaryInfo construction and JSON export tests.
package dict

import (
	"strings"
	"testing"
)

func TestDictionaryInfoSummarizesIndices(t *testing.T) {
	d := openTestDictionary(t, DictionaryData{
		Info:    "demo",
		Sources: []EntrySource{{Name: "a"}, {Name: "b"}},
		Indices: []IndexData{tokenIndexData([]string{"apple", "banana"})},
	})

	info, err := d.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", info.Version, CurrentVersion)
	}
	if info.DictInfo != "demo" {
		t.Errorf("DictInfo = %q, want demo", info.DictInfo)
	}
	if info.SourceCount != 2 {
		t.Errorf("SourceCount = %d, want 2", info.SourceCount)
	}
	if len(info.Indices) != 1 {
		t.Fatalf("len(Indices) = %d, want 1", len(info.Indices))
	}
	if info.Indices[0].EntryCount != 2 {
		t.Errorf("EntryCount = %d, want 2", info.Indices[0].EntryCount)
	}
	if info.Indices[0].ShortName != "test" {
		t.Errorf("ShortName = %q, want test", info.Indices[0].ShortName)
	}
}

func TestDictionaryInfoJSON(t *testing.T) {
	d := openTestDictionary(t, DictionaryData{
		Info:    "demo",
		Sources: []EntrySource{{Name: "a"}},
		Indices: []IndexData{tokenIndexData([]string{"apple"})},
	})
	info, err := d.Info()
	if err != nil {
		t.Fatal(err)
	}
	out, err := info.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"dictInfo"`) {
		t.Errorf("JSON output missing dictInfo field: %s", out)
	}
	if !strings.Contains(string(out), "demo") {
		t.Errorf("JSON output missing info string: %s", out)
	}
}

func TestPackageInfoDegradesOnMissingFile(t *testing.T) {
	info := Info("/no/such/dictionary.dict")
	if info.Version != 0 {
		t.Errorf("Version = %d, want 0 (fallback)", info.Version)
	}
	if info.Indices != nil {
		t.Errorf("Indices = %v, want nil (fallback)", info.Indices)
	}
}

func TestPackageInfoSucceedsOnRealFile(t *testing.T) {
	d := openTestDictionary(t, DictionaryData{
		Info:    "demo",
		Sources: []EntrySource{{Name: "a"}},
		Indices: []IndexData{tokenIndexData([]string{"apple"})},
	})
	path := d.f.Name()
	d.Close()

	info := Info(path)
	if info.DictInfo != "demo" {
		t.Errorf("DictInfo = %q, want demo", info.DictInfo)
	}
	if info.FileSize <= 0 {
		t.Error("FileSize should be positive for a real file")
	}
}
