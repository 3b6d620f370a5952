// dictprint is a thin debug CLI over the dict package: open a dictionary
// file and print it, either as the package's plain-text debug view or, with
// --json, as DictionaryInfo's JSON export. Neither output format carries a
// stable schema — this is a debug tool, not an API.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/dictfile/dict"
)

func main() {
	jsonOut := flag.Bool("json", false, "print DictionaryInfo as JSON instead of the plain-text debug view")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dictprint [--json] <path>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *jsonOut {
		info := dict.Info(path)
		b, err := info.JSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, "dictprint:", err)
			os.Exit(1)
		}
		os.Stdout.Write(b)
		fmt.Println()
		return
	}

	d, err := dict.Open(path, dict.Config{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dictprint:", err)
		os.Exit(1)
	}
	defer d.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if err := print(d, out); err != nil {
		fmt.Fprintln(os.Stderr, "dictprint:", err)
		os.Exit(1)
	}
}

func print(d *dict.Dictionary, out *bufio.Writer) error {
	fmt.Fprintf(out, "dictInfo=%s\n", d.DictInfo())

	sources := d.Sources()
	for i := 0; i < sources.Size(); i++ {
		s, err := sources.Get(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "EntrySource: %s %d\n", s.Name, s.NumEntries)
	}

	indices, err := d.Indices()
	if err != nil {
		return err
	}
	for _, idx := range indices {
		fmt.Fprintf(out, "Index: %s %s\n", idx.ShortName, idx.LongName)
		if err := printRows(idx, out); err != nil {
			return err
		}
	}
	return nil
}

func printRows(idx *dict.Index, out *bufio.Writer) error {
	rows := idx.Rows()
	for i := 0; i < rows.Size(); i++ {
		row, err := rows.Get(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  row %d: %s ref=%d\n", i, row.Kind, row.ReferenceIndex)
	}
	return nil
}
