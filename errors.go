// Package dict implements the on-disk storage engine for a bilingual
// dictionary file: a random-access container built from offset-addressed
// lists, plus one or more sorted, collator-driven lookup indices over
// those lists. Dictionaries are written once by an external compiler and
// then opened read-only; this package never mutates an open file.
package dict

import "errors"

// Sentinel errors returned by dictionary operations. Each corresponds to
// one of the error kinds in the format's error handling design: callers
// use errors.Is to decide how to recover, so every sentinel below must
// stay distinct and non-nil.
var (
	// ErrUnsupportedVersion is returned when a file's version is outside
	// the readable range, or names a legacy version this implementation
	// does not decode (see Open).
	ErrUnsupportedVersion = errors.New("dict: unsupported dictionary version")

	// ErrUnsupportedLanguage is returned when an Index's stored language
	// tag isn't in the known collation table.
	ErrUnsupportedLanguage = errors.New("dict: unsupported index language")

	// ErrCorrupt is returned for bad offsets, truncated lists, a missing
	// or mismatched terminator, an unknown row tag, or any failed element
	// decode.
	ErrCorrupt = errors.New("dict: corrupt dictionary")

	// ErrClosed is returned when an operation is attempted after Close.
	ErrClosed = errors.New("dict: dictionary is closed")

	// ErrCancelled is returned by findInsertionPoint when the caller's
	// interrupt flag was observed set mid-search.
	ErrCancelled = errors.New("dict: search cancelled")

	// ErrDecompress wraps failures decompressing an HTML body.
	ErrDecompress = errors.New("dict: decompress failed")

	// ErrSkipHTMLv7 is returned when writing version 7 with skipHTML set;
	// the option is only meaningful for the legacy v6 writer.
	ErrSkipHTMLv7 = errors.New("dict: skipHTML is not valid for version 7")
)
