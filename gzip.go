// gzip.go compresses and decompresses HTML entry bodies. klauspost/compress/gzip
// is a drop-in, faster implementation of the standard gzip format, so the
// uncompressed-length/compressed-bytes framing here round-trips against
// any standard library gzip reader too.
package dict

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// compressHTMLBody gzips body, returning the HtmlBody wire record ready
// for encodeHtmlBody.
func compressHTMLBody(body []byte) (HtmlBody, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(body); err != nil {
		return HtmlBody{}, fmt.Errorf("dict: compress html body: %w", err)
	}
	if err := w.Close(); err != nil {
		return HtmlBody{}, fmt.Errorf("dict: compress html body: %w", err)
	}
	return HtmlBody{UncompressedLen: int32(len(body)), Compressed: buf.Bytes()}, nil
}

// decompressHTMLBody inflates b's compressed bytes, verifying the result
// matches the stored uncompressed length.
func decompressHTMLBody(b HtmlBody) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(b.Compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	if int32(len(out)) != b.UncompressedLen {
		return nil, fmt.Errorf("%w: html body decompressed to %d bytes, want %d", ErrDecompress, len(out), b.UncompressedLen)
	}
	return out, nil
}
