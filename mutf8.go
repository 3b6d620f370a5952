package dict

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// writeMUTF8 appends s to buf as a two-byte-length-prefixed modified-UTF-8
// string: U+0000 is encoded as the two-byte overlong form 0xC0 0x80, and
// code points above the Basic Multilingual Plane are encoded as a
// surrogate pair of three-byte sequences (CESU-8), rather than the four-byte
// standard UTF-8 form. Everything else matches UTF-8 byte-for-byte.
//
// This mirrors the legacy reader's expectations described by the format:
// length-prefixed strings using this encoding appear throughout the file
// (header fields, entry text, index tokens).
func writeMUTF8(buf []byte, s string) []byte {
	encoded := encodeMUTF8(s)
	if len(encoded) > 0xFFFF {
		panic("dict: mutf8 string exceeds 65535 bytes")
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(encoded)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, encoded...)
	return buf
}

func encodeMUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r <= 0x7FF, (r >= 0x800 && r <= 0xFFFF):
			var tmp [4]byte
			n := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:n]...)
		default:
			// Supplementary plane: encode as a surrogate pair, each
			// half emitted as its own three-byte UTF-8-shaped sequence.
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			out = append(out, encodeSurrogateHalf(hi)...)
			out = append(out, encodeSurrogateHalf(lo)...)
		}
	}
	return out
}

// encodeSurrogateHalf encodes a single UTF-16 surrogate code unit as a
// three-byte sequence using the same bit layout standard UTF-8 uses for
// code points in the 0x800-0xFFFF range. Surrogate halves are not valid
// Unicode scalar values on their own, so utf8.EncodeRune cannot be used
// here; the three bytes are built directly from the surrogate's bits.
func encodeSurrogateHalf(half rune) []byte {
	return []byte{
		0xE0 | byte(half>>12),
		0x80 | byte((half>>6)&0x3F),
		0x80 | byte(half&0x3F),
	}
}

// readMUTF8 reads a two-byte-length-prefixed modified-UTF-8 string from
// buf starting at offset, returning the decoded string and the offset
// immediately following it.
func readMUTF8(buf []byte, offset int) (string, int, error) {
	if offset+2 > len(buf) {
		return "", 0, fmt.Errorf("%w: truncated mutf8 length", ErrCorrupt)
	}
	n := int(binary.BigEndian.Uint16(buf[offset : offset+2]))
	offset += 2
	if offset+n > len(buf) {
		return "", 0, fmt.Errorf("%w: truncated mutf8 body", ErrCorrupt)
	}
	s, err := decodeMUTF8(buf[offset : offset+n])
	if err != nil {
		return "", 0, err
	}
	return s, offset + n, nil
}

func decodeMUTF8(b []byte) (string, error) {
	out := make([]rune, 0, len(b))
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c < 0x80:
			out = append(out, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", fmt.Errorf("%w: truncated mutf8 sequence", ErrCorrupt)
			}
			r := rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			out = append(out, r)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", fmt.Errorf("%w: truncated mutf8 sequence", ErrCorrupt)
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				// High surrogate followed by a low surrogate: combine
				// into the supplementary-plane code point it represents.
				lo := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if lo >= 0xDC00 && lo <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
					i += 6
					out = append(out, r)
					continue
				}
			}
			out = append(out, r)
			i += 3
		default:
			return "", fmt.Errorf("%w: invalid mutf8 lead byte", ErrCorrupt)
		}
	}
	return string(out), nil
}

func mutf8Len(s string) int {
	return len(encodeMUTF8(s))
}

// readMUTF8At reads a two-byte-length-prefixed modified-UTF-8 string
// directly from r at offset, without requiring the caller to buffer the
// whole surrounding section first. Used for header-style fields whose
// total length isn't known ahead of time.
func readMUTF8At(r io.ReaderAt, offset int64) (string, int64, error) {
	var lenBuf [2]byte
	if _, err := r.ReadAt(lenBuf[:], offset); err != nil {
		return "", 0, fmt.Errorf("%w: mutf8 length: %v", ErrCorrupt, err)
	}
	n := int(binary.BigEndian.Uint16(lenBuf[:]))
	offset += 2

	body := make([]byte, n)
	if n > 0 {
		if _, err := r.ReadAt(body, offset); err != nil {
			return "", 0, fmt.Errorf("%w: mutf8 body: %v", ErrCorrupt, err)
		}
	}
	s, err := decodeMUTF8(body)
	if err != nil {
		return "", 0, err
	}
	return s, offset + int64(n), nil
}
