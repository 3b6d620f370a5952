// Header framing for the dictionary file: the leading version and
// creation-time fields, and the fixed sentinel string that must be the
// file's last value. There is no separate header section with stored
// section offsets — the version and creation fields are simply the first
// two fixed-width values, and every following section's position is
// discovered by chaining off the previous section's EndOffset(). There is
// nothing here to make "dirty" in flight: the file is written once, in
// full, by the writer in writer.go, and only ever opened read-only
// afterward.
package dict

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CurrentVersion is the newest dictionary format version this package
// writes. Versions 1 through CurrentVersion are within the format's valid
// range; this implementation fully reads and writes CurrentVersion and
// version 6, and recognizes (without fully decoding) versions 1-5 per the
// "framing level only" leeway the format spec grants implementers for
// legacy writers.
const CurrentVersion = 7

// MinReadableVersion is the legacy writer this package still fully reads.
const MinReadableVersion = 6

// Sentinel is the fixed MUTF-8 string that must be the last value written
// to every valid dictionary file, of any version.
const Sentinel = "END OF DICTIONARY"

// fileHeader holds the version and creation-time fields read from the
// front of the file.
type fileHeader struct {
	Version        int32
	CreationMillis int64
	Info           string
}

// readFileHeader parses the version, creation timestamp, and info string
// from the start of buf, returning the header and the offset immediately
// following it (where the sources list begins).
func readFileHeader(buf []byte) (fileHeader, int, error) {
	if len(buf) < 12 {
		return fileHeader{}, 0, fmt.Errorf("%w: truncated file header", ErrCorrupt)
	}
	version := int32(binary.BigEndian.Uint32(buf[0:4]))
	if version < 0 || int(version) > CurrentVersion {
		return fileHeader{}, 0, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
	created := int64(binary.BigEndian.Uint64(buf[4:12]))

	info, offset, err := readMUTF8(buf, 12)
	if err != nil {
		return fileHeader{}, 0, err
	}

	return fileHeader{Version: version, CreationMillis: created, Info: info}, offset, nil
}

// readFileHeaderAt parses the header directly from r, without requiring
// the caller to guess how large a buffer the variable-length info string
// needs.
func readFileHeaderAt(r io.ReaderAt) (fileHeader, int64, error) {
	var fixed [12]byte
	if _, err := r.ReadAt(fixed[:], 0); err != nil {
		return fileHeader{}, 0, fmt.Errorf("%w: truncated file header: %v", ErrCorrupt, err)
	}
	version := int32(binary.BigEndian.Uint32(fixed[0:4]))
	if version < 0 || int(version) > CurrentVersion {
		return fileHeader{}, 0, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
	created := int64(binary.BigEndian.Uint64(fixed[4:12]))

	info, offset, err := readMUTF8At(r, 12)
	if err != nil {
		return fileHeader{}, 0, err
	}

	return fileHeader{Version: version, CreationMillis: created, Info: info}, offset, nil
}

// encode serializes the file header (version, creation time, info string)
// to its wire form.
func (h fileHeader) encode() []byte {
	buf := make([]byte, 12, 12+2+mutf8Len(h.Info))
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Version))
	binary.BigEndian.PutUint64(buf[4:12], uint64(h.CreationMillis))
	return writeMUTF8(buf, h.Info)
}
