package valid

import (
	"fmt"
	"math/bits"
)

// walkMKV verifies the outermost EBML framing of a carved Matroska/WebM
// stream: a well-formed EBML header element followed by a Segment element.
// Everything inside the Segment is opaque to the walk; Segment sizes are
// routinely declared unknown by live-recorded files.
func walkMKV(data []byte) error {
	if len(data) < 5 || data[0] != 0x1a || data[1] != 0x45 || data[2] != 0xdf || data[3] != 0xa3 {
		return fmt.Errorf("mkv: missing EBML magic")
	}

	headerSize, n, err := readVint(data[4:])
	if err != nil {
		return fmt.Errorf("mkv: EBML header size: %w", err)
	}
	if headerSize > 0x7fff {
		return fmt.Errorf("mkv: implausible EBML header size %d", headerSize)
	}
	pos := 4 + n + int(headerSize)
	if pos+4 > len(data) {
		return errTruncated("mkv")
	}

	if data[pos] != 0x18 || data[pos+1] != 0x53 || data[pos+2] != 0x80 || data[pos+3] != 0x67 {
		return fmt.Errorf("mkv: missing Segment element")
	}
	if _, _, err := readVint(data[pos+4:]); err != nil {
		return fmt.Errorf("mkv: Segment size: %w", err)
	}
	return nil
}

// readVint decodes an EBML variable-length integer. The all-ones value of
// any width means "unknown size" and is returned as is; callers that care
// must treat it specially.
func readVint(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("empty input")
	}
	width := bits.LeadingZeros8(data[0]) + 1
	if width > 8 || width > len(data) {
		return 0, 0, fmt.Errorf("bad vint width")
	}
	v := uint64(data[0] &^ (0x80 >> (width - 1)))
	for i := 1; i < width; i++ {
		v = v<<8 | uint64(data[i])
	}
	return v, width, nil
}
