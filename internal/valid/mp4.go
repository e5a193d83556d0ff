package valid

import (
	"encoding/binary"
	"fmt"
)

// walkMP4 iterates the top-level box layout of a carved MP4/MOV stream.
// The first box must be ftyp; after that the walk only verifies that each
// box declares a plausible size and type. A final box cut short by the end
// of the carve is tolerated: the carve boundary is the next file's header,
// not a box edge.
func walkMP4(data []byte) error {
	if len(data) < 8 || string(data[4:8]) != "ftyp" {
		return fmt.Errorf("mp4: missing ftyp box")
	}

	pos := 0
	boxes := 0
	for pos+8 <= len(data) {
		size := int64(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := data[pos+4 : pos+8]
		if !printableBoxType(typ) {
			return fmt.Errorf("mp4: bad box type at offset %d", pos)
		}
		switch {
		case size == 0:
			// Box extends to the end of the stream.
			return nil
		case size == 1:
			if pos+16 > len(data) {
				return nil
			}
			size = int64(binary.BigEndian.Uint64(data[pos+8 : pos+16]))
			if size < 16 {
				return fmt.Errorf("mp4: bad largesize %d", size)
			}
		case size < 8:
			return fmt.Errorf("mp4: bad box size %d", size)
		}
		boxes++
		if int64(pos)+size > int64(len(data)) {
			// Truncated tail box.
			break
		}
		pos += int(size)
	}
	if boxes < 2 {
		return fmt.Errorf("mp4: only %d top-level boxes", boxes)
	}
	return nil
}

func printableBoxType(typ []byte) bool {
	for _, b := range typ {
		// Box types are lowercase fourcc codes; the copyright symbol
		// shows up in metadata containers.
		if (b < 0x20 || b > 0x7e) && b != 0xa9 {
			return false
		}
	}
	return true
}
