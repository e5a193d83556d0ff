package valid

import (
	"encoding/binary"
	"fmt"
)

// walkAVI checks the RIFF framing of a carved AVI stream and walks its
// top-level chunks. Chunk payloads are skipped, not parsed; odd-sized
// chunks carry a padding byte per the RIFF rules. A truncated final chunk
// is tolerated for the same reason as in walkMP4.
func walkAVI(data []byte) error {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		return fmt.Errorf("avi: missing RIFF/AVI framing")
	}
	riffSize := int64(binary.LittleEndian.Uint32(data[4:8]))
	if riffSize < 4 {
		return fmt.Errorf("avi: bad RIFF size %d", riffSize)
	}

	limit := riffSize + 8
	if limit > int64(len(data)) {
		limit = int64(len(data))
	}

	pos := int64(12)
	chunks := 0
	for pos+8 <= limit {
		id := data[pos : pos+4]
		size := int64(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if !printableBoxType(id) {
			return fmt.Errorf("avi: bad chunk id at offset %d", pos)
		}
		chunks++
		pos += 8 + size
		if size%2 == 1 {
			pos++
		}
	}
	if chunks == 0 {
		return fmt.Errorf("avi: no chunks")
	}
	return nil
}
