package valid

import (
	"encoding/binary"
	"fmt"
)

// walkFLV checks the fixed FLV file header and then walks the tag stream,
// cross-checking each tag's declared size against the PreviousTagSize field
// that follows it. A truncated final tag is tolerated.
func walkFLV(data []byte) error {
	if len(data) < 13 || string(data[:3]) != "FLV" || data[3] != 0x01 {
		return fmt.Errorf("flv: missing file header")
	}
	if off := binary.BigEndian.Uint32(data[5:9]); off != 9 {
		return fmt.Errorf("flv: bad data offset %d", off)
	}
	if binary.BigEndian.Uint32(data[9:13]) != 0 {
		return fmt.Errorf("flv: bad first PreviousTagSize")
	}

	pos := 13
	for pos+11 <= len(data) {
		tagType := data[pos] & 0x1f
		if tagType != 8 && tagType != 9 && tagType != 18 {
			return fmt.Errorf("flv: bad tag type %d at offset %d", tagType, pos)
		}
		dataSize := int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		end := pos + 11 + dataSize
		if end+4 > len(data) {
			break
		}
		if prev := binary.BigEndian.Uint32(data[end : end+4]); prev != uint32(11+dataSize) {
			return fmt.Errorf("flv: PreviousTagSize mismatch at offset %d", end)
		}
		pos = end + 4
	}
	return nil
}
