package valid

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	psStart = iota
	psSeenIHDR
	psSeenIDAT
	psSeenIEND
)

// decodePNG walks the chunk structure of a carved PNG, verifying each
// chunk's CRC and the IHDR/IDAT/IEND ordering rules. Pixel data is hashed
// but never inflated.
func decodePNG(data []byte) error {
	const signature = "\x89PNG\r\n\x1a\n"
	if len(data) < len(signature) || string(data[:len(signature)]) != signature {
		return fmt.Errorf("png: bad signature")
	}

	pos := len(signature)
	stage := psStart
	for stage != psSeenIEND {
		if pos+8 > len(data) {
			return errTruncated("png")
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if length < 0 || pos+8+length+4 > len(data) {
			return errTruncated("png")
		}
		body := data[pos+8 : pos+8+length]
		sum := binary.BigEndian.Uint32(data[pos+8+length : pos+12+length])

		crc := crc32.NewIEEE()
		crc.Write(data[pos+4 : pos+8])
		crc.Write(body)
		if crc.Sum32() != sum {
			return fmt.Errorf("png: invalid %s checksum", typ)
		}

		switch typ {
		case "IHDR":
			if stage != psStart {
				return fmt.Errorf("png: chunk out of order")
			}
			if length != 13 {
				return fmt.Errorf("png: bad IHDR length %d", length)
			}
			stage = psSeenIHDR
		case "IDAT":
			if stage < psSeenIHDR {
				return fmt.Errorf("png: chunk out of order")
			}
			stage = psSeenIDAT
		case "IEND":
			if stage != psSeenIDAT {
				return fmt.Errorf("png: chunk out of order")
			}
			if length != 0 {
				return fmt.Errorf("png: bad IEND length %d", length)
			}
			stage = psSeenIEND
		default:
			if stage == psStart {
				return fmt.Errorf("png: chunk before IHDR")
			}
		}
		pos += 8 + length + 4
	}
	return nil
}
