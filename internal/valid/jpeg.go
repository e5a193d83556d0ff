package valid

import "fmt"

const (
	rst0Marker = 0xd0 // ReSTart (0)
	rst7Marker = 0xd7 // ReSTart (7)
	eoiMarker  = 0xd9 // End Of Image
	temMarker  = 0x01 // TEMporary, standalone
)

// decodeJPEG walks the segment structure of a carved JPEG. It mirrors the
// marker scan of the standard library's image/jpeg decoder, with libjpeg's
// leniency toward extraneous non-marker bytes and fill bytes, but it never
// decodes pixel data: the walk only has to reach the End Of Image marker
// without tripping over a malformed segment.
func decodeJPEG(data []byte) error {
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		return fmt.Errorf("jpeg: missing SOI marker")
	}

	pos := 2
	for {
		if pos+2 > len(data) {
			return errTruncated("jpeg")
		}
		// Extraneous data before a marker is silently skipped, the way
		// libjpeg's next_marker does.
		for data[pos] != 0xff {
			pos++
			if pos+2 > len(data) {
				return errTruncated("jpeg")
			}
		}
		marker := data[pos+1]
		pos += 2
		if marker == 0 {
			// Byte-stuffed 0xff inside entropy-coded data.
			continue
		}
		for marker == 0xff {
			// Fill bytes may precede any marker.
			if pos >= len(data) {
				return errTruncated("jpeg")
			}
			marker = data[pos]
			pos++
		}
		if marker == eoiMarker {
			return nil
		}
		if rst0Marker <= marker && marker <= rst7Marker || marker == temMarker {
			// Standalone markers carry no length field.
			continue
		}

		if pos+2 > len(data) {
			return errTruncated("jpeg")
		}
		n := int(data[pos])<<8 + int(data[pos+1]) - 2
		if n < 0 {
			return fmt.Errorf("jpeg: short segment length")
		}
		pos += 2 + n
		if pos > len(data) {
			return errTruncated("jpeg")
		}
	}
}
