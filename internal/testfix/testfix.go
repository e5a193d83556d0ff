// Package testfix builds small well-formed media fixtures for tests.
// Images come from the standard library encoders; containers are assembled
// by hand at the box/chunk level.
package testfix

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// JPEG returns a baseline JPEG a few hundred bytes long. Entropy-coded data
// is byte-stuffed by the encoder, so the only FF D9 sequence is the final
// End Of Image marker.
func JPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(), nil); err != nil {
		t.Fatalf("encode jpeg fixture: %v", err)
	}
	return buf.Bytes()
}

// PNG returns a small PNG ending in an IEND chunk.
func PNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 0x80, A: 0xff})
		}
	}
	return img
}

// MP4 returns an ftyp box followed by an mdat box with payload zero bytes
// of media data.
func MP4(payload int) []byte {
	var buf bytes.Buffer
	writeBE32 := func(v uint32) {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	writeBE32(24)
	buf.WriteString("ftyp")
	buf.WriteString("isom")
	writeBE32(0x200)
	buf.WriteString("isom")
	buf.WriteString("mp41")

	writeBE32(uint32(8 + payload))
	buf.WriteString("mdat")
	buf.Write(make([]byte, payload))
	return buf.Bytes()
}

// AVI returns a RIFF/AVI shell with a single LIST chunk of payload zero
// bytes. payload must be even to keep the chunk word-aligned.
func AVI(payload int) []byte {
	var buf bytes.Buffer
	writeLE32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	buf.WriteString("RIFF")
	writeLE32(uint32(4 + 8 + 4 + payload))
	buf.WriteString("AVI ")
	buf.WriteString("LIST")
	writeLE32(uint32(4 + payload))
	buf.WriteString("hdrl")
	buf.Write(make([]byte, payload))
	return buf.Bytes()
}

// MKV returns an EBML header followed by a Segment of unknown size holding
// payload zero bytes.
func MKV(payload int) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x1a, 0x45, 0xdf, 0xa3})
	buf.WriteByte(0x84) // header size 4
	buf.Write([]byte{0x42, 0x86, 0x81, 0x01})
	buf.Write([]byte{0x18, 0x53, 0x80, 0x67})
	buf.Write([]byte{0x01, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	buf.Write(make([]byte, payload))
	return buf.Bytes()
}

// FLV returns an FLV header followed by tags video tags of 64 zero bytes
// each.
func FLV(tags int) []byte {
	var buf bytes.Buffer
	buf.WriteString("FLV")
	buf.WriteByte(0x01)
	buf.WriteByte(0x05)
	buf.Write([]byte{0, 0, 0, 9})
	buf.Write([]byte{0, 0, 0, 0})
	const dataSize = 64
	for i := 0; i < tags; i++ {
		buf.WriteByte(9)
		buf.Write([]byte{0, 0, dataSize})
		buf.Write([]byte{0, 0, 0, 0}) // timestamp
		buf.Write([]byte{0, 0, 0})    // stream id
		buf.Write(make([]byte, dataSize))
		var prev [4]byte
		binary.BigEndian.PutUint32(prev[:], 11+dataSize)
		buf.Write(prev[:])
	}
	return buf.Bytes()
}

// Filler returns n bytes that match no known header or footer pattern.
func Filler(n int) []byte {
	return make([]byte, n)
}

// Concat joins stream segments into one buffer.
func Concat(parts ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(p)
	}
	return buf.Bytes()
}
