package sig

import (
	"bytes"
	"encoding/binary"
)

// Signature describes how a single file format is recognized inside a raw
// byte stream: how its header is located, how the artifact ends, and which
// sizes are plausible for it.
//
// A Signature carries no mutable state; all matching functions are pure.
type Signature struct {
	Name string // format identifier, e.g. "jpeg"
	Ext  string // extension used when saving, e.g. "jpg"

	// Container formats have no reliable footer; they terminate at the
	// next occurrence of their own header, or at MaxSize.
	Container bool

	MinSize int   // smallest plausible artifact
	MaxSize int64 // hard cap; candidates reaching it are force-flushed

	header    func(window []byte, from int) int
	headerLen int
	footer    []byte
}

// HeaderLen returns the number of bytes the header pattern spans in the
// stream. For structural matchers (MP4, AVI) this includes the size field.
func (s *Signature) HeaderLen() int { return s.headerLen }

// Footer returns the fixed footer pattern, or nil for container formats.
func (s *Signature) Footer() []byte { return s.footer }

// MatchHeader returns the offset of the first header occurrence at or after
// from, or -1.
func (s *Signature) MatchHeader(window []byte, from int) int {
	if from < 0 || from >= len(window) {
		return -1
	}
	return s.header(window, from)
}

// FindTerminator returns the exclusive end offset of an artifact that
// started before window[from], or -1 if no terminator occurs in window.
// For image formats the terminator is the fixed footer: the returned offset
// points just past it. For container formats it is the offset of the next
// same-format header, which belongs to the following artifact.
func (s *Signature) FindTerminator(window []byte, from int) int {
	if s.Container {
		return s.MatchHeader(window, from)
	}
	if from < 0 || from > len(window) {
		return -1
	}
	idx := bytes.Index(window[from:], s.footer)
	if idx < 0 {
		return -1
	}
	return from + idx + len(s.footer)
}

func fixedPattern(pat []byte) func(window []byte, from int) int {
	return func(window []byte, from int) int {
		idx := bytes.Index(window[from:], pat)
		if idx < 0 {
			return -1
		}
		return from + idx
	}
}

const (
	// Upper bound for the size field of the box holding "ftyp". Real ftyp
	// boxes are a few dozen bytes; anything above this is a coincidental
	// byte run, not an MP4 header.
	mp4MaxBoxSize = 1 << 20

	aviMinRIFFSize = 12
	aviMaxRIFFSize = 10 << 30
)

var ftyp = []byte("ftyp")

// matchMP4 locates an MP4/MOV file start: the literal "ftyp" preceded by a
// 4-byte big-endian box size in [8, mp4MaxBoxSize]. The returned offset is
// the start of the box (4 bytes before "ftyp").
func matchMP4(window []byte, from int) int {
	i := from + 4
	for i+4 <= len(window) {
		j := bytes.Index(window[i:], ftyp)
		if j < 0 {
			return -1
		}
		p := i + j
		size := binary.BigEndian.Uint32(window[p-4 : p])
		if size >= 8 && size <= mp4MaxBoxSize {
			return p - 4
		}
		i = p + 4
	}
	return -1
}

var (
	riffMagic = []byte("RIFF")
	aviMagic  = []byte("AVI ")
)

// matchAVI locates an AVI file start: "RIFF", a 4-byte little-endian size in
// [aviMinRIFFSize, aviMaxRIFFSize], then the "AVI " subtype literal.
func matchAVI(window []byte, from int) int {
	i := from
	for {
		j := bytes.Index(window[i:], riffMagic)
		if j < 0 {
			return -1
		}
		p := i + j
		if p+12 > len(window) {
			// Too close to the window end to verify; the carry window
			// ensures the full pattern is seen again next iteration.
			return -1
		}
		size := int64(binary.LittleEndian.Uint32(window[p+4 : p+8]))
		if size >= aviMinRIFFSize && size <= aviMaxRIFFSize &&
			bytes.Equal(window[p+8:p+12], aviMagic) {
			return p
		}
		i = p + 4
	}
}

var (
	jpegSig = &Signature{
		Name:      "jpeg",
		Ext:       "jpg",
		MinSize:   64,
		MaxSize:   256 << 20,
		header:    fixedPattern([]byte{0xFF, 0xD8}),
		headerLen: 2,
		footer:    []byte{0xFF, 0xD9},
	}

	pngSig = &Signature{
		Name:      "png",
		Ext:       "png",
		MinSize:   67,
		MaxSize:   256 << 20,
		header:    fixedPattern([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}),
		headerLen: 8,
		footer:    []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82},
	}

	mp4Sig = &Signature{
		Name:      "mp4",
		Ext:       "mp4",
		Container: true,
		MinSize:   200,
		MaxSize:   2 << 30,
		header:    matchMP4,
		headerLen: 8,
	}

	aviSig = &Signature{
		Name:      "avi",
		Ext:       "avi",
		Container: true,
		MinSize:   200,
		MaxSize:   2 << 30,
		header:    matchAVI,
		headerLen: 12,
	}

	mkvSig = &Signature{
		Name:      "mkv",
		Ext:       "mkv",
		Container: true,
		MinSize:   128,
		MaxSize:   2 << 30,
		header:    fixedPattern([]byte{0x1A, 0x45, 0xDF, 0xA3}),
		headerLen: 4,
	}

	flvSig = &Signature{
		Name:      "flv",
		Ext:       "flv",
		Container: true,
		MinSize:   64,
		MaxSize:   2 << 30,
		header:    fixedPattern([]byte{'F', 'L', 'V', 0x01}),
		headerLen: 4,
	}
)

// Images returns the signature catalog for the image scan pass. The slice
// order is the fixed priority used to break equal-offset ties.
func Images() []*Signature {
	return []*Signature{jpegSig, pngSig}
}

// Containers returns the catalog for the video scan pass.
func Containers() []*Signature {
	return []*Signature{mp4Sig, aviSig, mkvSig, flvSig}
}

// All returns every supported signature.
func All() []*Signature {
	return append(Images(), Containers()...)
}

// Lookup returns the signature with the given name, or nil.
func Lookup(name string) *Signature {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// MaxPatternLen returns the longest pattern (header or footer) across sigs.
// The carry window retained between blocks is sized from this value so that
// neither a header nor a terminator is missed because it straddles two
// blocks.
func MaxPatternLen(sigs []*Signature) int {
	n := 0
	for _, s := range sigs {
		if s.headerLen > n {
			n = s.headerLen
		}
		if len(s.footer) > n {
			n = len(s.footer)
		}
	}
	return n
}

// FindEarliest returns the signature whose header occurs earliest in window
// at or after from, together with its offset. Equal offsets resolve to the
// signature listed first in sigs. Returns (nil, -1) when nothing matches.
func FindEarliest(window []byte, from int, sigs []*Signature) (*Signature, int) {
	var best *Signature
	bestOff := -1
	for _, s := range sigs {
		off := s.MatchHeader(window, from)
		if off >= 0 && (bestOff < 0 || off < bestOff) {
			best, bestOff = s, off
		}
	}
	return best, bestOff
}
