package valid

import (
	"bytes"
	"fmt"

	"github.com/rescuefs/rescuer/internal/sig"
)

// Decoder walks a complete artifact buffer and reports the first structural
// fault it finds. A nil return means the buffer decodes as its format.
type Decoder func(data []byte) error

// pngFooterWindow bounds how far from the end of the buffer the PNG footer
// may sit. Encoders are allowed a little trailing slack after IEND, but a
// footer buried deeper than this marks a mis-carved candidate.
const pngFooterWindow = 100

type Options struct {
	// Deep disables the per-format decode pass when false, leaving only
	// the header, footer and size checks.
	Deep bool
}

// Validator gates candidates between the carving pass and the sink. The
// cheap structural checks always run; the per-format decoders run only in
// deep mode.
type Validator struct {
	deep     bool
	decoders map[string]Decoder
}

func New(opts Options) *Validator {
	return &Validator{
		deep: opts.Deep,
		decoders: map[string]Decoder{
			"jpeg": decodeJPEG,
			"png":  decodePNG,
			"mp4":  walkMP4,
			"avi":  walkAVI,
			"mkv":  walkMKV,
			"flv":  walkFLV,
		},
	}
}

// Validate reports whether data is a well-formed instance of s. A decoder
// panic counts as a validation failure, never a crash.
func (v *Validator) Validate(data []byte, s *sig.Signature) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if len(data) < s.MinSize {
		return false
	}
	if s.MatchHeader(data, 0) != 0 {
		return false
	}
	if footer := s.Footer(); footer != nil {
		if !footerInTail(data, footer, s.Name) {
			return false
		}
	}
	if !v.deep {
		return true
	}
	dec, has := v.decoders[s.Name]
	if !has {
		return true
	}
	return dec(data) == nil
}

// footerInTail checks the footer placement rule for image formats. JPEG
// carves end exactly on the EOI marker; PNG carves may carry a few bytes of
// encoder slack after the IEND chunk.
func footerInTail(data, footer []byte, name string) bool {
	if name == "png" {
		tail := data
		if len(tail) > pngFooterWindow {
			tail = tail[len(tail)-pngFooterWindow:]
		}
		return bytes.Contains(tail, footer)
	}
	return bytes.HasSuffix(data, footer)
}

func errTruncated(format string) error {
	return fmt.Errorf("%s: truncated stream", format)
}
