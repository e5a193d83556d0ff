package carve

import "github.com/rescuefs/rescuer/internal/sig"

// candidate is the single in-flight, not-yet-terminated artifact of a scan
// pass. Its buffer owns every pending byte; nothing pending is ever kept
// anywhere else, so terminating a candidate can never duplicate or drop
// bytes at a block boundary.
type candidate struct {
	sig    *sig.Signature
	buf    []byte
	offset uint64 // stream offset of buf[0]
}

func newCandidate(s *sig.Signature, seed []byte, offset uint64) *candidate {
	c := &candidate{sig: s, offset: offset}
	c.buf = append(c.buf, seed...)
	return c
}

func (c *candidate) append(p []byte) {
	c.buf = append(c.buf, p...)
}

// tail returns the last n bytes of the buffer (fewer if the candidate is
// still shorter than n).
func (c *candidate) tail(n int) []byte {
	if len(c.buf) <= n {
		return c.buf
	}
	return c.buf[len(c.buf)-n:]
}
