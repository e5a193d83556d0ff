package carve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rescuefs/rescuer/internal/sig"
)

// Validator decides whether a terminated candidate is a well-formed
// artifact. Implementations must never panic across this boundary; a
// collaborator fault is a validation failure, not a crash.
type Validator interface {
	Validate(data []byte, s *sig.Signature) bool
}

// Artifact is a validated, complete artifact handed to a Sink. Data may
// alias an internal scan buffer and is only valid for the duration of the
// Write call; sinks that retain it must copy.
type Artifact struct {
	Data   []byte
	Sig    *sig.Signature
	Offset uint64 // stream offset of the first artifact byte
}

// Sink persists a validated artifact under a collision-free name and
// returns that name.
type Sink interface {
	Write(a Artifact) (string, error)
}

// Result reports the terminal counters of one scan pass. Counters are
// monotonic for the duration of the scan.
type Result struct {
	Artifacts int    // artifacts validated and written
	Missed    int    // validated artifacts the sink failed to persist
	Blocks    int    // blocks read
	Bytes     uint64 // bytes read
	Cancelled bool
}

type Options struct {
	BlockSize int
	Observer  Observer
}

// Scanner drives one carving pass over a sequential stream. All scan state
// (carry window, live candidate, counters) lives on the instance; a Scanner
// owns its stream for the duration of Scan and must not be shared between
// concurrent scans.
//
// At most one candidate is live at any instant. A second header appearing
// before the live candidate resolves is deferred, not tracked in parallel.
type Scanner struct {
	sigs      []*sig.Signature
	valid     Validator
	sink      Sink
	obs       Observer
	blockSize int
	carryLen  int

	carry []byte
	cand  *candidate
	res   Result
}

func NewScanner(sigs []*sig.Signature, v Validator, snk Sink, opts Options) *Scanner {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Scanner{
		sigs:      sigs,
		valid:     v,
		sink:      snk,
		obs:       obs,
		blockSize: blockSize,
		carryLen:  sig.MaxPatternLen(sigs) - 1,
	}
}

// Scan consumes r until exhaustion, cancellation, or a read error.
// Cancellation is a normal terminal outcome: the partial counters are
// returned with Result.Cancelled set and a nil error. Corrupted input never
// surfaces as an error; it only ever fails validation.
func (sc *Scanner) Scan(ctx context.Context, r io.Reader) (Result, error) {
	sc.carry = nil
	sc.cand = nil
	sc.res = Result{}

	src := NewBlockSource(r, sc.blockSize)
	for {
		block, err := src.Next(ctx)
		switch {
		case err == io.EOF:
			sc.finish()
			sc.obs.OnProgress(sc.res.Artifacts, sc.res.Blocks)
			return sc.res, nil
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			if sc.cand != nil {
				sc.obs.OnLog(fmt.Sprintf("cancelled: discarding unterminated %s candidate", sc.cand.sig.Name))
				sc.cand = nil
			}
			sc.res.Cancelled = true
			return sc.res, nil
		case err != nil:
			sc.obs.OnLog(fmt.Sprintf("read error after %d blocks: %v", sc.res.Blocks, err))
			sc.cand = nil
			return sc.res, err
		}

		sc.res.Blocks++
		sc.res.Bytes += uint64(len(block))
		sc.processBlock(block)
		sc.obs.OnProgress(sc.res.Artifacts, sc.res.Blocks)
	}
}

func (sc *Scanner) processBlock(block []byte) {
	if sc.cand != nil {
		rest, resolved := sc.advance(block)
		if !resolved {
			return
		}
		sc.seek(rest, sc.res.Bytes-uint64(len(rest)))
		return
	}

	window := block
	base := sc.res.Bytes - uint64(len(block)) - uint64(len(sc.carry))
	if len(sc.carry) > 0 {
		window = make([]byte, 0, len(sc.carry)+len(block))
		window = append(window, sc.carry...)
		window = append(window, block...)
	}
	sc.carry = nil
	sc.seek(window, base)
}

// seek scans window for complete artifacts, emitting each one found and
// seeding the live candidate from the first unterminated header. base is
// the stream offset of window[0].
func (sc *Scanner) seek(window []byte, base uint64) {
	pos := 0
	for {
		s, off := sig.FindEarliest(window, pos, sc.sigs)
		if s == nil {
			sc.setCarry(window, pos)
			return
		}
		end := s.FindTerminator(window, off+s.HeaderLen())
		if end >= 0 {
			// Complete artifact inside this window. For containers, end is
			// the start of the next same-format header and the loop picks
			// it up on the next pass.
			sc.emit(window[off:end], s, base+uint64(off))
			pos = end
			continue
		}
		sc.cand = newCandidate(s, window[off:], base+uint64(off))
		sc.carry = nil
		return
	}
}

// advance feeds a new block to the live candidate. It returns the
// unconsumed suffix of the block and true once the candidate resolved
// (terminated or force-flushed); while still accumulating it returns
// (nil, false).
//
// The terminator search runs over the candidate's own trailing bytes plus
// the new block, so a terminator straddling the block boundary is found
// without ever holding a pending byte in two places.
func (sc *Scanner) advance(block []byte) ([]byte, bool) {
	c := sc.cand
	overlap := c.tail(sc.carryLen)
	search := make([]byte, 0, len(overlap)+len(block))
	search = append(search, overlap...)
	search = append(search, block...)

	var end int // exclusive end of this candidate within search
	if c.sig.Container {
		h := c.sig.MatchHeader(search, 0)
		if h >= 0 && len(c.buf)-len(overlap)+h == 0 {
			// Matched the candidate's own header; look past it.
			h = c.sig.MatchHeader(search, h+1)
		}
		end = h
	} else {
		end = c.sig.FindTerminator(search, 0)
	}

	if end >= 0 {
		cut := end - len(overlap)
		var rest []byte
		if cut >= 0 {
			c.append(block[:cut])
			rest = block[cut:]
		} else {
			// The next header starts inside the candidate's trailing
			// bytes: give them back to the stream.
			keep := len(c.buf) + cut
			rest = make([]byte, 0, -cut+len(block))
			rest = append(rest, c.buf[keep:]...)
			rest = append(rest, block...)
			c.buf = c.buf[:keep]
		}
		sc.emit(c.buf, c.sig, c.offset)
		sc.cand = nil
		return rest, true
	}

	if int64(len(c.buf))+int64(len(block)) >= c.sig.MaxSize {
		c.append(block)
		sc.obs.OnLog(fmt.Sprintf("%s candidate reached its %d byte cap, flushing", c.sig.Name, c.sig.MaxSize))
		sc.emit(c.buf, c.sig, c.offset)
		sc.cand = nil
		return nil, true
	}

	c.append(block)
	return nil, false
}

// finish resolves the live candidate at end of stream. An image candidate
// may still be a complete artifact if its footer is already in place;
// validation decides. A container candidate that never saw a closing header
// is an ambiguous truncation and is never salvaged.
func (sc *Scanner) finish() {
	c := sc.cand
	if c == nil {
		return
	}
	sc.cand = nil
	if c.sig.Container {
		sc.obs.OnLog(fmt.Sprintf("stream ended inside %s candidate, discarding %d unterminated bytes", c.sig.Name, len(c.buf)))
		return
	}
	sc.emit(c.buf, c.sig, c.offset)
}

func (sc *Scanner) emit(data []byte, s *sig.Signature, off uint64) {
	if !sc.valid.Validate(data, s) {
		sc.obs.OnLog(fmt.Sprintf("dropping invalid %s candidate at offset %d (%d bytes)", s.Name, off, len(data)))
		return
	}
	name, err := sc.sink.Write(Artifact{Data: data, Sig: s, Offset: off})
	if err != nil {
		sc.res.Missed++
		sc.obs.OnLog(fmt.Sprintf("failed to save %s artifact: %v", s.Name, err))
		return
	}
	sc.res.Artifacts++
	sc.obs.OnLog(fmt.Sprintf("recovered %s (%d bytes)", name, len(data)))
	sc.obs.OnProgress(sc.res.Artifacts, sc.res.Blocks)
}

func (sc *Scanner) setCarry(window []byte, pos int) {
	tail := window[pos:]
	if len(tail) > sc.carryLen {
		tail = tail[len(tail)-sc.carryLen:]
	}
	sc.carry = append([]byte(nil), tail...)
}
