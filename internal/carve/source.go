package carve

import (
	"context"
	"io"
)

// DefaultBlockSize is the read unit for raw devices, matching the largest
// transfer most USB bridges handle without splitting.
const DefaultBlockSize = 32 * 1024 * 1024

// MaxEmptyReads is how many consecutive zero-byte reads are tolerated
// before the stream is treated as exhausted. Some removable devices return
// transient short reads near the end of the medium; giving up on the first
// one would lose data.
const MaxEmptyReads = 100

// BlockSource yields sequential fixed-size blocks from an underlying
// stream. The returned slice aliases an internal buffer and is only valid
// until the next call to Next.
type BlockSource struct {
	r       io.Reader
	buf     []byte
	empties int
	err     error
}

func NewBlockSource(r io.Reader, blockSize int) *BlockSource {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &BlockSource{r: r, buf: make([]byte, blockSize)}
}

// Next returns the next block of data, io.EOF once the stream is exhausted,
// or the read error that ended the scan. Cancellation is polled before and
// after every read so that a cancelled scan never starts another device
// read.
func (b *BlockSource) Next(ctx context.Context) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := b.r.Read(b.buf)
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if n > 0 {
			b.empties = 0
			if err == io.EOF {
				b.err = io.EOF
			} else if err != nil {
				b.err = err
			}
			return b.buf[:n], nil
		}
		if err != nil {
			b.err = err
			return nil, err
		}
		b.empties++
		if b.empties >= MaxEmptyReads {
			b.err = io.EOF
			return nil, io.EOF
		}
	}
}
