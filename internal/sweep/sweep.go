// Package sweep recovers media from a still-mounted filesystem by walking
// its tree and collecting files whose leading bytes match a known format.
// It is the fallback for media that is deleted from an index but still
// reachable as files, where a raw carve would be overkill.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rescuefs/rescuer/internal/carve"
	"github.com/rescuefs/rescuer/internal/sig"
)

// sniffLen is how much of a file's head is read to decide its format.
// Every known header fits well within it.
const sniffLen = 512

type Options struct {
	Formats     []*sig.Signature
	MaxFileSize int64 // files larger than this are skipped, 0 means no limit
	Observer    carve.Observer
}

type Result struct {
	Files   int    // files recovered
	Skipped int    // files that matched a format but could not be read or saved
	Bytes   uint64 // bytes recovered
}

// Sweep walks root and writes every recognized media file to snk. Unreadable
// entries are counted and skipped, never fatal: a sweep of a dying disk
// should salvage what it can.
func Sweep(ctx context.Context, root string, snk carve.Sink, opts Options) (Result, error) {
	formats := opts.Formats
	if formats == nil {
		formats = sig.All()
	}
	obs := opts.Observer
	if obs == nil {
		obs = carve.NopObserver{}
	}

	var res Result
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			obs.OnLog(fmt.Sprintf("skipping %s: %v", path, err))
			res.Skipped++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		s := sniff(path, formats)
		if s == nil {
			return nil
		}
		if opts.MaxFileSize > 0 {
			if info, err := d.Info(); err == nil && info.Size() > opts.MaxFileSize {
				obs.OnLog(fmt.Sprintf("skipping %s: larger than the size limit", path))
				res.Skipped++
				return nil
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			obs.OnLog(fmt.Sprintf("failed to read %s: %v", path, err))
			res.Skipped++
			return nil
		}
		if len(data) < s.MinSize {
			return nil
		}

		name, err := snk.Write(carve.Artifact{Data: data, Sig: s})
		if err != nil {
			obs.OnLog(fmt.Sprintf("failed to save %s: %v", path, err))
			res.Skipped++
			return nil
		}
		res.Files++
		res.Bytes += uint64(len(data))
		obs.OnLog(fmt.Sprintf("collected %s as %s (%d bytes)", path, name, len(data)))
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return res, nil
	}
	return res, err
}

// sniff reads the head of the file and returns the format whose header
// starts at byte zero, or nil.
func sniff(path string, formats []*sig.Signature) *sig.Signature {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, _ := f.Read(head)
	if n == 0 {
		return nil
	}
	head = head[:n]

	for _, s := range formats {
		if s.MatchHeader(head, 0) == 0 {
			return s
		}
	}
	return nil
}
