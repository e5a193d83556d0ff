// Package mountfs exposes the artifacts recorded in a carve report as a
// read-only FUSE filesystem backed by the original image. Nothing is
// copied: each file is served straight from its byte run in the image, so
// recovered media can be browsed before committing disk space to it.
package mountfs

import (
	"fmt"

	"github.com/rescuefs/rescuer/internal/report"
)

// Entry is one recovered file to serve: a named span of the image.
type Entry struct {
	Name   string
	Offset uint64 // position in the scanned image
	Size   uint64
}

// FromReport converts carve report file objects into servable entries. The
// image offset comes from the first byte run; artifacts are carved in one
// contiguous span.
func FromReport(objects []report.FileObject) ([]Entry, error) {
	entries := make([]Entry, len(objects))
	for i, obj := range objects {
		runs := obj.ByteRuns.Runs
		if len(runs) < 1 {
			return nil, fmt.Errorf("file object %q has no byte runs", obj.Filename)
		}
		entries[i] = Entry{
			Name:   obj.Filename,
			Offset: runs[0].ImgOffset,
			Size:   runs[0].Length,
		}
	}
	return entries, nil
}
