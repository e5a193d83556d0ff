package device

import (
	"errors"
	"io"
	"os"
)

// ErrUnsupported is returned by List on platforms without device
// enumeration support.
var ErrUnsupported = errors.New("device enumeration is not supported on this platform")

// File is the read surface the carving engine needs from an opened device
// or image.
type File interface {
	io.ReadCloser
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// Info describes one enumerable block device.
type Info struct {
	Path string
	Size int64 // bytes, 0 when unknown
}

// Source is an opened carving target: a raw block device, a partition, or
// a disk image file.
type Source struct {
	File File
	Path string
	Size int64 // bytes, 0 when the medium does not report one
	Raw  bool  // Path refers to a block device, not a regular file
}

func (s *Source) Close() error { return s.File.Close() }
