//go:build !linux && !windows
// +build !linux,!windows

package device

import (
	"fmt"
	"io"
	"os"
)

func Open(path string) (*Source, error) {
	f, err := os.Open(ResolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	src := &Source{File: f, Path: path}
	if info.Mode()&os.ModeDevice != 0 {
		src.Raw = true
		// No portable size ioctl here; seeking to the end works for the
		// character devices macOS exposes.
		if size, err := f.Seek(0, io.SeekEnd); err == nil {
			src.Size = size
			f.Seek(0, io.SeekStart)
		}
	} else {
		src.Size = info.Size()
	}
	return src, nil
}
