//go:build linux
// +build linux

package device

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open opens a block device or image file for sequential carving. Device
// sizes come from the BLKGETSIZE64 ioctl; stat sizes on device nodes are
// meaningless.
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
		if size, err := unix.IoctlGetInt(int(f.Fd()), unix.BLKGETSIZE64); err == nil {
			src.Size = int64(size)
		}
	} else {
		src.Size = info.Size()
	}
	return src, nil
}
