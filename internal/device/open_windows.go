//go:build windows
// +build windows

package device

import (
	"fmt"
	"io"
	"os"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const ioctlDiskGetLengthInfo = 0x0007405c

// rawVolume reads a Windows raw volume or physical drive. Raw handles
// require sector-aligned positioned reads, so ReadAt over-reads to the
// enclosing sector boundary and copies out the requested span.
type rawVolume struct {
	handle windows.Handle
	path   string
	offset int64
}

func openRaw(path string) (*rawVolume, error) {
	handle, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return &rawVolume{handle: handle, path: path}, nil
}

func (v *rawVolume) Read(p []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(v.handle, p, &n, nil)
	if err != nil {
		return int(n), err
	}
	if n == 0 {
		return 0, io.EOF
	}
	v.offset += int64(n)
	return int(n), nil
}

func (v *rawVolume) ReadAt(p []byte, off int64) (int, error) {
	const sectorSize = 512

	alignedOff := off / sectorSize * sectorSize
	skew := int(off - alignedOff)
	alignedLen := (len(p) + skew + sectorSize - 1) / sectorSize * sectorSize
	buf := make([]byte, alignedLen)

	var n uint32
	ov := &windows.Overlapped{
		Offset:     uint32(alignedOff),
		OffsetHigh: uint32(alignedOff >> 32),
	}
	err := windows.ReadFile(v.handle, buf, &n, ov)
	if err == syscall.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(v.handle, ov, &n, true)
	}
	if err != nil {
		return 0, fmt.Errorf("aligned read at %d failed: %w", alignedOff, err)
	}
	if int(n) <= skew {
		return 0, io.EOF
	}
	return copy(p, buf[skew:n]), nil
}

func (v *rawVolume) size() (int64, error) {
	var length int64
	var n uint32
	err := windows.DeviceIoControl(
		v.handle,
		ioctlDiskGetLengthInfo,
		nil,
		0,
		(*byte)(unsafe.Pointer(&length)),
		uint32(unsafe.Sizeof(length)),
		&n,
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("DeviceIoControl(IOCTL_DISK_GET_LENGTH_INFO) failed: %w", err)
	}
	return length, nil
}

func (v *rawVolume) Stat() (os.FileInfo, error) {
	size, err := v.size()
	if err != nil {
		return nil, err
	}
	return &rawVolumeInfo{name: v.path, size: size}, nil
}

func (v *rawVolume) Close() error {
	return windows.CloseHandle(v.handle)
}

type rawVolumeInfo struct {
	name string
	size int64
}

func (fi *rawVolumeInfo) Name() string       { return fi.name }
func (fi *rawVolumeInfo) Size() int64        { return fi.size }
func (fi *rawVolumeInfo) Mode() os.FileMode  { return os.ModeDevice }
func (fi *rawVolumeInfo) ModTime() time.Time { return time.Time{} }
func (fi *rawVolumeInfo) IsDir() bool        { return false }
func (fi *rawVolumeInfo) Sys() interface{}   { return nil }

func Open(path string) (*Source, error) {
	resolved := ResolvePath(path)
	if IsRawPath(resolved) {
		v, err := openRaw(resolved)
		if err != nil {
			return nil, err
		}
		src := &Source{File: v, Path: path, Raw: true}
		if size, err := v.size(); err == nil {
			src.Size = size
		}
		return src, nil
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return &Source{File: f, Path: path, Size: info.Size()}, nil
}
