package device_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/device"
)

func TestResolvePath(t *testing.T) {
	cases := map[string]string{
		"E:":             `\\.\E:`,
		"c:":             `\\.\c:`,
		`\\.\E:`:         `\\.\E:`,
		"/dev/sdb":       "/dev/sdb",
		"image.dd":       "image.dd",
		"E:/":            "E:/",
		"":               "",
		"9:":             "9:",
		"/tmp/backup.img": "/tmp/backup.img",
	}
	for in, want := range cases {
		require.Equal(t, want, device.ResolvePath(in), "input %q", in)
	}
}

func TestIsRawPath(t *testing.T) {
	require.True(t, device.IsRawPath(`\\.\PhysicalDrive0`))
	require.True(t, device.IsRawPath(`\\.\E:`))
	require.False(t, device.IsRawPath("/dev/sda"))
	require.False(t, device.IsRawPath(`\\.\`))
}
