package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/pkg/util/format"
)

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:                   "0B",
		512:                 "512B",
		1024:                "1KB",
		1536:                "1.50KB",
		32 * 1024 * 1024:    "32MB",
		2 << 30:             "2GB",
		3 * (1 << 40):       "3TB",
		5*(1<<20) + (1<<19): "5.50MB",
	}
	for in, want := range cases {
		require.Equal(t, want, format.FormatBytes(in), "input %d", in)
	}
}

func TestParseBytes(t *testing.T) {
	cases := map[string]uint64{
		"512":    512,
		"512B":   512,
		"4KB":    4 << 10,
		"4kb":    4 << 10,
		" 32MB ": 32 << 20,
		"2GB":    2 << 30,
		"1TB":    1 << 40,
		"1.5KB":  1536,
		"0":      0,
	}
	for in, want := range cases {
		got, err := format.ParseBytes(in)
		require.NoError(t, err, "input %q", in)
		require.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "abc", "-4KB", "KB"} {
		_, err := format.ParseBytes(in)
		require.Error(t, err, "input %q", in)
	}
}
