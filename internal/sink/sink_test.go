package sink_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/carve"
	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/sink"
	"github.com/rescuefs/rescuer/internal/testfix"
)

func TestDirSink_Write(t *testing.T) {
	dir := t.TempDir()

	var notified []string
	s, err := sink.NewDirSink(dir, "rescued", func(name string, a carve.Artifact) {
		notified = append(notified, name)
	})
	require.NoError(t, err)

	img := testfix.JPEG(t)
	name, err := s.Write(carve.Artifact{Data: img, Sig: sig.Lookup("jpeg"), Offset: 4096})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^rescued_\d{8}_\d{6}_[0-9a-f-]{8}\.jpg$`), name)
	require.Equal(t, []string{name}, notified)

	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, img, got)
}

func TestDirSink_UniqueNames(t *testing.T) {
	s, err := sink.NewDirSink(t.TempDir(), "rescued", nil)
	require.NoError(t, err)

	img := testfix.PNG(t)
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		name, err := s.Write(carve.Artifact{Data: img, Sig: sig.Lookup("png")})
		require.NoError(t, err)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestDirSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	_, err := sink.NewDirSink(dir, "rescued", nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestMemSink_CopiesData(t *testing.T) {
	s := &sink.MemSink{}

	data := testfix.MKV(150)
	name, err := s.Write(carve.Artifact{Data: data, Sig: sig.Lookup("mkv"), Offset: 512})
	require.NoError(t, err)
	require.Equal(t, "mkv_000000.mkv", name)

	// Clobbering the caller's buffer must not reach the stored copy.
	stored := append([]byte(nil), s.Files[0].Data...)
	for i := range data {
		data[i] = 0xee
	}
	require.Equal(t, stored, s.Files[0].Data)
	require.Equal(t, uint64(512), s.Files[0].Offset)
}
