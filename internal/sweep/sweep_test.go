package sweep_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/sink"
	"github.com/rescuefs/rescuer/internal/sweep"
	"github.com/rescuefs/rescuer/internal/testfix"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestSweep_CollectsMediaFiles(t *testing.T) {
	root := t.TempDir()
	jpg := testfix.JPEG(t)
	mp4 := testfix.MP4(300)

	writeFile(t, root, "DCIM/100/photo.dat", jpg)
	writeFile(t, root, "videos/clip.bin", mp4)
	writeFile(t, root, "notes.txt", []byte("not a media file"))
	writeFile(t, root, "empty", nil)

	snk := &sink.MemSink{}
	res, err := sweep.Sweep(context.Background(), root, snk, sweep.Options{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Files)
	require.Equal(t, uint64(len(jpg)+len(mp4)), res.Bytes)
	require.Len(t, snk.Files, 2)

	byFormat := map[string][]byte{}
	for _, f := range snk.Files {
		byFormat[f.Format] = f.Data
	}
	require.Equal(t, jpg, byFormat["jpeg"])
	require.Equal(t, mp4, byFormat["mp4"])
}

func TestSweep_FormatFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", testfix.JPEG(t))
	writeFile(t, root, "b.png", testfix.PNG(t))

	snk := &sink.MemSink{}
	res, err := sweep.Sweep(context.Background(), root, snk, sweep.Options{
		Formats: []*sig.Signature{sig.Lookup("png")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Files)
	require.Equal(t, "png", snk.Files[0].Format)
}

func TestSweep_SizeLimit(t *testing.T) {
	root := t.TempDir()
	mkv := testfix.MKV(4096)
	writeFile(t, root, "big.mkv", mkv)

	snk := &sink.MemSink{}
	res, err := sweep.Sweep(context.Background(), root, snk, sweep.Options{
		MaxFileSize: 1024,
	})
	require.NoError(t, err)
	require.Zero(t, res.Files)
	require.Equal(t, 1, res.Skipped)
}

func TestSweep_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", testfix.JPEG(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snk := &sink.MemSink{}
	res, err := sweep.Sweep(ctx, root, snk, sweep.Options{})
	require.NoError(t, err)
	require.Zero(t, res.Files)
}
