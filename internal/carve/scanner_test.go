package carve_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/carve"
	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/testfix"
	"github.com/rescuefs/rescuer/internal/valid"
)

type saved struct {
	data   []byte
	format string
	offset uint64
}

// collectSink retains artifacts in memory. Write copies, since artifact
// buffers are only valid for the duration of the call.
type collectSink struct {
	files []saved
}

func (s *collectSink) Write(a carve.Artifact) (string, error) {
	s.files = append(s.files, saved{
		data:   append([]byte(nil), a.Data...),
		format: a.Sig.Name,
		offset: a.Offset,
	})
	return fmt.Sprintf("%s_%d", a.Sig.Name, len(s.files)), nil
}

func scanStream(t *testing.T, data []byte, blockSize int) (carve.Result, *collectSink) {
	t.Helper()
	snk := &collectSink{}
	sc := carve.NewScanner(sig.All(), valid.New(valid.Options{Deep: true}), snk, carve.Options{
		BlockSize: blockSize,
	})
	res, err := sc.Scan(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	return res, snk
}

func TestScanner_SingleImageAnySplit(t *testing.T) {
	img := testfix.JPEG(t)
	stream := testfix.Concat(testfix.Filler(53), img, testfix.Filler(41))

	for _, blockSize := range []int{7, 16, 64, 1024, len(stream) + 1} {
		res, snk := scanStream(t, stream, blockSize)
		require.Equal(t, 1, res.Artifacts, "block size %d", blockSize)
		require.Len(t, snk.files, 1)
		require.Equal(t, img, snk.files[0].data, "block size %d", blockSize)
		require.Equal(t, uint64(53), snk.files[0].offset)
	}
}

func TestScanner_AdjacentImagesOneBlock(t *testing.T) {
	png := testfix.PNG(t)
	stream := testfix.Concat(png, png)

	res, snk := scanStream(t, stream, len(stream)+16)
	require.Equal(t, 2, res.Artifacts)
	require.Equal(t, png, snk.files[0].data)
	require.Equal(t, png, snk.files[1].data)
	require.Equal(t, uint64(0), snk.files[0].offset)
	require.Equal(t, uint64(len(png)), snk.files[1].offset)
}

func TestScanner_TruncatedImageDropped(t *testing.T) {
	img := testfix.JPEG(t)
	stream := img[:len(img)-4]

	res, snk := scanStream(t, stream, 64)
	require.Zero(t, res.Artifacts)
	require.Empty(t, snk.files)
}

func TestScanner_ContainerTerminatedByNextHeader(t *testing.T) {
	fixtures := map[string][]byte{
		"mp4": testfix.MP4(300),
		"avi": testfix.AVI(250),
		"mkv": testfix.MKV(150),
		"flv": testfix.FLV(2),
	}
	for name, file := range fixtures {
		stream := testfix.Concat(file, file)
		for _, blockSize := range []int{16, 128, len(stream) + 1} {
			res, snk := scanStream(t, stream, blockSize)
			require.Equal(t, 1, res.Artifacts, "%s block size %d", name, blockSize)
			require.Equal(t, file, snk.files[0].data, "%s block size %d", name, blockSize)
			require.Equal(t, name, snk.files[0].format)
		}
	}
}

func TestScanner_ContainerEndingAtEOFDiscarded(t *testing.T) {
	res, snk := scanStream(t, testfix.MKV(150), 64)
	require.Zero(t, res.Artifacts)
	require.Empty(t, snk.files)
}

func TestScanner_ContainerCapForcesFlush(t *testing.T) {
	capped := *sig.Lookup("mkv")
	capped.MaxSize = 256

	stream := testfix.MKV(600)
	snk := &collectSink{}
	sc := carve.NewScanner([]*sig.Signature{&capped}, valid.New(valid.Options{Deep: true}), snk, carve.Options{
		BlockSize: 50,
	})
	res, err := sc.Scan(context.Background(), bytes.NewReader(stream))
	require.NoError(t, err)

	// The candidate never sees another header; reaching the cap flushes
	// the accumulated bytes best-effort instead of growing unbounded.
	require.Equal(t, 1, res.Artifacts)
	require.Len(t, snk.files, 1)
	flushed := snk.files[0]
	require.Equal(t, uint64(0), flushed.offset)
	require.GreaterOrEqual(t, int64(len(flushed.data)), capped.MaxSize)
	require.Less(t, len(flushed.data), len(stream))
	require.Equal(t, stream[:len(flushed.data)], flushed.data)
}

func TestScanner_MixedStream(t *testing.T) {
	jpg := testfix.JPEG(t)
	png := testfix.PNG(t)
	mp4 := testfix.MP4(300)
	stream := testfix.Concat(
		testfix.Filler(17),
		jpg,
		testfix.Filler(90),
		png,
		mp4, mp4, // second one terminates the first and dies at EOF
	)

	res, snk := scanStream(t, stream, 128)
	require.Equal(t, 3, res.Artifacts)
	require.Equal(t, jpg, snk.files[0].data)
	require.Equal(t, png, snk.files[1].data)
	require.Equal(t, mp4, snk.files[2].data)
	require.Equal(t, uint64(17), snk.files[0].offset)
}

func TestScanner_EmptyStream(t *testing.T) {
	res, snk := scanStream(t, nil, 64)
	require.Zero(t, res.Artifacts)
	require.Zero(t, res.Blocks)
	require.Empty(t, snk.files)
}

func TestScanner_Idempotent(t *testing.T) {
	stream := testfix.Concat(
		testfix.Filler(31),
		testfix.PNG(t),
		testfix.Filler(5),
		testfix.FLV(3), testfix.FLV(1),
	)

	_, first := scanStream(t, stream, 64)
	_, second := scanStream(t, stream, 64)
	require.Equal(t, len(first.files), len(second.files))
	for i := range first.files {
		require.Equal(t, first.files[i].data, second.files[i].data)
	}
}

// cancelReader cancels the context once after is exhausted, mid-stream.
type cancelReader struct {
	r      io.Reader
	cancel context.CancelFunc
	after  int
}

func (c *cancelReader) Read(p []byte) (int, error) {
	if c.after <= 0 {
		c.cancel()
	}
	c.after--
	return c.r.Read(p)
}

func TestScanner_CancelledMidStream(t *testing.T) {
	stream := testfix.Concat(testfix.MP4(300), testfix.Filler(64))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snk := &collectSink{}
	sc := carve.NewScanner(sig.All(), valid.New(valid.Options{Deep: true}), snk, carve.Options{BlockSize: 32})
	res, err := sc.Scan(ctx, &cancelReader{r: bytes.NewReader(stream), cancel: cancel, after: 2})
	require.NoError(t, err)
	require.True(t, res.Cancelled)
	require.Empty(t, snk.files)
	require.Greater(t, res.Blocks, 0)
}

type failSink struct{}

func (failSink) Write(carve.Artifact) (string, error) {
	return "", fmt.Errorf("disk full")
}

func TestScanner_SinkFailureCountsMissed(t *testing.T) {
	sc := carve.NewScanner(sig.All(), valid.New(valid.Options{Deep: true}), failSink{}, carve.Options{BlockSize: 64})
	res, err := sc.Scan(context.Background(), bytes.NewReader(testfix.JPEG(t)))
	require.NoError(t, err)
	require.Zero(t, res.Artifacts)
	require.Equal(t, 1, res.Missed)
}

func TestScanner_ReadErrorSurfaces(t *testing.T) {
	wantErr := fmt.Errorf("device gone")
	r := io.MultiReader(bytes.NewReader(testfix.Filler(64)), &errReader{err: wantErr})

	sc := carve.NewScanner(sig.All(), valid.New(valid.Options{Deep: true}), &collectSink{}, carve.Options{BlockSize: 32})
	res, err := sc.Scan(context.Background(), r)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 2, res.Blocks)
}
