package sig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/testfix"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"jpeg", "png", "mp4", "avi", "mkv", "flv"} {
		s := sig.Lookup(name)
		require.NotNil(t, s, name)
		require.Equal(t, name, s.Name)
	}
	require.Nil(t, sig.Lookup("gif"))
}

func TestMatchHeader_FixedPatterns(t *testing.T) {
	window := testfix.Concat(testfix.Filler(10), testfix.PNG(t))
	require.Equal(t, 10, sig.Lookup("png").MatchHeader(window, 0))
	require.Equal(t, 10, sig.Lookup("png").MatchHeader(window, 10))
	require.Equal(t, -1, sig.Lookup("png").MatchHeader(window, 11))
}

func TestMatchHeader_MP4(t *testing.T) {
	s := sig.Lookup("mp4")

	window := testfix.Concat(testfix.Filler(7), testfix.MP4(250))
	require.Equal(t, 7, s.MatchHeader(window, 0))

	// A bare "ftyp" with an implausible box size in front of it is a
	// coincidental byte run, not a header.
	bogus := testfix.Concat([]byte{0xff, 0xff, 0xff, 0xff}, []byte("ftyp"), testfix.Filler(16))
	require.Equal(t, -1, s.MatchHeader(bogus, 0))

	// The bogus run must not mask a real header further on.
	window = testfix.Concat(bogus, testfix.MP4(250))
	require.Equal(t, len(bogus), s.MatchHeader(window, 0))
}

func TestMatchHeader_AVI(t *testing.T) {
	s := sig.Lookup("avi")

	window := testfix.Concat(testfix.Filler(5), testfix.AVI(200))
	require.Equal(t, 5, s.MatchHeader(window, 0))

	// "RIFF" with a WAVE subtype is a different format.
	wav := testfix.Concat([]byte("RIFF"), []byte{0x24, 0x00, 0x00, 0x00}, []byte("WAVE"), testfix.Filler(16))
	require.Equal(t, -1, s.MatchHeader(wav, 0))

	// A header cut off by the window end is not matched; the carry window
	// re-presents it next block.
	cut := testfix.AVI(200)[:10]
	require.Equal(t, -1, s.MatchHeader(cut, 0))
}

func TestFindTerminator_Image(t *testing.T) {
	img := testfix.JPEG(t)
	window := testfix.Concat(img, testfix.Filler(20))

	s := sig.Lookup("jpeg")
	require.Equal(t, len(img), s.FindTerminator(window, s.HeaderLen()))
	require.Equal(t, -1, s.FindTerminator(img[:len(img)-1], s.HeaderLen()))
}

func TestFindTerminator_Container(t *testing.T) {
	file := testfix.MKV(150)
	window := testfix.Concat(file, file)

	s := sig.Lookup("mkv")
	require.Equal(t, len(file), s.FindTerminator(window, s.HeaderLen()))
	require.Equal(t, -1, s.FindTerminator(file, s.HeaderLen()))
}

func TestFindEarliest(t *testing.T) {
	window := testfix.Concat(testfix.Filler(30), testfix.PNG(t), testfix.Filler(10), testfix.MP4(250))

	s, off := sig.FindEarliest(window, 0, sig.All())
	require.Equal(t, "png", s.Name)
	require.Equal(t, 30, off)

	s, off = sig.FindEarliest(window, 31, sig.All())
	require.Equal(t, "mp4", s.Name)
	require.Equal(t, 30+len(testfix.PNG(t))+10, off)

	s, off = sig.FindEarliest(window, 0, nil)
	require.Nil(t, s)
	require.Equal(t, -1, off)
}

func TestMaxPatternLen(t *testing.T) {
	require.Equal(t, 8, sig.MaxPatternLen(sig.Images()))
	require.Equal(t, 12, sig.MaxPatternLen(sig.All()))
}
