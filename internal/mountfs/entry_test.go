package mountfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/mountfs"
	"github.com/rescuefs/rescuer/internal/report"
)

func TestFromReport(t *testing.T) {
	objects := []report.FileObject{
		{
			Filename: "rescued_a.jpg",
			FileSize: 1000,
			ByteRuns: report.ByteRuns{Runs: []report.ByteRun{
				{Offset: 0, ImgOffset: 4096, Length: 1000},
			}},
		},
		{
			Filename: "rescued_b.mp4",
			FileSize: 2000,
			ByteRuns: report.ByteRuns{Runs: []report.ByteRun{
				{Offset: 0, ImgOffset: 8192, Length: 2000},
			}},
		},
	}

	entries, err := mountfs.FromReport(objects)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, mountfs.Entry{Name: "rescued_a.jpg", Offset: 4096, Size: 1000}, entries[0])
	require.Equal(t, mountfs.Entry{Name: "rescued_b.mp4", Offset: 8192, Size: 2000}, entries[1])
}

func TestFromReport_NoByteRuns(t *testing.T) {
	_, err := mountfs.FromReport([]report.FileObject{{Filename: "broken"}})
	require.Error(t, err)
}
