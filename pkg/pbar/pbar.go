// Package pbar renders a single-line console progress bar for long scans.
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rescuefs/rescuer/pkg/util/format"
)

// MinRefreshRate bounds how often Render repaints; raw device scans update
// far faster than a terminal can keep up with.
const MinRefreshRate = 500 * time.Millisecond

// State tracks one scan's progress. TotalBytes of zero means the stream
// length is unknown and the bar degrades to a counter line.
type State struct {
	TotalBytes     int64
	ProcessedBytes int64
	FilesFound     int

	w             io.Writer
	startTime     time.Time
	lastUpdate    time.Time
	lastProcessed int64
}

func New(w io.Writer, totalBytes int64) *State {
	return &State{
		TotalBytes: totalBytes,
		w:          w,
		startTime:  time.Now(),
	}
}

// Render repaints the progress line, rate-limited unless forced.
func (s *State) Render(force bool) {
	if !force && !s.lastUpdate.IsZero() && time.Since(s.lastUpdate) < MinRefreshRate {
		return
	}

	speed := 0.0
	if !s.lastUpdate.IsZero() {
		speed = float64(s.ProcessedBytes-s.lastProcessed) / time.Since(s.lastUpdate).Seconds()
	}
	s.lastUpdate = time.Now()
	s.lastProcessed = s.ProcessedBytes

	if s.TotalBytes <= 0 {
		fmt.Fprintf(s.w, "\rScanned %s | Files found: %d | @ %.2fMB/s    ",
			format.FormatBytes(s.ProcessedBytes),
			s.FilesFound,
			speed/(1024*1024))
		return
	}

	percentage := float64(s.ProcessedBytes) / float64(s.TotalBytes) * 100
	if percentage > 100 {
		percentage = 100
	}

	const barLength = 20
	filled := int(barLength * percentage / 100)
	var bar string
	if filled >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLength-filled-1)
	}

	eta := "calculating..."
	if s.ProcessedBytes > 0 && speed > 0 {
		etaSeconds := float64(s.TotalBytes-s.ProcessedBytes) / speed
		eta = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	}

	fmt.Fprintf(s.w, "\rProgress: [%s] %3.0f%% (%s/%s) | Files found: %d | @ %.2fMB/s [%s]    ",
		bar,
		percentage,
		format.FormatBytes(s.ProcessedBytes),
		format.FormatBytes(s.TotalBytes),
		s.FilesFound,
		speed/(1024*1024),
		eta)
}

// Finish terminates the progress line.
func (s *State) Finish() {
	fmt.Fprintln(s.w)
}
