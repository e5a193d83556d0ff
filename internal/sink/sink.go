package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rescuefs/rescuer/internal/carve"
)

// NotifyFunc is invoked after every successful write with the name the
// artifact was stored under.
type NotifyFunc func(name string, a carve.Artifact)

// DirSink persists artifacts as individual files in a single directory.
// Names combine a wall-clock timestamp with a random suffix, so reruns over
// the same stream never clobber earlier recoveries.
type DirSink struct {
	dir    string
	prefix string
	notify NotifyFunc
	now    func() time.Time
}

func NewDirSink(dir, prefix string, notify NotifyFunc) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return &DirSink{
		dir:    dir,
		prefix: prefix,
		notify: notify,
		now:    time.Now,
	}, nil
}

func (s *DirSink) Write(a carve.Artifact) (string, error) {
	name := s.fileName(a)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file %q: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024)
	if _, err := w.Write(a.Data); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush %q: %w", name, err)
	}

	if s.notify != nil {
		s.notify(name, a)
	}
	return name, nil
}

func (s *DirSink) Dir() string {
	return s.dir
}

func (s *DirSink) fileName(a carve.Artifact) string {
	stamp := s.now().Format("20060102_150405")
	rand := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s.%s", s.prefix, stamp, rand, a.Sig.Ext)
}

// Stored is one artifact retained by a MemSink.
type Stored struct {
	Name   string
	Data   []byte
	Format string
	Offset uint64
}

// MemSink retains artifacts in memory for tests and headless scans.
type MemSink struct {
	Files []Stored
}

func (s *MemSink) Write(a carve.Artifact) (string, error) {
	name := fmt.Sprintf("%s_%06d.%s", a.Sig.Name, len(s.Files), a.Sig.Ext)
	s.Files = append(s.Files, Stored{
		Name:   name,
		Data:   append([]byte(nil), a.Data...),
		Format: a.Sig.Name,
		Offset: a.Offset,
	})
	return name, nil
}
