//go:build linux
// +build linux

package mountfs

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// rescueFS is a flat, read-only filesystem: one root directory holding
// every recovered entry.
type rescueFS struct {
	r       io.ReaderAt
	entries map[string]Entry
}

func newRescueFS(r io.ReaderAt, entries []Entry) *rescueFS {
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &rescueFS{r: r, entries: byName}
}

func (f *rescueFS) Root() (fs.Node, error) {
	return &rootDir{fs: f}, nil
}

type rootDir struct {
	fs *rescueFS
}

func (*rootDir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0o555
	return nil
}

func (d *rootDir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	e, ok := d.fs.entries[name]
	if !ok {
		return nil, fuse.ENOENT
	}
	return artifactFile{
		r:    io.NewSectionReader(d.fs.r, int64(e.Offset), int64(e.Size)),
		size: e.Size,
	}, nil
}

func (d *rootDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirents := make([]fuse.Dirent, 0, len(d.fs.entries))
	for _, e := range d.fs.entries {
		dirents = append(dirents, fuse.Dirent{
			Name: e.Name,
			Type: fuse.DT_File,
		})
	}
	sort.Slice(dirents, func(i, j int) bool {
		return dirents[i].Name < dirents[j].Name
	})
	for i := range dirents {
		dirents[i].Inode = uint64(i + 2)
	}
	return dirents, nil
}

type artifactFile struct {
	r    io.ReaderAt
	size uint64
}

func (f artifactFile) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0o444
	a.Size = f.size
	a.Mtime = time.Now()
	return nil
}

func (f artifactFile) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	if req.Offset >= int64(f.size) {
		resp.Data = nil
		return nil
	}

	size := req.Size
	if req.Offset+int64(size) > int64(f.size) {
		size = int(int64(f.size) - req.Offset)
	}

	buf := make([]byte, size)
	n, err := f.r.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return err
	}
	resp.Data = buf[:n]
	return nil
}
