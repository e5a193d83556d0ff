//go:build linux
// +build linux

package mountfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/sirupsen/logrus"
)

// Mount serves entries from mountpoint until an interrupt signal unmounts
// it. The call blocks for the lifetime of the mount.
func Mount(mountpoint string, r io.ReaderAt, entries []Entry, log *logrus.Logger) error {
	created, err := prepareMountpoint(mountpoint)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	conn, err := fuse.Mount(mountpoint)
	if err != nil {
		return fmt.Errorf("failed to mount %q: %w", mountpoint, err)
	}
	defer conn.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.New(conn, nil).Serve(newRescueFS(r, entries))
	}()

	log.WithFields(logrus.Fields{
		"mountpoint": mountpoint,
		"files":      len(entries),
	}).Info("Filesystem mounted, press Ctrl-C to unmount")

	return waitForUnmount(mountpoint, serveErr, log)
}

func waitForUnmount(mountpoint string, serveErr <-chan error, log *logrus.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	const maxRetries = 3
	attempts := 0
	for {
		select {
		case err := <-serveErr:
			return err
		case sig := <-sigc:
			log.WithField("signal", sig).Info("Unmounting")
			if err := fuse.Unmount(mountpoint); err == nil {
				return nil
			} else {
				attempts++
				if attempts >= maxRetries {
					return fmt.Errorf("failed to unmount %q after %d attempts: %w", mountpoint, attempts, err)
				}
				log.WithError(err).Warn("Unmount failed, still busy? Interrupt again to retry")
			}
		}
	}
}

func prepareMountpoint(mountpoint string) (created bool, err error) {
	info, err := os.Stat(mountpoint)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(mountpoint, 0o755); err != nil {
			return false, fmt.Errorf("failed to create mountpoint %q: %w", mountpoint, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat mountpoint %q: %w", mountpoint, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("mountpoint %q is not a directory", mountpoint)
	}

	empty, err := isDirEmpty(mountpoint)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, fmt.Errorf("mountpoint %q is not empty", mountpoint)
	}
	return false, nil
}

func isDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
