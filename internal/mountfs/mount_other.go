//go:build !linux
// +build !linux

package mountfs

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

func Mount(mountpoint string, r io.ReaderAt, entries []Entry, log *logrus.Logger) error {
	return fmt.Errorf("mounting carve reports is only supported on Linux")
}
