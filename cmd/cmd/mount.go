package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/device"
	"github.com/rescuefs/rescuer/internal/mountfs"
	"github.com/rescuefs/rescuer/internal/report"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image> <report>",
		Short: "Browse recovered files without extracting them",
		Long: `The 'mount' command exposes the files listed in a carve report as a
read-only filesystem served directly from the scanned image. Recovered media
can be inspected and copied selectively before committing disk space to a
full extraction.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "directory to mount at (default: derived from the report name)")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	src, err := device.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	reportFile, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer reportFile.Close()

	objects, err := report.ReadFileObjects(bufio.NewReader(reportFile))
	if err != nil {
		return err
	}
	entries, err := mountfs.FromReport(objects)
	if err != nil {
		return err
	}

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = defaultMountpoint(args[1])
	}
	return mountfs.Mount(mountpoint, src.File, entries, log)
}

// defaultMountpoint derives a mount directory name from the report file.
func defaultMountpoint(reportPath string) string {
	base := filepath.Base(reportPath)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if ext == "" {
		base += "_mnt"
	}
	return base
}
