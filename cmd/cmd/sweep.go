package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/sink"
	"github.com/rescuefs/rescuer/internal/sweep"
	"github.com/rescuefs/rescuer/pkg/util/format"
)

func DefineSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep <directory>",
		Short: "Collect media files from a still-mounted filesystem",
		Long: `The 'sweep' command walks a mounted directory tree and copies every file
recognized as a supported media format into the output directory. Use it when
the filesystem is still readable and a raw carve of the device is unnecessary.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunSweep,
	}

	cmd.Flags().StringP("output", "o", "", "directory collected files are written to")
	cmd.Flags().String("prefix", "", "collected file name prefix")
	cmd.Flags().StringSlice("formats", nil, "format names to collect (default: all)")
	cmd.Flags().String("max-file-size", "", "skip files larger than this size")

	return cmd
}

func RunSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)
	log := newLogger(cfg.LogLevel)

	var formats []*sig.Signature
	names, _ := cmd.Flags().GetStringSlice("formats")
	for _, name := range names {
		s := sig.Lookup(name)
		if s == nil {
			return fmt.Errorf("unknown format %q", name)
		}
		formats = append(formats, s)
	}

	var maxFileSize int64
	if v, _ := cmd.Flags().GetString("max-file-size"); v != "" {
		size, err := format.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("invalid max file size %q", v)
		}
		maxFileSize = int64(size)
	}

	snk, err := sink.NewDirSink(cfg.OutputDir, cfg.Prefix, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("root", args[0]).Info("Sweeping directory tree")
	res, err := sweep.Sweep(ctx, args[0], snk, sweep.Options{
		Formats:     formats,
		MaxFileSize: maxFileSize,
		Observer:    &consoleObserver{log: log},
	})
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"files":     res.Files,
		"skipped":   res.Skipped,
		"collected": format.FormatBytes(int64(res.Bytes)),
	}).Info("Sweep finished")
	log.Infof("Collected files saved to %s", absPath(snk.Dir()))
	return nil
}
