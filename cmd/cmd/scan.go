package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/carve"
	"github.com/rescuefs/rescuer/internal/config"
	"github.com/rescuefs/rescuer/internal/device"
	"github.com/rescuefs/rescuer/internal/env"
	"github.com/rescuefs/rescuer/internal/report"
	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/internal/sink"
	"github.com/rescuefs/rescuer/internal/valid"
	"github.com/rescuefs/rescuer/pkg/pbar"
	"github.com/rescuefs/rescuer/pkg/util/format"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan <device-or-image>",
		Short:        "Carve media files out of a disk, partition or image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	cmd.Flags().StringP("output", "o", "", "directory recovered files are written to")
	cmd.Flags().String("prefix", "", "recovered file name prefix")
	cmd.Flags().String("block-size", "", "read block size, e.g. 32MB")
	cmd.Flags().StringP("mode", "m", "", "formats to carve: all, images or videos")
	cmd.Flags().String("report", "", "path of the DFXML carve report")
	cmd.Flags().Bool("no-report", false, "do not write a carve report")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")
	cmd.Flags().Bool("shallow", false, "skip per-format decoding during validation")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)
	log := newLogger(cfg.LogLevel)

	blockSize, err := format.ParseBytes(cfg.BlockSize)
	if err != nil {
		return fmt.Errorf("invalid block size %q", cfg.BlockSize)
	}
	sigs, err := formatsForMode(cfg.Mode)
	if err != nil {
		return err
	}

	src, err := device.Open(args[0])
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w\nreading %q requires elevated privileges: retry with sudo, or grant your user read access to the device", err, args[0])
		}
		return err
	}
	defer src.Close()

	distribution := map[string]uint64{}
	var reportW *report.Writer
	reportPath, _ := cmd.Flags().GetString("report")
	if cfg.Report {
		if reportPath == "" {
			stamp := time.Now().Format("20060102_150405")
			reportPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_report_%s.xml", env.AppName, stamp))
		}
	} else {
		reportPath = ""
	}

	snk, err := sink.NewDirSink(cfg.OutputDir, cfg.Prefix, func(name string, a carve.Artifact) {
		distribution[a.Sig.Name] += uint64(len(a.Data))
		if reportW == nil {
			return
		}
		if err := reportW.WriteFileObject(report.FileObject{
			Filename: name,
			FileSize: uint64(len(a.Data)),
			ByteRuns: report.ByteRuns{Runs: []report.ByteRun{
				{Offset: 0, ImgOffset: a.Offset, Length: uint64(len(a.Data))},
			}},
		}); err != nil {
			log.WithError(err).Warn("Failed to record file in the carve report")
		}
	})
	if err != nil {
		return err
	}

	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()

		reportW = report.NewWriter(f)
		if err := reportW.WriteHeader(report.NewHeader(src.Path, uint64(src.Size), 512)); err != nil {
			return err
		}
		defer reportW.Close()
	}

	var bar *pbar.State
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		bar = pbar.New(os.Stdout, src.Size)
	}

	scanner := carve.NewScanner(sigs, valid.New(valid.Options{Deep: cfg.Deep}), snk, carve.Options{
		BlockSize: int(blockSize),
		Observer:  &consoleObserver{log: log, bar: bar, blockSize: int64(blockSize)},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(map[string]interface{}{
		"target":     src.Path,
		"size":       format.FormatBytes(src.Size),
		"block_size": format.FormatBytes(int64(blockSize)),
		"mode":       cfg.Mode,
	}).Info("Starting scan")

	res, err := scanner.Scan(ctx, src.File)
	if bar != nil {
		bar.FilesFound = res.Artifacts
		bar.Render(true)
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if res.Cancelled {
		log.Warn("Scan interrupted, keeping partial results")
	}

	log.WithFields(map[string]interface{}{
		"files":   res.Artifacts,
		"missed":  res.Missed,
		"blocks":  res.Blocks,
		"scanned": format.FormatBytes(int64(res.Bytes)),
	}).Info("Scan finished")

	var recovered uint64
	for _, bytes := range distribution {
		recovered += bytes
	}
	log.Infof("Medium is %s", describePopulation(recovered, res.Bytes))

	printDistribution(log, sigs, distribution)
	if reportPath != "" {
		log.Infof("Report saved to %s", absPath(reportPath))
	}
	log.Infof("Recovered files saved to %s", absPath(snk.Dir()))
	return nil
}

// applyScanFlags overlays explicitly-set command flags on the resolved
// configuration.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("prefix"); v != "" {
		cfg.Prefix = v
	}
	if v, _ := cmd.Flags().GetString("block-size"); v != "" {
		cfg.BlockSize = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Mode = v
	}
	if v, _ := cmd.Flags().GetBool("no-report"); v {
		cfg.Report = false
	}
	if v, _ := cmd.Flags().GetBool("shallow"); v {
		cfg.Deep = false
	}
}

func formatsForMode(mode string) ([]*sig.Signature, error) {
	switch mode {
	case "", "all":
		return sig.All(), nil
	case "images":
		return sig.Images(), nil
	case "videos":
		return sig.Containers(), nil
	}
	return nil, fmt.Errorf("unknown mode %q (want all, images or videos)", mode)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
