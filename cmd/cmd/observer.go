package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/pkg/pbar"
	"github.com/rescuefs/rescuer/pkg/util/format"
)

// consoleObserver bridges engine callbacks to the progress bar and the
// logger. Per-candidate narration goes to debug so the default run keeps a
// single progress line.
type consoleObserver struct {
	log       *logrus.Logger
	bar       *pbar.State
	blockSize int64
}

func (o *consoleObserver) OnProgress(found, blocks int) {
	if o.bar == nil {
		return
	}
	processed := int64(blocks) * o.blockSize
	if o.bar.TotalBytes > 0 && processed > o.bar.TotalBytes {
		processed = o.bar.TotalBytes
	}
	o.bar.ProcessedBytes = processed
	o.bar.FilesFound = found
	o.bar.Render(false)
}

func (o *consoleObserver) OnLog(msg string) {
	o.log.Debug(msg)
}

// printDistribution logs recovered bytes per format, in catalog order.
func printDistribution(log *logrus.Logger, sigs []*sig.Signature, distribution map[string]uint64) {
	if len(distribution) == 0 {
		return
	}
	log.Info("Recovered data by format:")
	for _, s := range sigs {
		if bytes, ok := distribution[s.Name]; ok {
			log.Infof("  %-5s %s", s.Name, format.FormatBytes(int64(bytes)))
		}
	}
}

// describePopulation classifies how much of the scanned medium held
// recoverable media, from the ratio of recovered to scanned bytes.
func describePopulation(recovered, scanned uint64) string {
	if scanned == 0 || recovered == 0 {
		return "empty of recognizable media"
	}
	switch ratio := float64(recovered) / float64(scanned); {
	case ratio < 0.10:
		return "sparsely populated with media"
	case ratio < 0.45:
		return "partially populated with media"
	case ratio < 0.80:
		return "well populated with media"
	default:
		return "heavily populated with media"
	}
}
