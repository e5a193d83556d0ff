package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/device"
	"github.com/rescuefs/rescuer/pkg/util/format"
)

func DefineDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "devices",
		Short:        "List block devices available for scanning",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunDevices,
	}
}

func RunDevices(cmd *cobra.Command, args []string) error {
	devices, err := device.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSIZE")
	for _, d := range devices {
		size := "unknown"
		if d.Size > 0 {
			size = format.FormatBytes(d.Size)
		}
		fmt.Fprintf(w, "%s\t%s\n", d.Path, size)
	}
	return w.Flush()
}
