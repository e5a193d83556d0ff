package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/sig"
	"github.com/rescuefs/rescuer/pkg/util/format"
)

func DefineFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "formats",
		Short:        "List all supported file formats",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunFormats,
	}
}

func RunFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXT\tKIND\tMIN\tMAX\tENDS AT")

	for _, s := range sig.All() {
		kind, endsAt := "image", "footer"
		if s.Container {
			kind, endsAt = "video", "next header"
		}
		fmt.Fprintf(w, "%s\t.%s\t%s\t%s\t%s\t%s\n",
			s.Name,
			s.Ext,
			kind,
			format.FormatBytes(int64(s.MinSize)),
			format.FormatBytes(s.MaxSize),
			endsAt,
		)
	}
	return w.Flush()
}
