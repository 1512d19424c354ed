package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/brogergvhs/mangatrack/internal/providers"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the supported hosts",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		_, _ = fmt.Fprintln(w, "HOST\tSITE")

		for _, h := range providers.Hosts() {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", h, providers.HostSite(h))
		}

		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
