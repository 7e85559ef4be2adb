package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fluidcheck/internal/buildinfo"
	"github.com/aalvaropc/fluidcheck/internal/infra/fluidsynth"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			fmt.Fprintf(cmd.OutOrStdout(), "binding API %s\n", fluidsynth.APIVersion)
		},
	}
}
