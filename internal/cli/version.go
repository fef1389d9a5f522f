package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/ffscope/internal/firefly"
)

var (
	// Version of the ffscope build, set with -ldflags.
	Version string
	// GitCommit of the current build.
	GitCommit string
)

func init() {
	if Version != "" {
		firefly.UserAgent = "ffscope/" + Version
	}
}

func makeVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version",
		Args:    cobra.NoArgs,
		Aliases: []string{"v"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if Version != "" {
				fmt.Fprintln(out, "version:", Version)
			} else {
				fmt.Fprintln(out, "version: devel")
			}
			fmt.Fprintln(out, "git commit:", GitCommit)
		},
	}
}
