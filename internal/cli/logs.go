package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/ffscope/internal/logtail"
)

func makeLogsCmd(g *globalOptions) *cobra.Command {
	var (
		lines     int
		level     string
		component string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the ffscope log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			minLevel, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
			if err != nil {
				return fmt.Errorf("parse level %q: %w", level, err)
			}
			out, err := logtail.Tail(cfg.LogFile, logtail.Options{
				Lines:     lines,
				MinLevel:  minLevel,
				Component: component,
			})
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No log lines in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range logtail.ColorizeLines(out) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&lines, "lines", "l", 100, "number of lines, 0 for all")
	f.StringVar(&level, "level", "info", "minimum level (debug, info, warn, error)")
	f.StringVar(&component, "component", "", "only lines from this component (poller, listing, detail, ui, notify)")
	return cmd
}
