package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/ffscope/internal/app"
	"github.com/five82/ffscope/internal/config"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/logging"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	apiURL     string
	namespace  string
	logLevel   string
}

// load reads config and applies flag overrides.
func (g *globalOptions) load() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.apiURL != "" {
		cfg.APIURL = strings.TrimRight(g.apiURL, "/")
	}
	if g.namespace != "" {
		cfg.Namespace = g.namespace
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// client builds a FireFly client from the resolved config.
func (g *globalOptions) client() (*firefly.Client, config.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, config.Config{}, err
	}
	c, err := firefly.NewClient(cfg.APIURL, cfg.NSPrefix, cfg.RequestTimeout)
	if err != nil {
		return nil, config.Config{}, err
	}
	return c, cfg, nil
}

// NewRootCommand builds the ffscope command tree. Without a subcommand it
// starts the TUI.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	var (
		view    string
		slideID string
		poll    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ffscope",
		Short: "Explore FireFly token approvals and pools",
		Long: `ffscope browses the token approvals and token pools of a FireFly
namespace. Run without a subcommand for the interactive explorer, or use
the approvals and pools subcommands for scriptable output.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Only display usage with args related errors
			cmd.SilenceUsage = true
			if cmd == cmd.Root() {
				// The TUI logs to the configured file from app.Run.
				return nil
			}
			_, _, err := logging.Setup(logging.Options{Level: g.logLevel, Writer: cmd.ErrOrStderr()})
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: g.configPath,
				APIURL:     g.apiURL,
				Namespace:  g.namespace,
				View:       view,
				SlideID:    slideID,
				PollEvery:  poll,
				LogLevel:   g.logLevel,
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/ffscope/config.toml)")
	pf.StringVar(&g.apiURL, "api-url", "", "FireFly API base URL, overrides config")
	pf.StringVarP(&g.namespace, "namespace", "n", "", "namespace to query, overrides config")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.StringVar(&view, "view", "approvals", "initial screen (approvals or pools)")
	f.StringVar(&slideID, "id", "", "open the record with this id on start")
	f.DurationVar(&poll, "poll", 0, "event poll interval (default from config)")

	cmd.AddCommand(makeVersionCmd())
	cmd.AddCommand(makeApprovalsCmd(g))
	cmd.AddCommand(makePoolsCmd(g))
	cmd.AddCommand(makeLogsCmd(g))

	return cmd
}

// Execute runs the root command with ctx. Cobra has already printed any
// returned error.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
