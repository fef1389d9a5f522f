package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/ffscope/internal/appstate"
	"github.com/five82/ffscope/internal/config"
	"github.com/five82/ffscope/internal/filters"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/logging"
	"github.com/five82/ffscope/internal/notify"
	"github.com/five82/ffscope/internal/prefs"
	"github.com/five82/ffscope/internal/ui"
)

// Options configure the ffscope application.
type Options struct {
	ConfigPath string
	APIURL     string        // overrides the configured API URL
	PrefsPath  string        // empty uses default ~/.config/ffscope/prefs.toml
	Namespace  string        // overrides the configured namespace
	View       string        // approvals or pools
	SlideID    string        // record to open on start
	PollEvery  time.Duration // zero uses the configured interval
	LogLevel   string
}

// Run boots the ffscope TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if u := strings.TrimSpace(opts.APIURL); u != "" {
		cfg.APIURL = strings.TrimRight(u, "/")
	}
	if ns := strings.TrimSpace(opts.Namespace); ns != "" {
		cfg.Namespace = ns
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(logging.Options{Level: opts.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	slideID := strings.TrimSpace(opts.SlideID)
	if slideID != "" {
		if slideID, err = firefly.ValidateLocalID(slideID); err != nil {
			return err
		}
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := firefly.NewClient(cfg.APIURL, cfg.NSPrefix, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init firefly client: %w", err)
	}

	created, err := filters.ParseCreatedFilter(userPrefs.CreatedFilter)
	if err != nil {
		created = filters.DefaultCreatedFilter
	}
	store := appstate.NewStore(appstate.Options{
		Namespace:     cfg.Namespace,
		DataView:      appstate.ParseDataView(userPrefs.DataView),
		CreatedFilter: created,
	})
	if slideID != "" {
		store.OpenSlide(slideID)
	}
	notifier := notify.New()

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	logger.Info("starting", "api", cfg.APIURL, "namespace", cfg.Namespace, "poll", interval)

	// Populate identity before the UI starts; failures surface as notices.
	preflight(ctx, client, store, notifier, cfg.Namespace, cfg.RequestTimeout)

	StartPoller(ctx, store, client, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Notifier:  notifier,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		PollTick:  time.Second,
		View:      opts.View,
		SlideID:   slideID,
	})
}

// statusSource is the part of the FireFly API preflight reads.
type statusSource interface {
	GetStatus(ctx context.Context, namespace string) (*firefly.Status, error)
	ListNamespaces(ctx context.Context) ([]firefly.Namespace, error)
}

// preflight fetches node identity and the namespace list concurrently.
func preflight(ctx context.Context, client statusSource, store *appstate.Store, notifier *notify.Notifier, namespace string, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		status     *firefly.Status
		namespaces []firefly.Namespace
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = client.GetStatus(gctx, namespace)
		if err != nil {
			return fmt.Errorf("fetch status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		namespaces, err = client.ListNamespaces(gctx)
		if err != nil {
			return fmt.Errorf("list namespaces: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		store.RecordPollFailure(err)
		notifier.ReportFetchError(err)
		return
	}

	store.SetIdentity(*status)
	found := slices.ContainsFunc(namespaces, func(ns firefly.Namespace) bool {
		return ns.Name == namespace
	})
	if !found {
		notifier.Report(notify.LevelWarn, fmt.Sprintf("namespace %q not found on node", namespace))
	}
}
