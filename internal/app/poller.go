package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/ffscope/internal/appstate"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/logging"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
	eventBatch          = 100
)

// eventSource is the part of the FireFly API the poller reads.
type eventSource interface {
	ListEvents(ctx context.Context, namespace string, afterSequence int64, limit int) ([]firefly.Event, error)
	LatestEvent(ctx context.Context, namespace string) (*firefly.Event, error)
}

// poller feeds new events for the selected namespace into the store.
type poller struct {
	store    *appstate.Store
	source   eventSource
	interval time.Duration
	logger   *log.Logger
}

// StartPoller launches a background goroutine that polls events at a fixed
// cadence, backing off while the node is unreachable. It returns immediately.
func StartPoller(ctx context.Context, store *appstate.Store, source eventSource, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	p := &poller{
		store:    store,
		source:   source,
		interval: interval,
		logger:   logging.For("poller"),
	}
	go p.run(ctx)
}

func (p *poller) run(ctx context.Context) {
	failures := 0
	for {
		if err := p.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			p.store.RecordPollFailure(err)
			p.logger.Warn("event poll failed", "error", err, "failures", failures)
		} else {
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, p.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// poll runs one cycle. The first cycle for a namespace only positions the
// cursor at the newest event, so startup history is not reported as new.
func (p *poller) poll(ctx context.Context) error {
	snap := p.store.Snapshot()
	ns := snap.Namespace
	if ns == "" {
		return nil
	}

	if !snap.Seeded {
		latest, err := p.source.LatestEvent(ctx, ns)
		if err != nil {
			return err
		}
		var seq int64
		if latest != nil {
			seq = latest.Sequence
		}
		p.store.SeedSequence(ns, seq)
		p.store.RecordEvents(ns, nil)
		p.logger.Debug("event cursor seeded", "namespace", ns, "latest", latest != nil)
		return nil
	}

	events, err := p.source.ListEvents(ctx, ns, snap.LastSequence, eventBatch)
	if err != nil {
		return err
	}
	p.store.RecordEvents(ns, events)
	if len(events) > 0 {
		p.logger.Debug("events received", "namespace", ns, "count", len(events), "last", events[len(events)-1].Sequence)
	}
	return nil
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
