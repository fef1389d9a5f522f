package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/ffscope/internal/appstate"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/notify"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeEvents struct {
	mu       sync.Mutex
	latest   *firefly.Event
	pages    [][]firefly.Event
	err      error
	afterSeq []int64
}

func (f *fakeEvents) ListEvents(_ context.Context, _ string, after int64, _ int) ([]firefly.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afterSeq = append(f.afterSeq, after)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeEvents) LatestEvent(context.Context, string) (*firefly.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func newTestPoller(store *appstate.Store, src eventSource) *poller {
	return &poller{store: store, source: src, interval: time.Second, logger: quietLogger()}
}

func TestPoll_SeedsCursorThenRecordsNewEvents(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	src := &fakeEvents{
		latest: &firefly.Event{Sequence: 41},
		pages:  [][]firefly.Event{{{Sequence: 42, Type: firefly.EventApprovalConfirmed}}},
	}
	p := newTestPoller(store, src)

	require.NoError(t, p.poll(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, int64(41), snap.LastSequence)
	assert.Empty(t, snap.NewEvents, "startup history must not count as new")

	require.NoError(t, p.poll(context.Background()))
	snap = store.Snapshot()
	assert.Equal(t, []int64{41}, src.afterSeq)
	require.Len(t, snap.NewEvents, 1)
	assert.Equal(t, int64(42), snap.LastEvent.Sequence)
}

func TestPoll_ReseedsAfterNamespaceChange(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	src := &fakeEvents{latest: &firefly.Event{Sequence: 10}}
	p := newTestPoller(store, src)

	require.NoError(t, p.poll(context.Background()))
	store.SelectNamespace("other")
	src.latest = &firefly.Event{Sequence: 3}

	require.NoError(t, p.poll(context.Background()))
	snap := store.Snapshot()
	assert.True(t, snap.Seeded)
	assert.Equal(t, int64(3), snap.LastSequence)
	assert.Empty(t, src.afterSeq, "no event listing during seeding")
}

func TestPoll_ReseedsAfterSwitchingAwayAndBack(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	src := &fakeEvents{latest: &firefly.Event{Sequence: 10}}
	p := newTestPoller(store, src)

	require.NoError(t, p.poll(context.Background()))
	// Both switches land between two polls.
	store.SelectNamespace("other")
	store.SelectNamespace("default")
	src.latest = &firefly.Event{Sequence: 12}
	src.pages = [][]firefly.Event{{{Sequence: 13, Type: firefly.EventApprovalConfirmed}}}

	require.NoError(t, p.poll(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, int64(12), snap.LastSequence)
	assert.Empty(t, snap.NewEvents, "history is not reported after returning to a namespace")
	assert.Empty(t, src.afterSeq)

	require.NoError(t, p.poll(context.Background()))
	assert.Equal(t, []int64{12}, src.afterSeq)
	assert.Len(t, store.Snapshot().NewEvents, 1)
}

func TestPoll_EmptyNamespaceSeedsOnce(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	src := &fakeEvents{}
	p := newTestPoller(store, src)

	require.NoError(t, p.poll(context.Background()))
	require.NoError(t, p.poll(context.Background()))
	assert.Equal(t, []int64{0}, src.afterSeq, "second poll lists from the start")
}

func TestRun_RecordsFailures(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	src := &fakeEvents{err: errors.New("dial tcp: connection refused")}
	p := newTestPoller(store, src)
	p.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return store.Snapshot().IsOffline()
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, store.Snapshot().LastError.Error(), "connection refused")
}

type fakeStatus struct {
	status     *firefly.Status
	namespaces []firefly.Namespace
	err        error
}

func (f fakeStatus) GetStatus(context.Context, string) (*firefly.Status, error) {
	return f.status, f.err
}

func (f fakeStatus) ListNamespaces(context.Context) ([]firefly.Namespace, error) {
	return f.namespaces, nil
}

func TestPreflight_SetsIdentity(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "default"})
	notifier := notify.New(notify.WithLogger(quietLogger()))
	src := fakeStatus{
		status:     &firefly.Status{Org: firefly.OrgStatus{Name: "org_0", DID: "did:firefly:org/org_0"}, Node: firefly.NodeStatus{Name: "node_0"}},
		namespaces: []firefly.Namespace{{Name: "default"}},
	}

	preflight(context.Background(), src, store, notifier, "default", time.Second)

	snap := store.Snapshot()
	assert.Equal(t, "did:firefly:org/org_0", snap.Identity)
	assert.Equal(t, "org_0", snap.OrgName)
	assert.Equal(t, "node_0", snap.NodeName)
	assert.Empty(t, notifier.Active(time.Now()))
}

func TestPreflight_ReportsMissingNamespaceAndErrors(t *testing.T) {
	store := appstate.NewStore(appstate.Options{Namespace: "ghost"})
	notifier := notify.New(notify.WithLogger(quietLogger()))
	preflight(context.Background(), fakeStatus{status: &firefly.Status{}, namespaces: []firefly.Namespace{{Name: "default"}}}, store, notifier, "ghost", time.Second)

	notice, ok := notifier.Latest(time.Now())
	require.True(t, ok)
	assert.Equal(t, notify.LevelWarn, notice.Level)
	assert.Contains(t, notice.Message, `"ghost"`)

	failing := fakeStatus{err: errors.New("api /status returned status 500")}
	preflight(context.Background(), failing, store, notifier, "ghost", time.Second)
	notice, ok = notifier.Latest(time.Now())
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, notice.Level)
	assert.Equal(t, 1, store.Snapshot().ConsecutiveFailures)
}
