package appstate

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/ffscope/internal/filters"
	"github.com/five82/ffscope/internal/firefly"
)

// DataView selects how the detail slide renders a record.
type DataView string

// Slide renderings.
const (
	DataViewList DataView = "list"
	DataViewJSON DataView = "json"
	DataViewYAML DataView = "yaml"
)

var dataViews = []DataView{DataViewList, DataViewJSON, DataViewYAML}

// ParseDataView maps a stored preference to a DataView, defaulting to list.
func ParseDataView(raw string) DataView {
	v := DataView(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range dataViews {
		if v == known {
			return v
		}
	}
	return DataViewList
}

// Next cycles list -> json -> yaml -> list.
func (v DataView) Next() DataView {
	for i, known := range dataViews {
		if v == known {
			return dataViews[(i+1)%len(dataViews)]
		}
	}
	return DataViewList
}

// maxNewEvents bounds the pending event buffer between refreshes.
const maxNewEvents = 500

// Snapshot is a point-in-time copy of the application state.
type Snapshot struct {
	Identity  string
	OrgName   string
	NodeName  string
	Namespace string

	LastEvent     *firefly.Event
	LastSequence  int64
	Seeded        bool // event cursor positioned for Namespace
	NewEvents     []firefly.Event
	RefreshSignal uint64
	LastRefresh   time.Time

	DataView      DataView
	CreatedFilter filters.CreatedFilter
	SlideID       string

	LastPolled          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the node has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Options seed a Store.
type Options struct {
	Namespace     string
	DataView      DataView
	CreatedFilter filters.CreatedFilter
	Now           func() time.Time
}

// Store owns the application state. Every field has one named intent that
// writes it; readers take snapshots. The event poller writes from its own
// goroutine while the UI reads.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
	changed  chan struct{}
}

// NewStore builds a Store from opts.
func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	created := opts.CreatedFilter
	if _, err := filters.ParseCreatedFilter(string(created)); err != nil {
		created = filters.DefaultCreatedFilter
	}
	dataView := opts.DataView
	if dataView == "" {
		dataView = DataViewList
	}
	return &Store{
		snapshot: Snapshot{
			Namespace:     strings.TrimSpace(opts.Namespace),
			DataView:      dataView,
			CreatedFilter: created,
			LastRefresh:   now(),
		},
		now:     now,
		changed: make(chan struct{}, 1),
	}
}

// Changed delivers a value after any state change. Bursts coalesce into a
// single pending notification.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Store) mutate(fn func(*Snapshot) bool) bool {
	s.mu.Lock()
	changed := fn(&s.snapshot)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return changed
}

// SetIdentity records who the node acts as.
func (s *Store) SetIdentity(status firefly.Status) {
	s.mutate(func(snap *Snapshot) bool {
		snap.Identity = status.Identity()
		snap.OrgName = status.Org.Name
		snap.NodeName = status.Node.Name
		return true
	})
}

// SelectNamespace switches the namespace every view queries. Pending events
// and the event cursor belong to the old namespace and are dropped.
func (s *Store) SelectNamespace(namespace string) bool {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return false
	}
	return s.mutate(func(snap *Snapshot) bool {
		if snap.Namespace == namespace {
			return false
		}
		snap.Namespace = namespace
		snap.NewEvents = nil
		snap.LastEvent = nil
		snap.LastSequence = 0
		snap.Seeded = false
		snap.SlideID = ""
		return true
	})
}

// RecordEvents stores events polled for namespace. Events for a namespace
// that is no longer selected are ignored. A successful poll also resets the
// failure count.
func (s *Store) RecordEvents(namespace string, events []firefly.Event) {
	s.mutate(func(snap *Snapshot) bool {
		if namespace != snap.Namespace {
			return false
		}
		changed := snap.ConsecutiveFailures > 0 || snap.LastError != nil
		snap.LastPolled = s.now()
		snap.LastError = nil
		snap.ConsecutiveFailures = 0
		for _, ev := range events {
			if ev.Sequence <= snap.LastSequence {
				continue
			}
			snap.NewEvents = append(snap.NewEvents, ev)
			last := ev
			snap.LastEvent = &last
			snap.LastSequence = ev.Sequence
			changed = true
		}
		if over := len(snap.NewEvents) - maxNewEvents; over > 0 {
			snap.NewEvents = append([]firefly.Event(nil), snap.NewEvents[over:]...)
		}
		return changed
	})
}

// SeedSequence moves the event cursor without recording events and marks
// the namespace seeded, so the first poll only reports events newer than
// startup. Seeding a namespace that is no longer selected does nothing.
func (s *Store) SeedSequence(namespace string, sequence int64) {
	s.mutate(func(snap *Snapshot) bool {
		if namespace != snap.Namespace {
			return false
		}
		snap.Seeded = true
		if sequence > snap.LastSequence {
			snap.LastSequence = sequence
		}
		return false
	})
}

// RecordPollFailure counts a failed poll. Prior data is kept.
func (s *Store) RecordPollFailure(err error) {
	if err == nil {
		return
	}
	s.mutate(func(snap *Snapshot) bool {
		snap.LastError = err
		snap.LastPolled = s.now()
		snap.ConsecutiveFailures++
		return true
	})
}

// ClearNewEvents acknowledges pending events and bumps the refresh signal,
// which list views treat as a reload request.
func (s *Store) ClearNewEvents() {
	s.mutate(func(snap *Snapshot) bool {
		snap.NewEvents = nil
		snap.RefreshSignal++
		snap.LastRefresh = s.now()
		return true
	})
}

// SetDataView changes the slide rendering.
func (s *Store) SetDataView(v DataView) bool {
	v = ParseDataView(string(v))
	return s.mutate(func(snap *Snapshot) bool {
		if snap.DataView == v {
			return false
		}
		snap.DataView = v
		return true
	})
}

// SetCreatedFilter changes the created window used by every list.
func (s *Store) SetCreatedFilter(c filters.CreatedFilter) bool {
	if _, err := filters.ParseCreatedFilter(string(c)); err != nil {
		return false
	}
	return s.mutate(func(snap *Snapshot) bool {
		if snap.CreatedFilter == c {
			return false
		}
		snap.CreatedFilter = c
		return true
	})
}

// OpenSlide records the deep-linked record identifier.
func (s *Store) OpenSlide(id string) bool {
	id = strings.TrimSpace(id)
	return s.mutate(func(snap *Snapshot) bool {
		if snap.SlideID == id {
			return false
		}
		snap.SlideID = id
		return true
	})
}

// CloseSlide clears the deep-linked identifier.
func (s *Store) CloseSlide() bool {
	return s.OpenSlide("")
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.NewEvents = cloneEvents(s.snapshot.NewEvents)
	if s.snapshot.LastEvent != nil {
		last := *s.snapshot.LastEvent
		snap.LastEvent = &last
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneEvents(events []firefly.Event) []firefly.Event {
	if len(events) == 0 {
		return nil
	}
	dup := make([]firefly.Event, len(events))
	copy(dup, events)
	return dup
}
