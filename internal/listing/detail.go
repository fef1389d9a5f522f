package listing

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/ffscope/internal/logging"
	"github.com/five82/ffscope/internal/notify"
)

// Detail drives the slide for one list screen. A deep-linked identifier
// triggers a lookup; the slide opens only when the lookup returns exactly one
// record. Closing never touches the list controller.
type Detail[T any] struct {
	mu sync.Mutex

	reporter notify.Reporter
	logger   *log.Logger

	namespace  string
	mounted    bool
	generation uint64
	id         string
	record     T
	open       bool
}

// NewDetail builds an unmounted detail controller.
func NewDetail[T any](opts Options) *Detail[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.For("detail")
	}
	if opts.Name != "" {
		logger = logger.With("list", opts.Name)
	}
	return &Detail[T]{reporter: opts.Reporter, logger: logger, namespace: opts.Namespace}
}

// Mount attaches the detail controller. A deep-link ID set while unmounted
// is looked up now.
func (d *Detail[T]) Mount() (LookupRequest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted {
		return LookupRequest{}, false
	}
	d.mounted = true
	if d.id == "" || d.open {
		return LookupRequest{}, false
	}
	return d.issueLocked(), true
}

// Unmount detaches; pending lookups can no longer open the slide.
func (d *Detail[T]) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = false
	d.generation++
}

// SetNamespace scopes later lookups. An open slide belongs to the old
// namespace and is closed.
func (d *Detail[T]) SetNamespace(ns string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ns == d.namespace {
		return
	}
	d.namespace = ns
	d.closeLocked()
}

// Lookup records id as the deep-linked identifier and issues a lookup when
// mounted. Empty identifiers issue nothing.
func (d *Detail[T]) Lookup(id string) (LookupRequest, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LookupRequest{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.id = id
	if !d.mounted {
		return LookupRequest{}, false
	}
	return d.issueLocked(), true
}

func (d *Detail[T]) issueLocked() LookupRequest {
	d.generation++
	return LookupRequest{Generation: d.generation, Namespace: d.namespace, ID: d.id}
}

// CommitLookup opens the slide when records holds exactly one element and
// gen is current. Any other count leaves the slide closed and drops the
// deep-linked identifier.
func (d *Detail[T]) CommitLookup(gen uint64, records []T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mounted || gen != d.generation {
		d.logger.Debug("discard stale lookup", "generation", gen, "latest", d.generation)
		return false
	}
	if len(records) != 1 {
		d.logger.Debug("lookup did not resolve to one record", "id", d.id, "count", len(records))
		d.id = ""
		return false
	}
	d.record = records[0]
	d.open = true
	return true
}

// FailLookup reports a current lookup failure and drops the deep-linked
// identifier. The slide never opens.
func (d *Detail[T]) FailLookup(gen uint64, err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	current := d.mounted && gen == d.generation
	if current {
		d.id = ""
	}
	d.mu.Unlock()
	if !current {
		d.logger.Debug("discard stale lookup failure", "generation", gen, "error", err)
		return
	}
	d.logger.Warn("lookup failed", "error", err)
	if d.reporter != nil {
		d.reporter.ReportFetchError(err)
	}
}

// Load runs loader for req and commits or fails the result. It reports
// whether the slide opened.
func (d *Detail[T]) Load(ctx context.Context, loader LookupLoader[T], req LookupRequest) (bool, error) {
	records, err := loader(ctx, req)
	if err != nil {
		d.FailLookup(req.Generation, err)
		return false, err
	}
	return d.CommitLookup(req.Generation, records), nil
}

// Current reports whether gen is the latest lookup of a mounted detail.
func (d *Detail[T]) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted && gen == d.generation
}

// Select opens the slide directly with a record the user picked. Pending
// lookups are superseded.
func (d *Detail[T]) Select(record T, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.record = record
	d.id = strings.TrimSpace(id)
	d.open = true
}

// Close hides the slide and clears the deep-linked identifier.
func (d *Detail[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Detail[T]) closeLocked() {
	var zero T
	d.generation++
	d.record = zero
	d.id = ""
	d.open = false
}

// Record returns the open record.
func (d *Detail[T]) Record() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record, d.open
}

// ID is the deep-linked identifier, empty when none is set.
func (d *Detail[T]) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

// Open reports whether the slide is showing.
func (d *Detail[T]) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}
