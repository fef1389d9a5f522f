package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/logging"
	"github.com/five82/ffscope/internal/notify"
)

// ErrNotMounted is returned by Load when the controller has been unmounted.
var ErrNotMounted = errors.New("list not mounted")

// DefaultPageSize matches the second entry of the page-size choices.
const DefaultPageSize = 10

// Options seed a Controller.
type Options struct {
	Name       string
	Namespace  string
	PageSize   int
	DateFilter string
	Filter     string
	Reporter   notify.Reporter
	Logger     *log.Logger
}

// State is a consistent copy of what the table renders.
type State[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
	Skip     int // skip of the request that produced Items
	Loaded   bool
	Err      error
}

// Controller keeps one table's rows consistent with its query inputs:
// namespace, date filter, ad-hoc filter, page, page size and an external
// refresh signal.
//
// Every input setter returns the Request to issue and true when the change
// requires a fetch; unchanged inputs and unmounted controllers issue nothing.
// Each issued request carries a new generation, and Commit/Fail accept only
// the latest one, so a superseded or post-unmount completion never mutates
// state.
type Controller[T any] struct {
	mu sync.Mutex

	name     string
	reporter notify.Reporter
	logger   *log.Logger

	namespace  string
	page       int
	pageSize   int
	dateFilter string
	filter     string
	refreshes  uint64

	mounted    bool
	generation uint64
	latest     Request

	items      []T
	total      int
	skip       int
	shown      Request
	loaded     bool
	lastErr    error
	hasPending bool
}

// New builds an unmounted controller.
func New[T any](opts Options) *Controller[T] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.For("listing")
	}
	if opts.Name != "" {
		logger = logger.With("list", opts.Name)
	}
	return &Controller[T]{
		name:       opts.Name,
		reporter:   opts.Reporter,
		logger:     logger,
		namespace:  opts.Namespace,
		pageSize:   pageSize,
		dateFilter: opts.DateFilter,
		filter:     opts.Filter,
	}
}

// Name identifies the list in logs.
func (c *Controller[T]) Name() string { return c.name }

// Mount attaches the controller and issues the initial request.
func (c *Controller[T]) Mount() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return Request{}, false
	}
	c.mounted = true
	return c.issueLocked()
}

// Unmount detaches the controller. In-flight requests can no longer commit.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	c.generation++
	c.hasPending = false
}

// Mounted reports whether the controller is attached.
func (c *Controller[T]) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// SetPage moves to page n. Negative pages clamp to 0.
func (c *Controller[T]) SetPage(n int) (Request, bool) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n == c.page {
		return Request{}, false
	}
	c.page = n
	return c.issueLocked()
}

// SetPageSize changes the page size and returns to the first page in a
// single request. Non-positive sizes are ignored.
func (c *Controller[T]) SetPageSize(n int) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || n == c.pageSize {
		return Request{}, false
	}
	c.pageSize = n
	c.page = 0
	return c.issueLocked()
}

// SetNamespace switches namespace and returns to the first page.
func (c *Controller[T]) SetNamespace(ns string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ns == c.namespace {
		return Request{}, false
	}
	c.namespace = ns
	c.page = 0
	return c.issueLocked()
}

// SetDateFilter replaces the created-date fragment and returns to the first
// page.
func (c *Controller[T]) SetDateFilter(fragment string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fragment == c.dateFilter {
		return Request{}, false
	}
	c.dateFilter = fragment
	c.page = 0
	return c.issueLocked()
}

// SetFilter replaces the ad-hoc filter fragment and returns to the first
// page.
func (c *Controller[T]) SetFilter(fragment string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fragment == c.filter {
		return Request{}, false
	}
	c.filter = fragment
	c.page = 0
	return c.issueLocked()
}

// Refresh re-issues the current query unchanged.
func (c *Controller[T]) Refresh() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
	return c.issueLocked()
}

// Reload re-issues the current page with a re-resolved created-date
// fragment. Unlike SetDateFilter the page is kept, and a request is issued
// even when the fragment is unchanged.
func (c *Controller[T]) Reload(fragment string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dateFilter = fragment
	c.refreshes++
	return c.issueLocked()
}

// NextPage advances one page past the latest request while the last known
// total has records beyond it.
func (c *Controller[T]) NextPage() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || (c.page+1)*c.pageSize >= c.total {
		return Request{}, false
	}
	c.page++
	return c.issueLocked()
}

// PrevPage steps back one page from the latest request.
func (c *Controller[T]) PrevPage() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page == 0 {
		return Request{}, false
	}
	c.page--
	return c.issueLocked()
}

func (c *Controller[T]) issueLocked() (Request, bool) {
	if !c.mounted {
		return Request{}, false
	}
	c.generation++
	c.latest = Request{
		Generation: c.generation,
		Namespace:  c.namespace,
		Page:       c.page,
		Limit:      c.pageSize,
		Skip:       c.page * c.pageSize,
		DateFilter: c.dateFilter,
		Filter:     c.filter,
	}
	c.hasPending = true
	c.logger.Debug("issue list request", "generation", c.generation, "namespace", c.namespace, "page", c.page, "limit", c.pageSize)
	return c.latest, true
}

// Current returns the latest issued request.
func (c *Controller[T]) Current() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Pending reports whether the latest request has not completed yet.
func (c *Controller[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPending
}

// Commit replaces items and total together when gen is the latest
// generation of a mounted controller. It reports whether state changed.
func (c *Controller[T]) Commit(gen uint64, page firefly.Page[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(gen) {
		c.logger.Debug("discard stale list response", "generation", gen, "latest", c.generation, "mounted", c.mounted)
		return false
	}
	c.items = cloneItems(page.Items)
	c.total = page.Total
	c.skip = c.latest.Skip
	c.shown = c.latest
	c.loaded = true
	c.lastErr = nil
	c.hasPending = false
	return true
}

// Fail records a failed fetch. Items and total are kept. Only the latest
// generation is reported; superseded failures are logged.
func (c *Controller[T]) Fail(gen uint64, err error) bool {
	if err == nil {
		return false
	}
	c.mu.Lock()
	current := c.currentLocked(gen)
	if current {
		c.lastErr = err
		c.hasPending = false
	}
	c.mu.Unlock()

	if !current {
		c.logger.Debug("discard stale list failure", "generation", gen, "error", err)
		return false
	}
	c.logger.Warn("list fetch failed", "generation", gen, "error", err)
	if c.reporter != nil {
		c.reporter.ReportFetchError(err)
	}
	return true
}

func (c *Controller[T]) currentLocked(gen uint64) bool {
	return c.mounted && gen == c.generation
}

// Load runs loader for req and commits or fails the result.
func (c *Controller[T]) Load(ctx context.Context, loader Loader[T], req Request) error {
	page, err := loader(ctx, req)
	if err != nil {
		c.Fail(req.Generation, err)
		return err
	}
	if !c.Commit(req.Generation, page) {
		if !c.Mounted() {
			return ErrNotMounted
		}
	}
	return nil
}

// State returns a consistent copy of the rendered state. Page and PageSize
// describe the committed page, not a request still in flight.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, size := c.page, c.pageSize
	if c.loaded {
		page, size = c.shown.Page, c.shown.Limit
	}
	return State[T]{
		Items:    cloneItems(c.items),
		Total:    c.total,
		Page:     page,
		PageSize: size,
		Skip:     c.skip,
		Loaded:   c.loaded,
		Err:      c.lastErr,
	}
}

// Items returns a copy of the current rows source.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Total is the server-side count of matching records.
func (c *Controller[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Page is the zero-based page index of the latest request.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageSize is the number of rows requested per page.
func (c *Controller[T]) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// Namespace is the namespace queries are scoped to.
func (c *Controller[T]) Namespace() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.namespace
}

// Loaded reports whether any page has ever been committed.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Err is the most recent current-generation failure, cleared by a commit.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// HasNext reports whether records exist past the committed page.
func (s State[T]) HasNext() bool {
	return s.Skip+len(s.Items) < s.Total
}

// HasPrev reports whether the controller is past the first page.
func (s State[T]) HasPrev() bool {
	return s.Page > 0
}

// PageCount is the number of pages at the current page size, at least 1.
func (s State[T]) PageCount() int {
	if s.PageSize <= 0 || s.Total <= 0 {
		return 1
	}
	return (s.Total + s.PageSize - 1) / s.PageSize
}

// Range returns the 1-based positions of the committed rows. Both are 0
// when the page is empty.
func (s State[T]) Range() (from, to int) {
	if len(s.Items) == 0 {
		return 0, 0
	}
	return s.Skip + 1, s.Skip + len(s.Items)
}

// HasNext reports whether records exist past the committed page.
func (c *Controller[T]) HasNext() bool { return c.State().HasNext() }

// HasPrev reports whether the controller is past the first page.
func (c *Controller[T]) HasPrev() bool { return c.State().HasPrev() }

// PageCount is the number of pages at the current page size.
func (c *Controller[T]) PageCount() int { return c.State().PageCount() }

// Range returns the 1-based positions of the committed rows.
func (c *Controller[T]) Range() (from, to int) { return c.State().Range() }

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
