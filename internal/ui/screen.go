package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ffscope/internal/filters"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/listing"
	"github.com/five82/ffscope/internal/notify"
	"github.com/five82/ffscope/internal/rows"
)

// screenID names a list screen.
type screenID int

const (
	screenApprovals screenID = iota
	screenPools
)

// parseScreen maps a --view value to a screen.
func parseScreen(name string) screenID {
	switch name {
	case "pools", "pool", "2":
		return screenPools
	default:
		return screenApprovals
	}
}

// listMsg carries a list response back to the screen that issued it.
type listMsg struct {
	screen screenID
	req    listing.Request
	page   any
	err    error
}

// lookupMsg carries a detail lookup response.
type lookupMsg struct {
	screen  screenID
	req     listing.LookupRequest
	records any
	err     error
}

// tableView is what the table pane renders.
type tableView struct {
	title     string
	headers   []string
	widths    []int
	rows      []rows.Row
	selected  int
	page      int
	pageCount int
	pageSize  int
	total     int
	from, to  int
	hasNext   bool
	hasPrev   bool
	loaded    bool
	pending   bool
	err       error
	empty     string
}

// screen is one list view: a listing controller, its detail slide and the
// row projection.
type screen interface {
	id() screenID
	title() string
	resource() filters.Resource
	spec() filters.Spec

	mount() tea.Cmd
	unmount()
	setNamespace(ns string) tea.Cmd
	setDateFilter(fragment string) tea.Cmd
	setFilter(spec filters.Spec) tea.Cmd
	refresh() tea.Cmd
	reload(fragment string) tea.Cmd
	nextPage() tea.Cmd
	prevPage() tea.Cmd
	setPageSize(n int) tea.Cmd
	pageSize() int

	move(delta int)
	moveTo(index int)
	openSelected() string
	lookup(id string) tea.Cmd
	closeSlide()
	slide() (record any, id string, open bool)

	handleList(msg listMsg) bool
	handleLookup(msg lookupMsg) (opened, current bool)
	relevant(events []firefly.Event) bool
	view() tableView
}

// listScreen implements screen for one record type.
type listScreen[T any] struct {
	sid        screenID
	name       string
	res        filters.Resource
	list       *listing.Controller[T]
	detail     *listing.Detail[T]
	projection rows.Projection[T]
	load       listing.Loader[T]
	find       listing.LookupLoader[T]
	isRelevant func([]firefly.Event) bool
	emptyText  string

	ctx     context.Context
	timeout time.Duration

	filterSpec filters.Spec
	rows       []rows.Row
	selected   int
}

type screenConfig struct {
	ctx        context.Context
	timeout    time.Duration
	namespace  string
	pageSize   int
	dateFilter string
	reporter   notify.Reporter
}

func newApprovalsScreen(api firefly.API, cfg screenConfig) *listScreen[firefly.TokenApproval] {
	opts := listing.Options{
		Name:       "approvals",
		Namespace:  cfg.namespace,
		PageSize:   cfg.pageSize,
		DateFilter: cfg.dateFilter,
		Reporter:   cfg.reporter,
	}
	return &listScreen[firefly.TokenApproval]{
		sid:        screenApprovals,
		name:       "Token Approvals",
		res:        filters.ResourceApprovals,
		list:       listing.New[firefly.TokenApproval](opts),
		detail:     listing.NewDetail[firefly.TokenApproval](opts),
		projection: rows.Approvals,
		load: func(ctx context.Context, req listing.Request) (firefly.Page[firefly.TokenApproval], error) {
			return api.ListTokenApprovals(ctx, req.Namespace, req.Query())
		},
		find: func(ctx context.Context, req listing.LookupRequest) ([]firefly.TokenApproval, error) {
			return api.LookupTokenApproval(ctx, req.Namespace, req.ID)
		},
		isRelevant: firefly.HasApprovalEvent,
		emptyText:  "No token approvals to display",
		ctx:        cfg.ctx,
		timeout:    cfg.timeout,
	}
}

func newPoolsScreen(api firefly.API, cfg screenConfig) *listScreen[firefly.TokenPool] {
	opts := listing.Options{
		Name:       "pools",
		Namespace:  cfg.namespace,
		PageSize:   cfg.pageSize,
		DateFilter: cfg.dateFilter,
		Reporter:   cfg.reporter,
	}
	return &listScreen[firefly.TokenPool]{
		sid:        screenPools,
		name:       "Token Pools",
		res:        filters.ResourcePools,
		list:       listing.New[firefly.TokenPool](opts),
		detail:     listing.NewDetail[firefly.TokenPool](opts),
		projection: rows.Pools,
		load: func(ctx context.Context, req listing.Request) (firefly.Page[firefly.TokenPool], error) {
			return api.ListTokenPools(ctx, req.Namespace, req.Query())
		},
		find: func(ctx context.Context, req listing.LookupRequest) ([]firefly.TokenPool, error) {
			return api.LookupTokenPool(ctx, req.Namespace, req.ID)
		},
		isRelevant: firefly.HasPoolEvent,
		emptyText:  "No token pools to display",
		ctx:        cfg.ctx,
		timeout:    cfg.timeout,
	}
}

func (s *listScreen[T]) id() screenID                     { return s.sid }
func (s *listScreen[T]) title() string                    { return s.name }
func (s *listScreen[T]) resource() filters.Resource       { return s.res }
func (s *listScreen[T]) spec() filters.Spec               { return s.filterSpec }
func (s *listScreen[T]) pageSize() int                    { return s.list.PageSize() }
func (s *listScreen[T]) relevant(ev []firefly.Event) bool { return s.isRelevant(ev) }

func (s *listScreen[T]) mount() tea.Cmd {
	var cmds []tea.Cmd
	if req, ok := s.list.Mount(); ok {
		cmds = append(cmds, s.fetch(req))
	}
	if req, ok := s.detail.Mount(); ok {
		cmds = append(cmds, s.fetchLookup(req))
	}
	return tea.Batch(cmds...)
}

func (s *listScreen[T]) unmount() {
	s.list.Unmount()
	s.detail.Unmount()
}

func (s *listScreen[T]) setNamespace(ns string) tea.Cmd {
	s.detail.SetNamespace(ns)
	return s.issue(s.list.SetNamespace(ns))
}

func (s *listScreen[T]) setDateFilter(fragment string) tea.Cmd {
	return s.issue(s.list.SetDateFilter(fragment))
}

func (s *listScreen[T]) setFilter(spec filters.Spec) tea.Cmd {
	s.filterSpec = spec
	return s.issue(s.list.SetFilter(spec.FilterString()))
}

func (s *listScreen[T]) refresh() tea.Cmd {
	return s.issue(s.list.Refresh())
}

func (s *listScreen[T]) reload(fragment string) tea.Cmd {
	return s.issue(s.list.Reload(fragment))
}

func (s *listScreen[T]) nextPage() tea.Cmd {
	return s.issue(s.list.NextPage())
}

func (s *listScreen[T]) prevPage() tea.Cmd {
	return s.issue(s.list.PrevPage())
}

func (s *listScreen[T]) setPageSize(n int) tea.Cmd {
	return s.issue(s.list.SetPageSize(n))
}

func (s *listScreen[T]) issue(req listing.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return s.fetch(req)
}

func (s *listScreen[T]) fetch(req listing.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		page, err := s.load(ctx, req)
		return listMsg{screen: s.sid, req: req, page: page, err: err}
	}
}

func (s *listScreen[T]) fetchLookup(req listing.LookupRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		records, err := s.find(ctx, req)
		return lookupMsg{screen: s.sid, req: req, records: records, err: err}
	}
}

func (s *listScreen[T]) handleList(msg listMsg) bool {
	if msg.err != nil {
		s.list.Fail(msg.req.Generation, msg.err)
		return false
	}
	page, ok := msg.page.(firefly.Page[T])
	if !ok {
		return false
	}
	if !s.list.Commit(msg.req.Generation, page) {
		return false
	}
	s.rebuildRows()
	return true
}

// handleLookup commits a lookup response. current is false when a newer
// lookup or selection superseded it.
func (s *listScreen[T]) handleLookup(msg lookupMsg) (opened, current bool) {
	current = s.detail.Current(msg.req.Generation)
	if msg.err != nil {
		s.detail.FailLookup(msg.req.Generation, msg.err)
		return false, current
	}
	records, _ := msg.records.([]T)
	return s.detail.CommitLookup(msg.req.Generation, records), current
}

// rebuildRows projects the committed items and keeps the selection on the
// same record when it is still on the page.
func (s *listScreen[T]) rebuildRows() {
	var selectedID string
	if s.selected >= 0 && s.selected < len(s.rows) {
		selectedID = s.rows[s.selected].ID
	}
	s.rows = rows.Project(s.list.Items(), s.projection, func(rec T) {
		id := ""
		if s.projection.ID != nil {
			id = s.projection.ID(rec)
		}
		s.detail.Select(rec, id)
	})
	if idx := rows.IndexOf(s.rows, selectedID); idx >= 0 {
		s.selected = idx
		return
	}
	s.moveTo(s.selected)
}

func (s *listScreen[T]) move(delta int) {
	s.moveTo(s.selected + delta)
}

func (s *listScreen[T]) moveTo(index int) {
	if len(s.rows) == 0 {
		s.selected = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.rows) {
		index = len(s.rows) - 1
	}
	s.selected = index
}

func (s *listScreen[T]) openSelected() string {
	if s.selected < 0 || s.selected >= len(s.rows) {
		return ""
	}
	row := s.rows[s.selected]
	if row.OnClick != nil {
		row.OnClick()
	}
	return row.ID
}

func (s *listScreen[T]) lookup(id string) tea.Cmd {
	req, ok := s.detail.Lookup(id)
	if !ok {
		return nil
	}
	return s.fetchLookup(req)
}

func (s *listScreen[T]) closeSlide() {
	s.detail.Close()
}

func (s *listScreen[T]) slide() (any, string, bool) {
	rec, open := s.detail.Record()
	if !open {
		return nil, "", false
	}
	return rec, s.detail.ID(), true
}

func (s *listScreen[T]) view() tableView {
	st := s.list.State()
	from, to := st.Range()
	return tableView{
		title:     s.name,
		headers:   s.projection.Headers(),
		widths:    s.projection.Widths(),
		rows:      s.rows,
		selected:  s.selected,
		page:      st.Page,
		pageCount: st.PageCount(),
		pageSize:  st.PageSize,
		total:     st.Total,
		from:      from,
		to:        to,
		hasNext:   st.HasNext(),
		hasPrev:   st.HasPrev(),
		loaded:    st.Loaded,
		pending:   s.list.Pending(),
		err:       st.Err,
		empty:     s.emptyText,
	}
}
