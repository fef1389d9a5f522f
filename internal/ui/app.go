package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/ffscope/internal/appstate"
	"github.com/five82/ffscope/internal/config"
	"github.com/five82/ffscope/internal/filters"
	"github.com/five82/ffscope/internal/firefly"
	"github.com/five82/ffscope/internal/logging"
	"github.com/five82/ffscope/internal/notify"
	"github.com/five82/ffscope/internal/prefs"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    firefly.API
	Store     *appstate.Store
	Notifier  *notify.Notifier
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	View      string // approvals or pools
	SlideID   string // record to open on start
	Now       func() time.Time
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    firefly.API
	store     *appstate.Store
	notifier  *notify.Notifier
	config    config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time
	copy      func(string) error
	logger    *log.Logger

	// UI state
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme
	width   int
	height  int
	ready   bool

	// Data state
	snapshot appstate.Snapshot
	screens  map[screenID]screen
	active   screenID

	// Slide
	slideViewport viewport.Model

	// Toast
	notice    notify.Notice
	hasNotice bool

	// Overlays
	showHelp   bool
	filter     filterModal
	namespaces namespacePicker
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Store
	if store == nil {
		store = appstate.NewStore(appstate.Options{Namespace: opts.Config.Namespace, Now: now})
	}
	snap := store.Snapshot()

	pageSize := opts.Prefs.PageSize
	if pageSize <= 0 {
		pageSize = opts.Config.PageSize
	}

	timeout := opts.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cfg := screenConfig{
		ctx:        ctx,
		timeout:    timeout,
		namespace:  snap.Namespace,
		pageSize:   pageSize,
		dateFilter: filters.NewDateFilter(snap.CreatedFilter, now).FilterString,
		reporter:   opts.Notifier,
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     store,
		notifier:  opts.Notifier,
		config:    opts.Config,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		now:       now,
		copy:      copyFn,
		logger:    logging.For("ui"),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		theme:     GetTheme(opts.Prefs.Theme),
		snapshot:  snap,
		screens: map[screenID]screen{
			screenApprovals: newApprovalsScreen(opts.Client, cfg),
			screenPools:     newPoolsScreen(opts.Client, cfg),
		},
		active: parseScreen(opts.View),
	}
	m.filter = newFilterModal()

	slideID := opts.SlideID
	if slideID == "" {
		slideID = snap.SlideID
	}
	if slideID != "" {
		// Records the id; the lookup is issued when the screen mounts.
		m.store.OpenSlide(slideID)
		m.snapshot.SlideID = m.store.Snapshot().SlideID
		m.current().lookup(slideID)
	}
	return m
}

func (m Model) current() screen {
	return m.screens[m.active]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		waitForChange(m.ctx, m.store),
		m.spinner.Tick,
		m.current().mount(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.slideViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.help.Width = msg.Width
		m.updateSlideViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case stateChangedMsg:
		cmd := m.applyState()
		return m, tea.Batch(cmd, waitForChange(m.ctx, m.store))

	case listMsg:
		if s, ok := m.screens[msg.screen]; ok {
			if s.handleList(msg) {
				m.logger.Debug("page committed", "list", s.title(), "page", msg.req.Page, "gen", msg.req.Generation)
			}
		}
		return m, nil

	case lookupMsg:
		s, ok := m.screens[msg.screen]
		if !ok {
			return m, nil
		}
		switch opened, current := s.handleLookup(msg); {
		case opened:
			m.store.OpenSlide(msg.req.ID)
		case current && m.snapshot.SlideID == msg.req.ID:
			// An unresolved deep link leaves no slide behind.
			m.store.CloseSlide()
		}
		m.snapshot.SlideID = m.store.Snapshot().SlideID
		m.updateSlideViewport()
		return m, nil

	case namespacesMsg:
		if msg.err != nil {
			m.namespaces.visible = false
			m.notifier.ReportFetchError(msg.err)
			return m, nil
		}
		m.namespaces.setItems(msg.items, m.snapshot.Namespace)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notifier.Report(notify.LevelWarn, "copy failed: "+msg.err.Error())
		} else {
			m.notifier.Report(notify.LevelInfo, "copied "+truncateMiddle(msg.text, 24))
		}
		m.refreshNotice()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.filter.visible {
		return m.renderFilterModal()
	}
	if m.namespaces.visible {
		return m.renderNamespacePicker()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.filter.visible {
		return m.handleFilterKey(msg)
	}
	if m.namespaces.visible {
		return m.handleNamespaceKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateSlideViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewApprovals):
		return m, m.switchScreen(screenApprovals)

	case key.Matches(msg, m.keys.ViewPools):
		return m, m.switchScreen(screenPools)

	case key.Matches(msg, m.keys.Escape):
		m.closeSlide()
		return m, nil

	case key.Matches(msg, m.keys.CycleCreated):
		m.store.SetCreatedFilter(m.snapshot.CreatedFilter.Next())
		cmd := m.applyState()
		m.prefs.CreatedFilter = string(m.snapshot.CreatedFilter)
		m.savePrefs()
		return m, cmd

	case key.Matches(msg, m.keys.CycleDataView):
		m.store.SetDataView(m.snapshot.DataView.Next())
		m.snapshot = m.store.Snapshot()
		m.prefs.DataView = string(m.snapshot.DataView)
		m.savePrefs()
		m.updateSlideViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		// Acknowledging pending events is the refresh trigger.
		m.store.ClearNewEvents()
		return m, m.applyState()

	case key.Matches(msg, m.keys.Namespace):
		m.namespaces.open()
		return m, fetchNamespacesCmd(m.ctx, m.client, m.config.RequestTimeout)

	case key.Matches(msg, m.keys.Filter):
		m.filter.open(m.current().resource(), m.current().spec())
		return m, m.filter.focusCmd()

	case key.Matches(msg, m.keys.RemoveFilter):
		spec := m.current().spec()
		if spec.Empty() {
			return m, nil
		}
		return m, m.current().setFilter(spec.Remove(len(spec.Conditions) - 1))

	case key.Matches(msg, m.keys.ClearFilters):
		if m.current().spec().Empty() {
			return m, nil
		}
		return m, m.current().setFilter(filters.Spec{})

	case key.Matches(msg, m.keys.NextPage):
		return m, m.current().nextPage()

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.current().prevPage()

	case key.Matches(msg, m.keys.Bigger):
		return m, m.changePageSize(1)

	case key.Matches(msg, m.keys.Smaller):
		return m, m.changePageSize(-1)

	case key.Matches(msg, m.keys.CopyID):
		return m, m.copySelectedID()
	}

	if _, _, open := m.current().slide(); open {
		switch {
		case key.Matches(msg, m.keys.ScrollDown):
			m.slideViewport.HalfViewDown()
			return m, nil
		case key.Matches(msg, m.keys.ScrollUp):
			m.slideViewport.HalfViewUp()
			return m, nil
		}
	}

	return m.handleTableKey(msg)
}

// handleTableKey processes row navigation.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.current()
	switch {
	case key.Matches(msg, m.keys.Down):
		s.move(1)
	case key.Matches(msg, m.keys.Up):
		s.move(-1)
	case key.Matches(msg, m.keys.Top):
		s.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		s.moveTo(len(s.view().rows) - 1)
	case key.Matches(msg, m.keys.Confirm):
		if id := s.openSelected(); id != "" {
			m.store.OpenSlide(id)
			m.snapshot = m.store.Snapshot()
			m.slideViewport.GotoTop()
			m.updateSlideViewport()
		}
	}
	return m, nil
}

// switchScreen unmounts the active list and mounts target. The slide
// belongs to the screen, so it closes.
func (m *Model) switchScreen(target screenID) tea.Cmd {
	if target == m.active {
		return nil
	}
	m.closeSlide()
	m.current().unmount()
	m.active = target
	return m.current().mount()
}

func (m *Model) closeSlide() {
	m.current().closeSlide()
	m.store.CloseSlide()
	m.snapshot = m.store.Snapshot()
}

func (m *Model) changePageSize(dir int) tea.Cmd {
	current := m.current().pageSize()
	next := nextPageSize(config.PageLimits, current, dir)
	if next == current {
		return nil
	}
	var cmd tea.Cmd
	for id, s := range m.screens {
		c := s.setPageSize(next)
		if id == m.active {
			cmd = c
		}
	}
	m.prefs.PageSize = next
	m.savePrefs()
	return cmd
}

// applyState pulls the latest snapshot and forwards list-query changes to
// the screens. Inactive screens record the new inputs without fetching.
func (m *Model) applyState() tea.Cmd {
	next := m.store.Snapshot()
	changes := appstate.Diff(m.snapshot, next)
	m.snapshot = next

	var cmds []tea.Cmd
	if changes.Namespace {
		for _, s := range m.screens {
			cmds = append(cmds, s.setNamespace(next.Namespace))
		}
	}
	if changes.CreatedFilter || changes.Refresh {
		fragment := filters.NewDateFilter(next.CreatedFilter, m.now).FilterString
		for _, s := range m.screens {
			// A refresh re-resolves the window but stays on the current page.
			if changes.CreatedFilter || changes.Namespace {
				cmds = append(cmds, s.setDateFilter(fragment))
				continue
			}
			cmds = append(cmds, s.reload(fragment))
		}
	}
	if changes.SlideClosed {
		m.current().closeSlide()
	}
	if changes.Any() || changes.SlideClosed {
		m.updateSlideViewport()
	}
	return tea.Batch(cmds...)
}

func (m Model) handleTick(time.Time) (tea.Model, tea.Cmd) {
	m.refreshNotice()
	return m, tickCmd(m.pollTick)
}

func (m *Model) refreshNotice() {
	if m.notifier == nil {
		m.hasNotice = false
		return
	}
	m.notice, m.hasNotice = m.notifier.Latest(m.now())
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs", "error", err)
	}
}

func (m *Model) copySelectedID() tea.Cmd {
	id := m.selectedID()
	if id == "" {
		return nil
	}
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{text: id, err: copyFn(id)}
	}
}

// selectedID prefers the open slide's record over the highlighted row.
func (m Model) selectedID() string {
	s := m.current()
	if _, id, open := s.slide(); open && id != "" {
		return id
	}
	v := s.view()
	if v.selected >= 0 && v.selected < len(v.rows) {
		return v.rows[v.selected].ID
	}
	return ""
}

// Messages

type tickMsg time.Time

type stateChangedMsg struct{}

type copiedMsg struct {
	text string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(ctx context.Context, store *appstate.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-store.Changed():
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
