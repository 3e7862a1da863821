// Package dashboard provides the Bubble Tea running dashboard.
package dashboard

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/runboard/internal/logging"
	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/parser"
	"github.com/verte-zerg/runboard/internal/selection"
	"github.com/verte-zerg/runboard/internal/stats"
	"github.com/verte-zerg/runboard/internal/store"
	"github.com/verte-zerg/runboard/internal/view"
)

const (
	tabOverview = iota
	tabRunners
	tabHistory
)

const (
	historyLimit = 50
	recentLimit  = 10
	loadTimeout  = 30 * time.Second
)

// Options configures a dashboard Model.
type Options struct {
	Config model.DashboardConfig
	// Store records loads. Nil disables history.
	Store  *store.Store
	Logger *log.Logger
	// Path is loaded on start when set.
	Path string
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	cfg    model.DashboardConfig
	store  *store.Store
	logger *log.Logger

	state   *view.State
	current view.View
	initial string
	loading string
	// pending is the configured runner, applied to the first successful load.
	pending model.Selection

	loads      []model.LoadRecord
	recent     []string
	recentIdx  int
	historyErr string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	runnerTable table.Model

	width  int
	height int

	openMode  bool
	pathInput textinput.Model
}

type loadedMsg struct {
	path    string
	dataset model.Dataset
	err     error
}

type historyMsg struct {
	loads  []model.LoadRecord
	recent []string
	err    error
}

// NewModel constructs a dashboard model.
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg.Smooth < 1 {
		cfg.Smooth = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Model{
		cfg:     cfg,
		store:   opts.Store,
		logger:  logger,
		state:   view.NewState(cfg.MaxBytes),
		initial: strings.TrimSpace(opts.Path),
		pending: cfg.Runner.Normalize(),
		tabs:    []string{"Overview", "Runners", "History"},
	}
	m.initViewports()
	m.initPathInput()
	m.runnerTable = buildRunnerTable(nil, 0, 1)
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.historyCmd()}
	if m.initial != "" {
		m.loading = m.initial
		cmds = append(cmds, m.loadCmd(m.initial))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case loadedMsg:
		return m, m.applyLoad(msg)
	case historyMsg:
		m.applyHistory(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.openMode {
			return m.updatePathInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "r":
		m.cycleRunner(1)
		return m, nil
	case "R":
		m.cycleRunner(-1)
		return m, nil
	case "=":
		m.cfg.Smooth = nextWindow(m.cfg.Smooth)
		m.renderTabContents()
		return m, nil
	case "-":
		m.cfg.Smooth = prevWindow(m.cfg.Smooth)
		m.renderTabContents()
		return m, nil
	case "o":
		return m.startOpen()
	case "g", "home":
		if m.activeTab == tabRunners {
			m.runnerTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabRunners {
			m.runnerTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	if m.activeTab == tabRunners {
		var cmd tea.Cmd
		m.runnerTable, cmd = m.runnerTable.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

func (m *Model) updatePathInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.setOpenMode(false)
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		m.setOpenMode(false)
		m.loading = path
		return m, m.loadCmd(path)
	case tea.KeyTab:
		m.cycleRecent(1)
		return m, nil
	case tea.KeyShiftTab:
		m.cycleRecent(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) startOpen() (tea.Model, tea.Cmd) {
	m.setOpenMode(true)
	m.recentIdx = -1
	value := m.state.Source
	if value == "" && len(m.recent) > 0 {
		value = m.recent[0]
		m.recentIdx = 0
	}
	m.pathInput.SetValue(value)
	m.pathInput.CursorEnd()
	return m, m.pathInput.Focus()
}

// setOpenMode toggles the path prompt; the footer grows by a line while it
// is shown, so the body is resized.
func (m *Model) setOpenMode(on bool) {
	m.openMode = on
	if !on {
		m.pathInput.Blur()
	}
	m.updateLayout()
}

func (m *Model) cycleRecent(delta int) {
	if len(m.recent) == 0 {
		return
	}
	idx := (m.recentIdx + delta) % len(m.recent)
	if idx < 0 {
		idx += len(m.recent)
	}
	m.recentIdx = idx
	m.pathInput.SetValue(m.recent[idx])
	m.pathInput.CursorEnd()
}

func (m *Model) cycleRunner(delta int) {
	if !m.state.HasData() {
		return
	}
	m.state.Cycle(delta)
	m.rebuild()
	m.logger.Debug("selection changed", "runner", m.state.Selection)
}

func (m *Model) loadCmd(path string) tea.Cmd {
	maxBytes := m.cfg.MaxBytes
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ds, err := parser.LoadAndParse(ctx, path, maxBytes)
		return loadedMsg{path: path, dataset: ds, err: err}
	}
}

func (m *Model) applyLoad(msg loadedMsg) tea.Cmd {
	m.loading = ""
	m.state.Accept(msg.dataset, msg.path, msg.err)
	logging.LoadResult(m.logger, msg.path, len(msg.dataset), msg.err)
	if msg.err == nil && m.pending != "" {
		m.state.Select(m.pending)
		m.pending = ""
	}
	m.rebuild()
	return m.recordCmd(m.loadRecord(msg))
}

func (m *Model) loadRecord(msg loadedMsg) model.LoadRecord {
	rec := model.LoadRecord{Path: msg.path, LoadedAt: time.Now()}
	if abs, err := filepath.Abs(msg.path); err == nil {
		rec.Path = abs
	}
	if msg.err != nil {
		rec.Error = msg.err.Error()
		return rec
	}
	summary := stats.Summarize(msg.dataset)
	rec.Rows = len(msg.dataset)
	rec.Runners = len(selection.DistinctPersons(msg.dataset))
	rec.TotalMiles = summary.Total
	return rec
}

func (m *Model) recordCmd(rec model.LoadRecord) tea.Cmd {
	if m.store == nil || !m.cfg.History {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := st.InsertLoad(ctx, rec); err != nil {
			return historyMsg{err: err}
		}
		return fetchHistory(ctx, st)
	}
}

func (m *Model) historyCmd() tea.Cmd {
	if m.store == nil || !m.cfg.History {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		return fetchHistory(context.Background(), st)
	}
}

func fetchHistory(ctx context.Context, st *store.Store) historyMsg {
	loads, err := st.ListLoads(ctx, historyLimit)
	if err != nil {
		return historyMsg{err: err}
	}
	recent, err := st.RecentPaths(ctx, recentLimit)
	if err != nil {
		return historyMsg{err: err}
	}
	return historyMsg{loads: loads, recent: recent}
}

func (m *Model) applyHistory(msg historyMsg) {
	if msg.err != nil {
		m.historyErr = msg.err.Error()
		m.logger.Error("history unavailable", "err", msg.err)
	} else {
		m.historyErr = ""
		m.loads = msg.loads
		m.recent = msg.recent
	}
	m.renderTabContents()
}

func (m *Model) rebuild() {
	m.current = view.Build(m.state)
	_, bodyHeight, _ := m.layoutHeights()
	m.runnerTable.SetColumns(runnerColumns(m.current.Persons))
	m.runnerTable.SetRows(runnerRows(m.current.Persons))
	m.setRunnerTableSize(m.bodyWidth(), bodyHeight)
	m.renderTabContents()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initPathInput() {
	input := textinput.New()
	input.Prompt = "Open: "
	input.Placeholder = "path/to/runs.csv"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.pathInput = input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.openMode {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) bodyWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setRunnerTableSize(m.width, bodyHeight)
	m.pathInput.Width = max(10, m.width-lipgloss.Width(m.pathInput.Prompt)-2)
}

func (m *Model) setRunnerTableSize(width, bodyHeight int) {
	rows := len(m.current.Persons)
	height := min(rows+1, max(3, bodyHeight/2))
	m.runnerTable.SetWidth(width)
	m.runnerTable.SetHeight(max(1, height))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRunners {
		m.runnerTable.Focus()
	} else {
		m.runnerTable.Blur()
	}
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.bodyWidth()
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabHistory].SetContent(renderHistory(m.loads, m.historyEnabled(), m.historyErr, width))
}

func (m *Model) historyEnabled() bool {
	return m.store != nil && m.cfg.History
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
