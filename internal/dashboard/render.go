package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/stats"
)

const emptyMessage = "Open a CSV file to get started (press o)"

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9AC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.renderStatus(), m.width)
}

func (m *Model) renderStatus() string {
	source := m.state.Source
	if source == "" {
		source = "none"
	}
	runner := string(m.current.Selection)
	if m.current.Selection.IsAll() {
		runner = "All Runners"
	}
	status := fmt.Sprintf("File: %s  Runner: %s  Runs: %d  Window: %d", source, runner, m.current.Rows, m.cfg.Smooth)
	return headerStyle.Render(truncateLine(status, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Runner: r/R  Open: o  Window: -/=  Scroll: up/down  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.openMode {
		help := "enter: load  esc: cancel"
		if len(m.recent) > 0 {
			help = "enter: load  tab: recent files  esc: cancel"
		}
		return m.pathInput.View() + "\n" + headerStyle.Render(help)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabRunners {
		return fitLines(m.renderRunners(), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

// placeholder returns the body shown when there is nothing to chart.
func (m *Model) placeholder() (string, bool) {
	switch {
	case m.loading != "":
		return fmt.Sprintf("Loading %s...", m.loading), true
	case m.state.Err != nil:
		return errorStyle.Render(wrapText(m.state.Err.Error(), m.bodyWidth())), true
	case !m.state.HasData():
		return emptyMessage, true
	}
	return "", false
}

func (m *Model) renderOverview(width int) string {
	if text, ok := m.placeholder(); ok {
		return text
	}
	cards := renderSummaryCards(m.current.Stats, width)
	trend := headerStyle.Render("Trend: ") + truncateLine(stats.Sparkline(m.current.Timeline.Values()), width-7)
	timeline := m.renderTimeline(width)
	return strings.TrimRight(cards+"\n"+trend+"\n\n"+timeline, "\n")
}

func renderSummaryCards(s model.Statistics, width int) string {
	cards := []string{
		metricCard("Total", fmt.Sprintf("%.2f", s.Total)),
		metricCard("Average", fmt.Sprintf("%.2f", s.Average)),
		metricCard("Minimum", fmt.Sprintf("%.2f", s.Min)),
		metricCard("Maximum", fmt.Sprintf("%.2f", s.Max)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderTimeline(width int) string {
	var buf bytes.Buffer
	if err := stats.RenderTimelineWithSize(&buf, m.current.Timeline, m.cfg.Smooth, width, m.cfg.PlotHeight, m.cfg.Color); err != nil {
		return fmt.Sprintf("Failed to render timeline: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderRunners() string {
	if text, ok := m.placeholder(); ok {
		return text
	}
	if !m.current.ShowPersons {
		notice := fmt.Sprintf("Showing %s only. Per-runner totals are available for All Runners (press r).", m.current.Selection)
		return wrapText(notice, m.bodyWidth())
	}
	var buf bytes.Buffer
	if err := stats.RenderPersonBars(&buf, m.current.Persons, m.bodyWidth()); err != nil {
		return fmt.Sprintf("Failed to render runners: %v", err)
	}
	tableView := tableMutedStyle.Render(m.runnerTable.View())
	return strings.TrimRight(tableView+"\n\n"+buf.String(), "\n")
}

func runnerColumns(persons model.GroupedSeries) []table.Column {
	nameWidth := len("Runner")
	for _, p := range persons {
		nameWidth = max(nameWidth, runewidth.StringWidth(p.Key))
	}
	return []table.Column{
		{Title: "Runner", Width: min(nameWidth, 24)},
		{Title: "Miles", Width: 10},
		{Title: "Share", Width: 7},
	}
}

func runnerRows(persons model.GroupedSeries) []table.Row {
	total := 0.0
	for _, p := range persons {
		total += p.Miles
	}
	rows := make([]table.Row, 0, len(persons))
	for _, p := range persons {
		share := 0.0
		if total > 0 {
			share = p.Miles / total * 100
		}
		rows = append(rows, table.Row{
			p.Key,
			fmt.Sprintf("%.2f", p.Miles),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}

func buildRunnerTable(persons model.GroupedSeries, width, height int) table.Model {
	t := table.New(
		table.WithColumns(runnerColumns(persons)),
		table.WithRows(runnerRows(persons)),
		table.WithHeight(max(1, height)),
	)
	t.SetWidth(width)
	t.SetStyles(runnerTableStyles())
	return t
}

func runnerTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func renderHistory(loads []model.LoadRecord, enabled bool, errMsg string, width int) string {
	if !enabled {
		return "Load history is disabled."
	}
	if errMsg != "" {
		return errorStyle.Render("History unavailable: " + errMsg)
	}
	if len(loads) == 0 {
		return "No files loaded yet."
	}
	lines := make([]string, 0, len(loads))
	for _, rec := range loads {
		when := rec.LoadedAt.Local().Format("2006-01-02 15:04")
		if rec.OK() {
			line := fmt.Sprintf("%s  ok   %s  (%d runs, %d runners, %.2f mi)",
				when, rec.Path, rec.Rows, rec.Runners, rec.TotalMiles)
			lines = append(lines, truncateLine(line, width))
			continue
		}
		line := fmt.Sprintf("%s  err  %s  %s", when, rec.Path, rec.Error)
		lines = append(lines, errorStyle.Render(truncateLine(line, width)))
	}
	return strings.Join(lines, "\n")
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// truncateLine shortens plain text to width cells.
func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
