// Package tui is an interactive terminal browser for scoring reports.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

type view int

const (
	polarizationView view = iota
	modularityView
	communitiesView
	summaryView
	viewCount
)

var tabNames = []string{"Polarization", "Modularity", "Communities", "Summary"}

// RefreshFunc recomputes the report when the user asks for a rerun
type RefreshFunc func(ctx context.Context) (*engine.Report, error)

// Option configures a Model
type Option func(*Model)

// WithCutMetrics enables the Communities view
func WithCutMetrics(cuts *partition.CutMetrics) Option {
	return func(m *Model) {
		m.cuts = cuts
	}
}

// WithRefresh enables reruns with the "r" key
func WithRefresh(fn RefreshFunc) Option {
	return func(m *Model) {
		m.refresh = fn
	}
}

// Model is the bubbletea model of the report browser
type Model struct {
	report  *engine.Report
	cuts    *partition.CutMetrics
	refresh RefreshFunc

	current   view
	polTable  table.Model
	modTable  table.Model
	commTable table.Model
	polRows   []engine.PairScore
	modRows   []engine.PairScore

	help help.Model
	keys keyMap

	hideUndefined bool
	sortByScore   bool
	refreshing    bool

	width      int
	height     int
	message    string
	messageErr bool
}

// reportMsg carries the outcome of a rerun
type reportMsg struct {
	report *engine.Report
	err    error
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// New creates a browser over r
func New(r *engine.Report, opts ...Option) Model {
	m := Model{
		report: r,
		polTable: newTable([]table.Column{
			{Title: "Pair", Width: 10},
			{Title: "Polarization", Width: 14},
			{Title: "Boundary", Width: 9},
			{Title: "Interior", Width: 9},
			{Title: "Excluded", Width: 9},
		}),
		modTable: newTable([]table.Column{
			{Title: "Pair", Width: 10},
			{Title: "Modularity", Width: 14},
			{Title: "Note", Width: 40},
		}),
		commTable: newTable([]table.Column{
			{Title: "Community", Width: 10},
			{Title: "Size", Width: 8},
			{Title: "Internal", Width: 9},
			{Title: "Cut", Width: 8},
			{Title: "Density", Width: 9},
		}),
		help: help.New(),
		keys: keys,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rebuild()
	return m
}

func formatScore(s engine.Score) string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%+.4f", s.Value)
}

// visible applies the undefined filter and score ordering to scores
func (m Model) visible(scores []engine.PairScore) []engine.PairScore {
	out := make([]engine.PairScore, 0, len(scores))
	for _, ps := range scores {
		if m.hideUndefined && !ps.Score.Defined {
			continue
		}
		out = append(out, ps)
	}
	if m.sortByScore {
		// Highest first, undefined last, ties keep scoring order
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Score, out[j].Score
			if a.Defined != b.Defined {
				return a.Defined
			}
			return a.Defined && a.Value > b.Value
		})
	}
	return out
}

// rebuild refreshes every table from the current report and toggles
func (m *Model) rebuild() {
	if m.report == nil {
		return
	}

	m.polRows = m.visible(m.report.Polarization)
	rows := make([]table.Row, len(m.polRows))
	for i, ps := range m.polRows {
		rows[i] = table.Row{
			ps.Pair.String(),
			formatScore(ps.Score),
			strconv.Itoa(ps.BoundaryNodes),
			strconv.Itoa(ps.InteriorNodes),
			strconv.Itoa(ps.ExcludedNodes),
		}
	}
	m.polTable.SetRows(rows)
	m.polTable.SetCursor(0)

	m.modRows = m.visible(m.report.Modularity)
	rows = make([]table.Row, len(m.modRows))
	for i, ps := range m.modRows {
		rows[i] = table.Row{ps.Pair.String(), formatScore(ps.Score), ps.Score.Reason}
	}
	m.modTable.SetRows(rows)
	m.modTable.SetCursor(0)

	if m.cuts != nil {
		rows = make([]table.Row, len(m.cuts.Communities))
		for i, c := range m.cuts.Communities {
			rows[i] = table.Row{
				strconv.Itoa(c.ID),
				strconv.Itoa(c.Size),
				strconv.Itoa(c.InternalEdges),
				strconv.Itoa(c.CutEdges),
				fmt.Sprintf("%.3f", c.Density),
			}
		}
		m.commTable.SetRows(rows)
	}
}

func (m Model) refreshCmd() tea.Cmd {
	fn := m.refresh
	return func() tea.Msg {
		r, err := fn(context.Background())
		return reportMsg{report: r, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-18, 5)
		m.polTable.SetHeight(h)
		m.modTable.SetHeight(h)
		m.commTable.SetHeight(h)

	case reportMsg:
		m.refreshing = false
		if msg.err != nil {
			m.message = fmt.Sprintf("Rerun failed: %v", msg.err)
			m.messageErr = true
			return m, nil
		}
		m.report = msg.report
		m.rebuild()
		m.message = fmt.Sprintf("Run %s finished: %d pairs scored", msg.report.RunID, len(msg.report.Polarization))
		m.messageErr = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.current = (m.current + 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.current = (m.current + viewCount - 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.Undefined):
			m.hideUndefined = !m.hideUndefined
			m.rebuild()
			return m, nil

		case key.Matches(msg, m.keys.Sort):
			m.sortByScore = !m.sortByScore
			m.rebuild()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			if m.refresh == nil {
				m.message = "Rerun not available"
				m.messageErr = true
				return m, nil
			}
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			m.message = "Rerunning..."
			m.messageErr = false
			return m, m.refreshCmd()
		}
	}

	// Update focused table
	switch m.current {
	case polarizationView:
		m.polTable, cmd = m.polTable.Update(msg)
	case modularityView:
		m.modTable, cmd = m.modTable.Update(msg)
	case communitiesView:
		m.commTable, cmd = m.commTable.Update(msg)
	}

	return m, cmd
}

// selected returns the pair score under the cursor of the active view
func (m Model) selected() (engine.PairScore, bool) {
	var rows []engine.PairScore
	var cursor int
	switch m.current {
	case polarizationView:
		rows, cursor = m.polRows, m.polTable.Cursor()
	case modularityView:
		rows, cursor = m.modRows, m.modTable.Cursor()
	default:
		return engine.PairScore{}, false
	}
	if cursor < 0 || cursor >= len(rows) {
		return engine.PairScore{}, false
	}
	return rows[cursor], true
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
