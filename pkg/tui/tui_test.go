package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/graph"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// testEngine scores the path 0-1-2-3 plus the edge 4-5 split into
// communities {0,1}, {2,3} and {4,5}
func testEngine(t *testing.T) (*engine.Engine, *graph.Graph) {
	t.Helper()
	b := graph.NewBuilder()
	for _, e := range [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"4", "5"}} {
		require.NoError(t, b.AddEdge(e[0], e[1], 1))
	}
	g := b.Build()
	eng, err := engine.NewFromCommunityList(g, partition.CommunityList{0, 0, 1, 1, 2, 2})
	require.NoError(t, err)
	return eng, g
}

func testReport(t *testing.T) *engine.Report {
	t.Helper()
	eng, _ := testEngine(t)
	r, err := eng.Run(context.Background())
	require.NoError(t, err)
	return r
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestNew_Rows(t *testing.T) {
	m := New(testReport(t))

	require.Len(t, m.polTable.Rows(), 3)
	assert.Equal(t, "(0, 1)", m.polTable.Rows()[0][0])
	assert.Equal(t, "+0.0000", m.polTable.Rows()[0][1])
	assert.Equal(t, "undefined", m.polTable.Rows()[1][1])
	assert.Len(t, m.modTable.Rows(), 3)
	assert.Empty(t, m.commTable.Rows(), "no cut metrics given")
}

func TestUpdate_Tabs(t *testing.T) {
	m := sized(t, New(testReport(t)))
	assert.Equal(t, polarizationView, m.current)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, modularityView, m.current)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, summaryView, m.current, "shift+tab wraps around")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, polarizationView, m.current, "tab wraps around")
}

func TestUpdate_HideUndefined(t *testing.T) {
	m := New(testReport(t))

	m, _ = press(t, m, runeKey('u'))
	require.Len(t, m.polTable.Rows(), 1)
	assert.Equal(t, "(0, 1)", m.polTable.Rows()[0][0])

	m, _ = press(t, m, runeKey('u'))
	assert.Len(t, m.polTable.Rows(), 3)
}

func TestVisible_SortByScore(t *testing.T) {
	m := Model{sortByScore: true}
	scores := []engine.PairScore{
		{Pair: partition.Pair{A: 0, B: 1}, Score: engine.Undefined("no boundary")},
		{Pair: partition.Pair{A: 0, B: 2}, Score: engine.Defined(-0.2)},
		{Pair: partition.Pair{A: 1, B: 2}, Score: engine.Defined(0.3)},
		{Pair: partition.Pair{A: 1, B: 3}, Score: engine.Defined(0.3)},
	}

	got := m.visible(scores)
	order := make([]string, len(got))
	for i, ps := range got {
		order[i] = ps.Pair.String()
	}
	assert.Equal(t, []string{"(1, 2)", "(1, 3)", "(0, 2)", "(0, 1)"}, order)

	// The input is not reordered
	assert.Equal(t, "(0, 1)", scores[0].Pair.String())
}

func TestView(t *testing.T) {
	m := New(testReport(t))
	assert.Equal(t, "Initializing...", m.View())

	m = sized(t, m)
	out := m.View()
	assert.Contains(t, out, "Community Polarization Browser")
	assert.Contains(t, out, "Polarization by Pair")
	assert.Contains(t, out, "(0, 1)")
	assert.Contains(t, out, "Pair (0, 1): +0.0000")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	out = m.View()
	assert.Contains(t, out, "Undefined:   2")
	assert.Contains(t, out, "Communities: 3")
}

func TestView_SelectedUndefinedShowsReason(t *testing.T) {
	m := sized(t, New(testReport(t)))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	ps, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, partition.Pair{A: 0, B: 2}, ps.Pair)
	assert.False(t, ps.Score.Defined)
	assert.Contains(t, m.View(), "Reason: "+ps.Score.Reason)
}

func TestView_Communities(t *testing.T) {
	eng, g := testEngine(t)
	r, err := eng.Run(context.Background())
	require.NoError(t, err)

	cuts := partition.ComputeCutMetrics(g, eng.Assignment().Partition)
	m := sized(t, New(r, WithCutMetrics(cuts)))
	require.Len(t, m.commTable.Rows(), 3)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, communitiesView, m.current)
	assert.Contains(t, m.View(), "Cut edges: 1 of 4")

	noCuts := sized(t, New(r))
	noCuts, _ = press(t, noCuts, tea.KeyMsg{Type: tea.KeyTab})
	noCuts, _ = press(t, noCuts, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, noCuts.View(), "Community statistics unavailable")
}

func TestUpdate_Refresh(t *testing.T) {
	eng, _ := testEngine(t)
	first, err := eng.Run(context.Background())
	require.NoError(t, err)

	m := sized(t, New(first, WithRefresh(eng.Run)))
	m, cmd := press(t, m, runeKey('r'))
	require.NotNil(t, cmd)
	assert.True(t, m.refreshing)

	// A second press while running is ignored
	_, again := press(t, m, runeKey('r'))
	assert.Nil(t, again)

	msg := cmd()
	rm, ok := msg.(reportMsg)
	require.True(t, ok)
	require.NoError(t, rm.err)

	m, _ = press(t, m, msg)
	assert.False(t, m.refreshing)
	assert.NotEqual(t, first.RunID, m.report.RunID)
	assert.Contains(t, m.message, "finished: 3 pairs scored")
	assert.False(t, m.messageErr)
}

func TestUpdate_RefreshError(t *testing.T) {
	boom := errors.New("graph source unavailable")
	m := New(testReport(t), WithRefresh(func(context.Context) (*engine.Report, error) {
		return nil, boom
	}))
	previous := m.report

	m, cmd := press(t, m, runeKey('r'))
	m, _ = press(t, m, cmd())

	assert.True(t, m.messageErr)
	assert.Contains(t, m.message, "graph source unavailable")
	assert.Same(t, previous, m.report)
}

func TestUpdate_RefreshUnavailable(t *testing.T) {
	m := New(testReport(t))
	m, cmd := press(t, m, runeKey('r'))
	assert.Nil(t, cmd)
	assert.Equal(t, "Rerun not available", m.message)
}

func TestUpdate_Quit(t *testing.T) {
	m := New(testReport(t))
	_, cmd := press(t, m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
