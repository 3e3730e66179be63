package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Community Polarization Browser"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.report == nil {
		s.WriteString(contentStyle.Render("No report loaded"))
	} else {
		switch m.current {
		case polarizationView:
			s.WriteString(m.renderPairs("Polarization by Pair", m.polTable.View()))
		case modularityView:
			s.WriteString(m.renderPairs("Pair Modularity", m.modTable.View()))
		case communitiesView:
			s.WriteString(m.renderCommunities())
		case summaryView:
			s.WriteString(m.renderSummary())
		}
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if view(i) == m.current {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) filterLine() string {
	var flags []string
	if m.hideUndefined {
		flags = append(flags, "undefined hidden")
	}
	if m.sortByScore {
		flags = append(flags, "sorted by score")
	}
	if len(flags) == 0 {
		return "scoring order"
	}
	return strings.Join(flags, ", ")
}

func (m Model) renderPairs(title, tableView string) string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.filterLine()))
	s.WriteString("\n\n")
	s.WriteString(tableView)

	if ps, ok := m.selected(); ok {
		var d strings.Builder
		fmt.Fprintf(&d, "Pair %s: %s", ps.Pair, formatScore(ps.Score))
		if !ps.Score.Defined && ps.Score.Reason != "" {
			fmt.Fprintf(&d, "\nReason: %s", ps.Score.Reason)
		}
		if ps.BoundaryEdges > 0 || ps.InteriorEdges > 0 {
			fmt.Fprintf(&d, "\nBoundary edges: %d, interior edges: %d", ps.BoundaryEdges, ps.InteriorEdges)
		}
		s.WriteString("\n\n")
		s.WriteString(detailBoxStyle.Render(d.String()))
	}

	return contentStyle.Render(s.String())
}

func (m Model) renderCommunities() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Communities"))
	s.WriteString("\n\n")

	if m.cuts == nil {
		s.WriteString(helpStyle.Render("Community statistics unavailable"))
		return contentStyle.Render(s.String())
	}

	s.WriteString(m.commTable.View())
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Cut edges: %d of %d (%.1f%%)",
		m.cuts.CutEdges, m.cuts.TotalEdges, m.cuts.CutRatio*100))

	return contentStyle.Render(s.String())
}

func (m Model) renderSummary() string {
	r := m.report
	sum := r.Summarize()

	runContent := fmt.Sprintf(`Run
───────────────
ID:          %s
Started:     %s
Duration:    %s
Policy:      %s

Graph
───────────────
Nodes:       %d
Edges:       %d
Communities: %d
Modularity:  %s`,
		r.RunID,
		r.StartedAt.Format("2006-01-02 15:04:05"),
		r.Duration,
		r.Policy,
		r.Nodes,
		r.Edges,
		len(r.Communities),
		formatScore(r.GraphModularity),
	)
	if !r.GraphModularity.Defined && r.GraphModularity.Reason != "" {
		runContent += "\n             " + r.GraphModularity.Reason
	}

	scoreContent := fmt.Sprintf(`Polarization
───────────────
Pairs:       %d
Defined:     %d
Undefined:   %d`,
		sum.Pairs,
		sum.Defined,
		sum.Undefined,
	)
	if sum.Defined > 0 {
		scoreContent += fmt.Sprintf(`
Mean:        %+.4f
Min:         %+.4f
Max:         %+.4f`, sum.Mean, sum.Min, sum.Max)
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(runContent),
		statsBoxStyle.Render(scoreContent),
	))
}
