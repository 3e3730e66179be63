// Package report renders scoring runs for terminals and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/partition"
)

// Output formats.
const (
	FormatTable       = "table"
	FormatJSON        = "json"
	FormatYAML        = "yaml"
	FormatCommunities = "communities"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML, FormatCommunities}

// ErrUnknownFormat is returned for formats not in Formats.
var ErrUnknownFormat = errors.New("report: unknown format")

// Write renders r to w in format.
func Write(w io.Writer, r *engine.Report, format string) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return WriteTable(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCommunities:
		return partition.WriteCommunityFile(w, r.Assignment)
	default:
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// document is the machine-readable shape of a report.
type document struct {
	engine.Report `yaml:",inline"`
	Summary       engine.Summary `json:"summary" yaml:"summary"`
}

// WriteJSON writes r and its summary as indented JSON.
func WriteJSON(w io.Writer, r *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Report: *r, Summary: r.Summarize()})
}

// WriteYAML writes r and its summary as YAML.
func WriteYAML(w io.Writer, r *engine.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Report: *r, Summary: r.Summarize()}); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTable renders one row per pair followed by the summary.
func WriteTable(w io.Writer, r *engine.Report) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Bold(true).Padding(0, 1)
	cell := re.NewStyle().Padding(0, 1)
	number := cell.Align(lipgloss.Right)
	undefined := cell.Foreground(lipgloss.Color("#888888"))

	rows := make([][]string, len(r.Polarization))
	for i, ps := range r.Polarization {
		mod := "undefined"
		if i < len(r.Modularity) {
			mod = r.Modularity[i].Score.String()
		}
		rows[i] = []string{
			ps.Pair.String(),
			ps.Score.String(),
			strconv.Itoa(ps.BoundaryNodes),
			strconv.Itoa(ps.InteriorNodes),
			strconv.Itoa(ps.ExcludedNodes),
			mod,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("#00FFFF"))).
		Headers("PAIR", "POLARIZATION", "BOUNDARY", "INTERIOR", "EXCLUDED", "MODULARITY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return cell
			case rows[row][col] == "undefined":
				return undefined
			default:
				return number
			}
		})

	s := r.Summarize()
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %d nodes, %d edges, %d communities, policy %s\n",
		r.RunID, r.Nodes, r.Edges, len(r.Communities), r.Policy)
	if len(rows) > 0 {
		b.WriteString(t.String())
		b.WriteString("\n")
	} else {
		b.WriteString("No community pairs to score.\n")
	}
	fmt.Fprintf(&b, "Graph modularity: %s\n", r.GraphModularity)
	if !r.GraphModularity.Defined && r.GraphModularity.Reason != "" {
		fmt.Fprintf(&b, "  (%s)\n", r.GraphModularity.Reason)
	}
	fmt.Fprintf(&b, "Pairs: %d scored, %d undefined", s.Defined, s.Undefined)
	if s.Defined > 0 {
		fmt.Fprintf(&b, "; polarization mean %.4f, min %.4f, max %.4f", s.Mean, s.Min, s.Max)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
