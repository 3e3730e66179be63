package visualization

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/dd0wney/cluso-polarity/pkg/polarization"
)

// palette colours communities; IDs wrap around.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	unassignedColor = "#cccccc"
	nodeRadius      = 6
)

// CommunityColor returns the fill colour for community c.
func CommunityColor(c int) string {
	if c < 0 {
		return unassignedColor
	}
	return palette[c%len(palette)]
}

// WriteSVG renders the visualization. Boundary nodes get a thick black
// outline and excluded nodes are drawn hollow.
func (v *Visualization) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		v.Width, v.Height, v.Width, v.Height)
	bw.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	bw.WriteString(`<g stroke="#999999" stroke-opacity="0.6">` + "\n")
	for _, e := range v.Edges {
		from, okF := v.Positions[e.From]
		to, okT := v.Positions[e.To]
		if !okF || !okT || e.IsSelfLoop() {
			continue
		}
		fmt.Fprintf(bw, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", from.X, from.Y, to.X, to.Y)
	}
	bw.WriteString("</g>\n")

	bw.WriteString("<g>\n")
	for _, n := range v.Nodes {
		pos, ok := v.Positions[n.ID]
		if !ok {
			continue
		}
		fill := CommunityColor(n.Community)
		stroke, width := "#ffffff", 1.5
		switch n.Role {
		case polarization.Boundary.String():
			stroke, width = "#000000", 3
		case polarization.Excluded.String():
			stroke, fill = fill, "#ffffff"
		}
		fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%d" fill="%s" stroke="%s" stroke-width="%.1f"><title>%s (community %d)</title></circle>`+"\n",
			pos.X, pos.Y, nodeRadius, fill, stroke, width, html.EscapeString(n.ID), n.Community)
	}
	bw.WriteString("</g>\n</svg>\n")

	return bw.Flush()
}
