package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// deepPocket is the probing depth drawn in red.
const deepPocket = 5

var cellStyle = lipgloss.NewStyle().Width(9).Align(lipgloss.Center)

// Grid draws both arches with probing depths per site, in screen order:
//
//	18 .. 11 | 21 .. 28
//	48 .. 41 | 31 .. 38
type Grid struct {
	Chart   *chart.Chart
	Missing sequence.MissingSet
	// Active highlights the site or sites of the current step.
	Active *sequence.Step
}

// View renders the grid.
func (g Grid) View() string {
	upper := g.arch(dental.UpperRight, dental.UpperLeft, []dental.Surface{dental.Buccal, dental.Lingual})
	lower := g.arch(dental.LowerRight, dental.LowerLeft, []dental.Surface{dental.Lingual, dental.Buccal})
	return lipgloss.JoinVertical(lipgloss.Left, upper, "", lower)
}

func (g Grid) arch(left, right dental.Quadrant, surfaces []dental.Surface) string {
	teeth := append(dental.TeethForQuadrant(left), dental.TeethForQuadrant(right)...)

	var rows []string
	rows = append(rows, g.row("", teeth, func(t dental.ToothID) string {
		label := fmt.Sprintf("%d", t)
		if g.Missing.Has(t) {
			return MissingStyle.Render(label)
		}
		if g.Active != nil && g.Active.Tooth == t {
			return ActiveStyle.Render(label)
		}
		return label
	}))
	for _, s := range surfaces {
		rows = append(rows, g.row(string(s[0]), teeth, func(t dental.ToothID) string {
			return g.sites(t, s)
		}))
	}
	return strings.Join(rows, "\n")
}

func (g Grid) row(label string, teeth []dental.ToothID, cell func(dental.ToothID) string) string {
	cells := []string{lipgloss.NewStyle().Width(2).Render(label)}
	for i, t := range teeth {
		if i == 8 {
			cells = append(cells, "│")
		}
		cells = append(cells, cellStyle.Render(cell(t)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// sites renders the three probing depths of a surface in bleeding button
// order, which is the on-screen order.
func (g Grid) sites(id dental.ToothID, s dental.Surface) string {
	if g.Missing.Has(id) {
		return MissingStyle.Render("-  -  -")
	}
	var t *chart.Tooth
	if g.Chart != nil {
		t = g.Chart.Tooth(id)
	}

	parts := make([]string, 0, 3)
	for _, site := range dental.BleedingButtonSites(id.Quadrant(), s) {
		text := "."
		style := lipgloss.NewStyle()
		if t != nil {
			if v, ok := t.PD[site]; ok {
				text = fmt.Sprintf("%d", v)
				if v >= deepPocket {
					style = DeepStyle
				}
			}
			if t.Bleeding[site] {
				style = BleedingStyle
				if text == "." {
					text = "*"
				}
			}
		}
		if g.Active != nil && g.Active.Tooth == id && g.Active.Surface == s && g.Active.Covers(site) {
			style = ActiveStyle
		}
		parts = append(parts, style.Render(text))
	}
	return strings.Join(parts, "  ")
}
