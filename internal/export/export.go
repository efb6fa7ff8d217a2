// Package export writes charts to spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
)

const (
	ChartSheet   = "Chart"
	SummarySheet = "Summary"
)

var chartHeader = []interface{}{
	"Tooth", "Surface", "Status",
	"PD distal", "PD central", "PD mesial",
	"RE distal", "RE central", "RE mesial",
	"CAL distal", "CAL central", "CAL mesial",
	"Bleeding", "Plaque", "MGJ", "Mobility",
}

// WriteXLSX writes c as a workbook with one row per tooth surface and a
// summary sheet.
func WriteXLSX(w io.Writer, c *chart.Chart) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ChartSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.Wrap(err, "add summary sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	if err := writeChart(f, c, bold); err != nil {
		return err
	}
	if err := writeSummary(f, c, bold); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeChart(f *excelize.File, c *chart.Chart, headerStyle int) error {
	if err := f.SetSheetRow(ChartSheet, "A1", &chartHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	last, _ := excelize.CoordinatesToCellName(len(chartHeader), 1)
	if err := f.SetCellStyle(ChartSheet, "A1", last, headerStyle); err != nil {
		return errors.Wrap(err, "style header")
	}

	missing := c.MissingSet()
	row := 2
	for _, id := range dental.AllTeeth() {
		for _, surface := range dental.AllSurfaces() {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := surfaceRow(c.Tooth(id), id, surface, missing.Has(id))
			if err := f.SetSheetRow(ChartSheet, cell, &values); err != nil {
				return errors.Wrapf(err, "write tooth %d", id)
			}
			row++
		}
	}
	return f.SetPanes(ChartSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func surfaceRow(t *chart.Tooth, id dental.ToothID, surface dental.Surface, missing bool) []interface{} {
	row := []interface{}{int(id), string(surface)}
	if missing {
		return append(row, "missing")
	}
	row = append(row, "")

	sites := dental.SitesOf(surface)
	if t == nil {
		t = &chart.Tooth{}
	}
	for _, site := range sites {
		row = append(row, intCell(t.PD, site))
	}
	for _, site := range sites {
		row = append(row, intCell(t.RE, site))
	}
	for _, site := range sites {
		if cal, ok := t.CAL(site); ok {
			row = append(row, cal)
		} else {
			row = append(row, "")
		}
	}
	row = append(row, flagged(t.Bleeding, sites), flagged(t.Plaque, sites))

	if v, ok := t.MGJ[surface]; ok {
		row = append(row, v)
	} else {
		row = append(row, "")
	}
	if t.Mobility != nil && surface == dental.Buccal {
		row = append(row, *t.Mobility)
	} else {
		row = append(row, "")
	}
	return row
}

func intCell(m map[dental.Site]int, site dental.Site) interface{} {
	if v, ok := m[site]; ok {
		return v
	}
	return ""
}

// flagged lists the sites set in m, e.g. "db mb".
func flagged(m map[dental.Site]bool, sites [3]dental.Site) string {
	var out []string
	for _, s := range sites {
		if m[s] {
			out = append(out, string(s))
		}
	}
	return strings.Join(out, " ")
}

func writeSummary(f *excelize.File, c *chart.Chart, headerStyle int) error {
	s := c.Summary()
	rows := [][]interface{}{
		{"Patient", c.Patient},
		{"Chart", c.ID},
		{"Present teeth", s.PresentTeeth},
		{"Sites probed", s.SitesProbed},
		{"Mean PD (mm)", round(s.MeanPD)},
		{"Mean CAL (mm)", round(s.MeanCAL)},
		{"Max CAL (mm)", s.MaxCAL},
		{"Sites PD >= 4", s.PD4Plus},
		{"Sites PD >= 6", s.PD6Plus},
		{"Bleeding sites", s.BleedingSites},
		{"BOP %", round(s.BOPPercent)},
		{"Plaque sites", s.PlaqueSites},
		{"Plaque index %", round(s.PlaquePercent)},
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return errors.Wrap(err, "write summary")
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return errors.Wrap(err, "style summary")
	}
	return f.SetColWidth(SummarySheet, "A", "A", 18)
}

func round(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
