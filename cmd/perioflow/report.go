package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/screens"
	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/export"
)

func siteValues(surface dental.Surface, value func(dental.Site) (int, bool)) string {
	var parts []string
	for _, site := range dental.SitesOf(surface) {
		if v, ok := value(site); ok {
			parts = append(parts, fmt.Sprintf("%d", v))
		} else {
			parts = append(parts, ".")
		}
	}
	return strings.Join(parts, " ")
}

func bleedingSites(t *chart.Tooth) string {
	var out []string
	for _, surface := range dental.AllSurfaces() {
		for _, site := range dental.SitesOf(surface) {
			if t.Bleeding[site] {
				out = append(out, string(site))
			}
		}
	}
	return strings.Join(out, " ")
}

// chartTable renders one row per tooth with recorded values.
func chartTable(c *chart.Chart) string {
	columns := []table.Column{
		{Title: "Tooth", Width: 5},
		{Title: "PD buccal", Width: 10},
		{Title: "PD lingual", Width: 10},
		{Title: "CAL buccal", Width: 10},
		{Title: "CAL lingual", Width: 11},
		{Title: "BOP", Width: 16},
	}

	var rows []table.Row
	for _, id := range c.RecordedTeeth() {
		t := c.Tooth(id)
		pd := func(s dental.Site) (int, bool) {
			v, ok := t.PD[s]
			return v, ok
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", id),
			siteValues(dental.Buccal, pd),
			siteValues(dental.Lingual, pd),
			siteValues(dental.Buccal, t.CAL),
			siteValues(dental.Lingual, t.CAL),
			bleedingSites(t),
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
	)
	return tbl.View()
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <chart-id>",
		Short: "Print a stored chart with its indices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(c.RecordedTeeth()) == 0 {
				fmt.Fprintln(out, "No values recorded.")
			} else {
				fmt.Fprintln(out, chartTable(c))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, screens.SummaryText(c))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <chart-id>",
		Short: "Write a stored chart to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = c.ID + ".xlsx"
			}

			f, err := os.Create(path)
			if err != nil {
				return errors.Wrap(err, "create workbook")
			}
			if err := export.WriteXLSX(f, c); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "close workbook")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default <chart-id>.xlsx)")
	return cmd
}

func newShareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "share <chart-id>",
		Short: "Publish a snapshot of a chart under a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadChart(ctx, args[0])
			if err != nil {
				return err
			}
			svc, err := a.shares(ctx)
			if err != nil {
				return err
			}
			code, err := svc.Share(ctx, c)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, code)
			fmt.Fprintf(out, "valid until %s\n", time.Now().Add(a.cfg.ShareTTL).Format(time.RFC1123))
			return nil
		},
	}
}

func newRedeemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <code>",
		Short: "Copy a shared chart into this store and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.shares(ctx)
			if err != nil {
				return err
			}
			c, err := svc.Redeem(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.saveChart(ctx, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}
}
