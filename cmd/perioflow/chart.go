package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perioflow/perioflow/cmd/perioflow/tui"
	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/charting"
)

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart a new patient in the interactive interface",
		Long: `Open the charting interface for a new chart.

The setup form asks for the patient, the measurements, the missing teeth
and the segment order. Values are then entered on the keypad; the chart is
stored when you choose Save on the summary screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			return a.runInterface(cmd, nil, s, false)
		},
	}
	cmd.AddCommand(
		newChartNewCmd(a),
		newChartOpenCmd(a),
		newChartDeleteCmd(a),
	)
	return cmd
}

// runInterface blocks on the charting interface and reports how it ended.
func (a *app) runInterface(cmd *cobra.Command, c *chart.Chart, s charting.Settings, skipSetup bool) error {
	ctx := cmd.Context()
	m, err := tui.Run(tui.Options{
		Chart:     c,
		Settings:  s,
		SkipSetup: skipSetup,
		Log:       a.log,
		Save: func(c *chart.Chart, s charting.Settings) error {
			if err := a.saveChart(ctx, c); err != nil {
				return err
			}
			return a.saveSettings(ctx, s)
		},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	saved, cancelled, _ := m.Result()
	switch {
	case saved:
		fmt.Fprintf(out, "Chart %s saved.\n", m.Engine().Chart().ID)
	case cancelled:
		fmt.Fprintln(out, "Cancelled.")
	default:
		fmt.Fprintln(out, "Chart discarded.")
	}
	return nil
}

func newChartNewCmd(a *app) *cobra.Command {
	var patient string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty chart and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			c := chart.New(patient)
			c.SetMissing(s.Missing)
			if err := a.saveChart(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&patient, "patient", "", "patient name or number")
	return cmd
}

func newChartOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <chart-id>",
		Short: "Continue a stored chart in the interactive interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e, err := a.engine(cmd.Context(), c)
			if err != nil {
				return err
			}
			return a.runInterface(cmd, c, e.Settings(), true)
		},
	}
}

func newChartDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chart-id>",
		Short: "Delete a stored chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteChart(cmd.Context(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart %s deleted.\n", c.ID)
			return nil
		},
	}
}
