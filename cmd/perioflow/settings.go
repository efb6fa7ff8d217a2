package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perioflow/perioflow/cmd/perioflow/tui"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/config"
	"github.com/perioflow/perioflow/internal/sequence"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change the charting settings of a profile",
	}
	cmd.AddCommand(
		newSettingsShowCmd(a),
		newSettingsEditCmd(a),
		newSettingsSetCmd(a),
		newSettingsImportCmd(a),
		newSettingsExportCmd(a),
	)
	return cmd
}

func printSettings(cmd *cobra.Command, profile string, s charting.Settings) {
	out := cmd.OutOrStdout()
	missing := sequence.FormatMissing(s.Missing)
	if missing == "" {
		missing = "none"
	}
	fmt.Fprintf(out, "profile:  %s\n", profile)
	fmt.Fprintf(out, "modes:    %s\n", s.Modes)
	fmt.Fprintf(out, "missing:  %s\n", missing)
	fmt.Fprintf(out, "segments: %s\n", sequence.FormatSegments(s.Segments))
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd, a.cfg.Profile, s)
			return nil
		},
	}
}

func newSettingsEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the settings in a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			s, ok, err := tui.EditSettings(current)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Settings unchanged.")
				return nil
			}
			if err := a.saveSettings(cmd.Context(), s); err != nil {
				return err
			}
			printSettings(cmd, a.cfg.Profile, s)
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var over overrideFlags
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings from flags",
		Example: `  perioflow settings set --modes pd,bop --missing "18, 28"
  perioflow settings set --segments "q1b:LR, q2b:LR, q2l:RL, q1l:RL"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			if err := over.apply(cmd, &s); err != nil {
				return err
			}
			if err := a.saveSettings(cmd.Context(), s); err != nil {
				return err
			}
			printSettings(cmd, a.cfg.Profile, s)
			return nil
		},
	}
	over.register(cmd)
	return cmd
}

func newSettingsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Replace the settings with a YAML profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadProfile(args[0])
			if err != nil {
				return err
			}
			if err := a.saveSettings(cmd.Context(), s); err != nil {
				return err
			}
			printSettings(cmd, a.cfg.Profile, s)
			return nil
		},
	}
}

func newSettingsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Write the settings to a YAML profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			if err := config.SaveProfile(s, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", args[0])
			return nil
		},
	}
}
