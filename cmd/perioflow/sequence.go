package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/sequence"
)

// overrideFlags are the settings flags shared by "sequence" and
// "settings set".
type overrideFlags struct {
	modes    string
	missing  string
	segments string
}

func (o *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.modes, "modes", "", `measurement types, e.g. "pd,re" or "all"`)
	cmd.Flags().StringVar(&o.missing, "missing", "", `missing teeth, e.g. "18, 28"`)
	cmd.Flags().StringVar(&o.segments, "segments", "", `segment order, e.g. "q1b:LR, q2b:LR"`)
}

// apply overwrites the settings named by flags that were set.
func (o *overrideFlags) apply(cmd *cobra.Command, s *charting.Settings) error {
	f := cmd.Flags()
	if f.Changed("modes") {
		m, err := sequence.ParseModes(o.modes)
		if err != nil {
			return err
		}
		s.Modes = m
	}
	if f.Changed("missing") {
		m, err := sequence.ParseMissing(o.missing)
		if err != nil {
			return err
		}
		s.Missing = m
	}
	if f.Changed("segments") {
		segs, err := sequence.ParseSegments(o.segments)
		if err != nil {
			return err
		}
		s.Segments = segs
	}
	return nil
}

func newSequenceCmd(a *app) *cobra.Command {
	var over overrideFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Print the charting sequence for the current settings",
		Long: `Print every step of the charting sequence in order.

The stored profile is used unless --modes, --missing or --segments
override it for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings(cmd.Context())
			if err != nil {
				return err
			}
			if err := over.apply(cmd, &s); err != nil {
				return err
			}

			seq := sequence.Build(s.Missing, s.Modes, s.Segments)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d steps (modes %s)\n", len(seq), s.Modes)
			for i, step := range seq {
				if limit > 0 && i >= limit {
					fmt.Fprintf(out, "... %d more\n", len(seq)-limit)
					break
				}
				fmt.Fprintf(out, "%4d  %s\n", i+1, step)
			}
			return nil
		},
	}
	over.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many steps")
	return cmd
}
