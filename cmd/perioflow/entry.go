package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/screens"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/keypad"
	"github.com/perioflow/perioflow/internal/voice"
)

// position starts charting, at the selection in at when one is given.
func position(e *charting.Engine, at string) error {
	if at == "" {
		return e.Start()
	}
	tooth, surface, site, err := screens.ParseSelection(at)
	if err != nil {
		return errors.WithHint(err, `select a position like "16 b" or "16 b mb"`)
	}
	if site != "" {
		return e.Select(tooth, surface, site)
	}
	return e.Select(tooth, surface)
}

func printNext(w io.Writer, e *charting.Engine) {
	if step, ok := e.Active(); ok {
		fmt.Fprintf(w, "next: %s\n", step)
		return
	}
	fmt.Fprintln(w, "charting complete")
}

func siteList(sites []dental.Site) string {
	if len(sites) == 0 {
		return "none"
	}
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = string(s)
	}
	return strings.Join(out, " ")
}

func printEntry(w io.Writer, res keypad.Result) {
	switch {
	case res.Mark == keypad.Mobility:
		fmt.Fprintf(w, "%d mobility = %d\n", res.Step.Tooth, res.Value)
	case res.Mark != keypad.NoMark:
		fmt.Fprintf(w, "%d %s %s = %s\n", res.Step.Tooth, res.Step.Surface, res.Mark, siteList(res.Marked))
	case res.Step.Type == dental.BOP:
		fmt.Fprintf(w, "%s = %s\n", res.Step, siteList(res.Bleeding))
	default:
		fmt.Fprintf(w, "%s = %d\n", res.Step, res.Value)
	}
	if res.Flag != nil {
		fmt.Fprintf(w, "  warning: %s\n", res.Flag)
	}
}

// markPrefixes switch an entry to a mark on the active tooth: "p13" puts
// plaque on buttons 1 and 3, "s2" suppuration on button 2, "m1" records
// mobility grade 1.
var markPrefixes = map[byte]keypad.Mark{
	'p': keypad.Plaque,
	's': keypad.Suppuration,
	'm': keypad.Mobility,
}

// pressEntry types one entry on the keypad and presses enter when the
// digits alone did not commit it.
func pressEntry(k *keypad.Interpreter, entry string) (res keypad.Result, err error) {
	keys := entry
	if len(keys) > 0 {
		if m, ok := markPrefixes[keys[0]]; ok {
			k.SetMark(m)
			keys = keys[1:]
			defer func() {
				if err != nil {
					k.SetMark(keypad.NoMark)
				}
			}()
		}
	}
	for _, r := range keys {
		res, committed, err := k.Press(string(r))
		if err != nil {
			return keypad.Result{}, err
		}
		if committed {
			return res, nil
		}
	}
	res, committed, err := k.Press("enter")
	if err != nil {
		return keypad.Result{}, err
	}
	if !committed {
		return keypad.Result{}, errors.Newf("entry %q is not a value", entry)
	}
	return res, nil
}

func newKeypadCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "keypad <chart-id> <entry>...",
		Short: "Enter values into a stored chart as keypad input",
		Long: `Enter values into a stored chart, one step per entry.

Each entry is typed on the keypad: "4", "12" and "-2" record a depth or
recession; on a bleeding step the digits toggle the buttons in screen
order ("13" marks the first and third site, "0" marks none). The words
"undo" and "redo" move the cursor. Charting starts at the first step
unless --at selects a position.

A leading letter records a finding on the active tooth without moving
the cursor: "p13" plaque and "s2" suppuration on the surface's buttons,
"p" alone no plaque, "m1" mobility grade 1.`,
		Example: `  perioflow keypad 3f1c... 4 3 5 13
  perioflow keypad 3f1c... --at "16 l" p2 3 2 2 m1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadChart(ctx, args[0])
			if err != nil {
				return err
			}
			e, err := a.engine(ctx, c)
			if err != nil {
				return err
			}
			if err := position(e, at); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range args[1:] {
				switch strings.ToLower(entry) {
				case "undo":
					e.Undo()
					continue
				case "redo":
					e.Redo()
					continue
				}
				res, err := pressEntry(e.Keypad(), entry)
				if errors.Is(err, keypad.ErrInactive) {
					return errors.WithHint(err, "every step is charted; use --at to revisit a position")
				}
				if err != nil {
					return err
				}
				printEntry(out, res)
			}

			if err := a.saveChart(ctx, c); err != nil {
				return err
			}
			printNext(out, e)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `start position, e.g. "16 b" or "16 b mb"`)
	return cmd
}

func newToothCmd(a *app) *cobra.Command {
	var (
		mobility  int
		furcation map[string]int
	)
	cmd := &cobra.Command{
		Use:   "tooth <chart-id> <tooth>",
		Short: "Record mobility and furcation of one tooth",
		Example: `  perioflow tooth 3f1c... 36 --mobility 1 --furcation b=2,l=1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("mobility") && len(furcation) == 0 {
				return errors.WithHint(errors.New("nothing to record"), "pass --mobility or --furcation")
			}
			id, err := dental.ParseTooth(args[1])
			if err != nil {
				return err
			}
			c, err := a.loadChart(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("mobility") {
				if err := c.SetMobility(id, mobility); err != nil {
					return err
				}
				fmt.Fprintf(out, "%d mobility = %d\n", id, mobility)
			}
			sites := make([]string, 0, len(furcation))
			for site := range furcation {
				sites = append(sites, site)
			}
			sort.Strings(sites)
			for _, key := range sites {
				site := dental.Site(strings.ToLower(key))
				if _, ok := dental.SurfaceOf(site); !ok {
					return errors.WithHint(errors.Newf("unknown site %q", key), "sites are db, b, mb, dl, l, ml")
				}
				if err := c.SetFurcation(id, site, furcation[key]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%d furcation %s = %d\n", id, site, furcation[key])
			}
			return a.saveChart(ctx, c)
		},
	}
	cmd.Flags().IntVar(&mobility, "mobility", 0, "Miller mobility grade 0-3")
	cmd.Flags().StringToIntVar(&furcation, "furcation", nil, "furcation class 0-3 per site, e.g. b=2,l=1")
	return cmd
}

func formatReading(in voice.Interpretation) string {
	parts := make([]string, 0, len(in.Target.Sites))
	for i, site := range in.Target.Sites {
		var vals []string
		if in.Target.PD {
			vals = append(vals, valueAt(in.PD, i))
		}
		if in.Target.RE {
			vals = append(vals, valueAt(in.RE, i))
		}
		parts = append(parts, fmt.Sprintf("%s %s", site, strings.Join(vals, "/")))
	}
	return fmt.Sprintf("%d %s: %s", in.Target.Tooth, in.Target.Surface, strings.Join(parts, ", "))
}

func valueAt(values []int, i int) string {
	if i < len(values) {
		return fmt.Sprintf("%d", values[i])
	}
	return "?"
}

func printSnapshot(w io.Writer, snap voice.Snapshot) {
	switch snap.Last {
	case voice.Proposed:
		in := snap.Pending
		fmt.Fprintf(w, "heard %s\n", formatReading(*in))
		for _, f := range in.Flags {
			fmt.Fprintf(w, "  warning: %s\n", f)
		}
		if in.Missing > 0 {
			fmt.Fprintf(w, "  %d more values needed\n", in.Missing)
		} else {
			fmt.Fprintln(w, `  say "confirm" to save or "cancel" to discard`)
		}
	case voice.Committed:
		fmt.Fprintln(w, "saved")
	case voice.Cancelled:
		fmt.Fprintln(w, "discarded")
	case voice.Incomplete:
		fmt.Fprintf(w, "not saved: %d more values needed\n", snap.Pending.Missing)
	case voice.NoTarget:
		fmt.Fprintln(w, "nothing to fill: enable PD or RE and select a position")
	}
}

func newVoiceCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "voice <chart-id>",
		Short: "Enter readings by voice transcript",
		Long: `Read transcripts from standard input, one per line, as a speech
recognizer would deliver them. Numbers in a line fill the sites of the
current surface and are held until "confirm" (or "ok", "ตกลง"); "cancel"
drops them. The chart is saved when the input ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadChart(ctx, args[0])
			if err != nil {
				return err
			}
			e, err := a.engine(ctx, c)
			if err != nil {
				return err
			}
			if err := position(e, at); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			session := voice.NewSession(voice.NewLineRecognizer(cmd.InOrStdin()), e, a.log)
			// Only transcripts print; state changes are skipped.
			prev := voice.Idle
			session.OnUpdate(func(snap voice.Snapshot) {
				changed := snap.State != prev
				prev = snap.State
				if changed || snap.Transcript == "" {
					return
				}
				printSnapshot(out, snap)
			})

			if err := session.Run(ctx); err != nil {
				return err
			}
			if session.Snapshot().Pending != nil {
				fmt.Fprintln(out, "unconfirmed reading discarded")
			}
			if err := a.saveChart(ctx, c); err != nil {
				return err
			}
			printNext(out, e)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `start position, e.g. "16 b"`)
	return cmd
}
