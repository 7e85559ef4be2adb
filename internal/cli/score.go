package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/infra/midifile"
)

func scoreCmd(d deps) *cobra.Command {
	c := &cobra.Command{
		Use:   "score",
		Short: "Show the test phrase played at the end of the check",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printScore(cmd.OutOrStdout(), domain.Zarathustra())
		},
	}
	c.AddCommand(scoreExportCmd(d))
	return c
}

func scoreExportCmd(d deps) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the test phrase as a Standard MIDI File",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := midifile.NewExporter(midifile.WithFs(d.fs))
			if err := e.Export(out, domain.Zarathustra(), domain.DefaultProgram.Channel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "Destination .mid file (required)")
	_ = c.MarkFlagRequired("out")
	return c
}

func printScore(w io.Writer, s domain.Score) {
	fmt.Fprintf(w, "%s\n", s.Title)
	fmt.Fprintf(w, "Lead-in: %s  Total: %s  Note-ons: %d\n\n", s.LeadIn, s.Duration(), s.NoteOns())

	for i, ev := range s.Events {
		kind := "note"
		switch {
		case ev.IsRest():
			kind = "rest"
		case ev.IsChord():
			kind = "chord"
		}

		names := make([]string, 0, len(ev.Pitches))
		for _, p := range ev.Pitches {
			names = append(names, domain.PitchName(p))
		}
		pitches := strings.Join(names, " ")
		if pitches == "" {
			pitches = "-"
		}

		line := fmt.Sprintf("%2d  %-5s  %-22s  %s", i+1, kind, pitches, ev.Duration)
		if ev.Label != "" {
			line += "  " + ev.Label
		}
		fmt.Fprintln(w, line)
	}
}
