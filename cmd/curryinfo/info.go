package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sourcewave/neuroio"
)

// infoCommand prints the recording's metadata: generation, sampling
// parameters and the channel table.
func infoCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "info [recording]",
		Short: "Print recording metadata and channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("opening recording", "path", args[0])

			rec, err := neuroio.Open(args[0], neuroio.WithCalibration(s.calibration))
			if err != nil {
				return err
			}
			defer rec.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:           %s\n", rec.Path)
			fmt.Fprintf(out, "Generation:     %s\n", rec.Generation)
			fmt.Fprintf(out, "Format:         %s\n", rec.Format)
			fmt.Fprintf(out, "Channels:       %d\n", len(rec.Channels))
			fmt.Fprintf(out, "Samples:        %d\n", rec.SampleCount)
			fmt.Fprintf(out, "Trials:         %d\n", rec.TrialCount)
			fmt.Fprintf(out, "Sample rate:    %g Hz\n", rec.SampleRate)
			fmt.Fprintf(out, "Trigger offset: %g s\n", rec.TriggerOffset)
			fmt.Fprintln(out)

			fmt.Fprintf(out, "%-4s %-12s %-10s %-8s %s\n", "#", "Name", "Kind", "Unit", "Location")
			for i, ch := range rec.Channels {
				loc := "-"
				if ch.Loc != nil {
					loc = fmt.Sprintf("%.4g %.4g %.4g", ch.Loc[0], ch.Loc[1], ch.Loc[2])
				}
				fmt.Fprintf(out, "%-4d %-12s %-10s %-8s %s\n", i, ch.Name, ch.Kind, ch.Unit, loc)
			}
			return nil
		},
	}
}
