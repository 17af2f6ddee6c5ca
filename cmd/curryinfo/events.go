package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourcewave/neuroio"
)

// eventsCommand lists the annotated events of a recording, optionally
// filtered to specific trigger codes.
func eventsCommand(s *settings) *cobra.Command {
	var codes []int

	cmd := &cobra.Command{
		Use:   "events [recording]",
		Short: "List annotated events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []neuroio.Option{
				neuroio.WithCalibration(s.calibration),
				neuroio.WithEvents(),
			}
			if len(codes) > 0 {
				opts = append(opts, neuroio.WithEventCodes(codes...))
			}

			rec, err := neuroio.Open(args[0], opts...)
			if err != nil {
				return err
			}
			defer rec.Close()

			out := cmd.OutOrStdout()
			if len(rec.Events) == 0 {
				fmt.Fprintln(out, "no events")
				return nil
			}
			fmt.Fprintf(out, "%-10s %-10s %s\n", "Sample", "Time (s)", "Code")
			for _, ev := range rec.Events {
				t := float64(ev.Sample) / rec.SampleRate
				fmt.Fprintf(out, "%-10d %-10.4f %d\n", ev.Sample, t, ev.Code)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&codes, "code", "c", nil, "Only list events with these trigger codes")
	return cmd
}
