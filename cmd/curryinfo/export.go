package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sourcewave/neuroio"
)

// exportCommand writes calibrated sample data as CSV, one row per sample
// with a leading time column.
func exportCommand(s *settings) *cobra.Command {
	var (
		output string
		start  int
		stop   int
	)

	cmd := &cobra.Command{
		Use:   "export [recording]",
		Short: "Export calibrated samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := neuroio.Open(args[0], neuroio.WithCalibration(s.calibration))
			if err != nil {
				return err
			}
			defer rec.Close()

			if stop <= 0 || stop > rec.TotalSamples() {
				stop = rec.TotalSamples()
			}
			data, err := rec.ReadSegment(start, stop)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
				slog.Info("exporting samples", "file", output, "start", start, "stop", stop)
			}

			w := csv.NewWriter(out)
			header := make([]string, 0, len(rec.Channels)+1)
			header = append(header, "time")
			for _, ch := range rec.Channels {
				header = append(header, ch.Name)
			}
			if err := w.Write(header); err != nil {
				return err
			}

			row := make([]string, len(rec.Channels)+1)
			for i := 0; i < stop-start; i++ {
				row[0] = strconv.FormatFloat(float64(start+i)/rec.SampleRate, 'g', -1, 64)
				for c := range data {
					row[c+1] = strconv.FormatFloat(data[c][i], 'g', -1, 64)
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().IntVar(&start, "start", 0, "First sample to export")
	cmd.Flags().IntVar(&stop, "stop", 0, "Sample to stop at (default: all)")
	return cmd
}
