package neuroio

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sourcewave/neuroio/internal/curry"
)

// Recording represents an opened acquisition recording with parsed
// metadata and a handle to its sample data file.
//
// Opening a recording reads only the parameter and label companions, not
// the sample data; use ReadSegment or Samples for the data itself, or open
// with WithPreload to load everything up front.
//
// Always call Close when done to release the data file handle:
//
//	rec, err := neuroio.Open("subject01.dat")
//	if err != nil {
//		return err
//	}
//	defer rec.Close()
type Recording struct {
	// Path is the input file the recording was opened from.
	Path string

	// Generation is the detected on-disk format generation.
	Generation Generation

	// Channels lists the channel descriptors in label-file order,
	// concatenated across kinds as {magnetic, electric, misc}.
	Channels []Channel

	// SampleCount is the number of samples per trial.
	SampleCount int

	// TrialCount is the number of trials.
	TrialCount int

	// SampleRate is the sampling frequency in Hz.
	SampleRate float64

	// TriggerOffset is the trigger offset in seconds.
	TriggerOffset float64

	// Format is the sample data encoding.
	Format DataFormat

	// Events holds the event table when the recording was opened with
	// WithEvents and an event companion file exists; empty otherwise.
	Events []Event

	// Internal state (unexported)
	data      *curry.DataReader
	preloaded [][]float64
}

// Open opens an acquisition recording and reads its metadata.
//
// path may be any member of the file family (e.g. the .dat, .dap or .cdt
// file); the remaining companions are located beside it. The format
// generation is detected from the extension. All required companion files
// are verified to exist before any parsing starts, so a failed Open never
// leaves partial state.
//
// Example:
//
//	rec, err := neuroio.Open("subject01.dat", neuroio.WithEvents())
//	if err != nil {
//		return err
//	}
//	defer rec.Close()
//	fmt.Printf("%d channels, %d samples\n", len(rec.Channels), rec.SampleCount)
func Open(path string, opts ...Option) (*Recording, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	base, ext := curry.SplitBase(path)
	gen := curry.DetectGeneration(ext)

	if err := curry.CheckCompanions(base, path, gen); err != nil {
		return nil, err
	}

	params, units, err := curry.ReadParams(curry.ParamsPath(base, gen))
	if err != nil {
		return nil, err
	}

	channels, err := curry.ReadChannels(curry.LabelPath(base, gen), units, options.calibration)
	if err != nil {
		return nil, err
	}

	cals := make([]float64, len(channels))
	for i, ch := range channels {
		cals[i] = ch.Cal
	}

	data, err := curry.OpenData(curry.DataPath(base, gen), params, cals)
	if err != nil {
		return nil, err
	}

	rec := &Recording{
		Path:          path,
		Generation:    gen,
		Channels:      channels,
		SampleCount:   params.SampleCount,
		TrialCount:    params.TrialCount,
		SampleRate:    params.SampleRate,
		TriggerOffset: params.TriggerOffset,
		Format:        params.Format,
		data:          data,
	}

	if options.withEvents {
		if eventPath := curry.EventPath(base, gen); eventPath != "" {
			events, err := curry.ReadEvents(eventPath, options.eventCodes...)
			if err != nil {
				data.Close()
				return nil, err
			}
			rec.Events = events
		}
	}

	if options.preload {
		all, err := data.Samples()
		if err != nil {
			data.Close()
			return nil, err
		}
		rec.preloaded = all
	}

	return rec, nil
}

// OpenContext opens a recording with context support for cancellation.
//
// This is a thin wrapper around Open that checks the context before
// starting; parsing itself is bounded by input file size and runs to
// completion.
func OpenContext(ctx context.Context, path string, opts ...Option) (*Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple recordings concurrently.
//
// Recordings are opened in parallel using up to runtime.NumCPU()
// goroutines. Results are returned in the same order as the input paths.
// If any recording fails to open, all successfully opened recordings are
// closed and an error is returned.
func OpenMany(ctx context.Context, paths ...string) ([]*Recording, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Recording, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, rec := range results {
			if rec != nil {
				rec.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

// TotalSamples returns the number of samples across all trials.
func (r *Recording) TotalSamples() int {
	return r.data.SampleCount()
}

// ReadSegment returns calibrated sample data for samples [start, stop),
// one slice per channel in Channels order.
func (r *Recording) ReadSegment(start, stop int) ([][]float64, error) {
	if r.preloaded != nil {
		if start < 0 || stop > len(r.preloaded[0]) || start > stop {
			return nil, fmt.Errorf("%s: segment [%d:%d) out of range for %d samples",
				r.Path, start, stop, len(r.preloaded[0]))
		}
		out := make([][]float64, len(r.preloaded))
		for c := range out {
			out[c] = append([]float64(nil), r.preloaded[c][start:stop]...)
		}
		return out, nil
	}
	return r.data.ReadSegment(start, stop)
}

// Samples returns the full calibrated sample matrix, one slice per channel.
func (r *Recording) Samples() ([][]float64, error) {
	if r.preloaded != nil {
		return r.ReadSegment(0, len(r.preloaded[0]))
	}
	return r.data.Samples()
}

// Close releases the data file handle held by the recording.
//
// After Close is called, the sample data accessors must not be used
// unless the recording was opened with WithPreload, in which case they
// keep serving the in-memory copy.
func (r *Recording) Close() error {
	return r.data.Close()
}
