package curry

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sourcewave/neuroio/internal/binary"
	"github.com/sourcewave/neuroio/internal/types"
)

// DataReader provides calibrated access to the sample data file.
//
// The raw float encoding stores one frame of little-endian 32-bit floats
// per sample (channels within a frame) and is read in segments on demand.
// The ASCII encoding is a whitespace-delimited text matrix with one row
// per sample; it cannot be seeked meaningfully and is loaded whole when
// the reader is opened.
//
// Returned segments are channel-major: one slice of samples per channel,
// scaled by the per-channel calibration factor.
type DataReader struct {
	path     string
	format   types.DataFormat
	channels int
	samples  int
	cals     []float64

	f  *os.File
	sr *binary.SafeReader

	preloaded [][]float64
}

// OpenData opens the sample data file described by the given parameters.
// cals must hold one calibration factor per channel.
func OpenData(path string, p types.Parameters, cals []float64) (*DataReader, error) {
	if len(cals) != p.ChannelCount {
		return nil, fmt.Errorf("%s: got %d calibration factors for %d channels", path, len(cals), p.ChannelCount)
	}

	d := &DataReader{
		path:     path,
		format:   p.Format,
		channels: p.ChannelCount,
		samples:  p.SampleCount * p.TrialCount,
		cals:     cals,
	}
	if p.TrialCount == 0 {
		d.samples = p.SampleCount
	}

	if p.Format == types.FormatASCII {
		if err := d.preload(); err != nil {
			return nil, err
		}
		return d, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	d.f = f
	d.sr = binary.NewSafeReader(f, info.Size(), path)
	return d, nil
}

// SampleCount returns the total number of samples across all trials.
func (d *DataReader) SampleCount() int {
	return d.samples
}

// ChannelCount returns the number of channels per sample.
func (d *DataReader) ChannelCount() int {
	return d.channels
}

// ReadSegment returns calibrated data for samples [start, stop), one slice
// per channel.
func (d *DataReader) ReadSegment(start, stop int) ([][]float64, error) {
	if start < 0 || stop > d.samples || start > stop {
		return nil, fmt.Errorf("%s: segment [%d:%d) out of range for %d samples", d.path, start, stop, d.samples)
	}

	if d.preloaded != nil {
		out := make([][]float64, d.channels)
		for c := range out {
			out[c] = append([]float64(nil), d.preloaded[c][start:stop]...)
		}
		return out, nil
	}

	n := stop - start
	flat, err := d.sr.ReadFloat32Slice(int64(start)*int64(d.channels)*4, n*d.channels, "sample frames")
	if err != nil {
		return nil, err
	}

	out := make([][]float64, d.channels)
	for c := range out {
		out[c] = make([]float64, n)
		cal := d.cals[c]
		for i := 0; i < n; i++ {
			out[c][i] = flat[i*d.channels+c] * cal
		}
	}
	return out, nil
}

// Samples returns the calibrated data for the entire recording.
func (d *DataReader) Samples() ([][]float64, error) {
	return d.ReadSegment(0, d.samples)
}

// Close releases the underlying file handle, if any.
func (d *DataReader) Close() error {
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

// preload reads an ASCII data file fully into memory, transposing the
// one-row-per-sample text matrix into channel-major slices.
func (d *DataReader) preload() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	out := make([][]float64, d.channels)
	for c := range out {
		out[c] = make([]float64, 0, d.samples)
	}

	row := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != d.channels {
			return fmt.Errorf("%s: sample row %d has %d values, want %d", d.path, row, len(fields), d.channels)
		}
		for c, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf("%s: sample row %d: %w", d.path, row, err)
			}
			out[c] = append(out[c], v*d.cals[c])
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan data file: %w", err)
	}

	if row < d.samples {
		return fmt.Errorf("%s: data file has %d sample rows, parameter file promises %d", d.path, row, d.samples)
	}

	d.preloaded = out
	return nil
}
