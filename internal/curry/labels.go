package curry

import (
	"fmt"
	"strconv"

	"github.com/sourcewave/neuroio/internal/blockio"
	"github.com/sourcewave/neuroio/internal/types"
)

// DefaultCalibration maps device unit strings to the factor scaling raw
// stored values into that unit. Units absent from the table leave the
// channel uncalibrated (factor 1); extending the table is the caller's
// job via the calibration option, not the parser's.
func DefaultCalibration() map[string]float64 {
	return map[string]float64{
		"uV": 1e-6,
		"fT": 1e-15,
	}
}

// ReadChannels parses the label/sensor file and assembles one Channel per
// label entry, concatenating the per-kind blocks in the fixed order
// {magnetic, electric, misc}. Sensor positions are attached for magnetic
// and electric channels only, taken from the position block in the same
// ordinal order as the labels.
func ReadChannels(path string, units map[types.ChannelKind]string, calibration map[string]float64) ([]types.Channel, error) {
	if calibration == nil {
		calibration = DefaultCalibration()
	}

	patterns := make([]string, 0, 2*len(types.Kinds()))
	for _, kind := range types.Kinds() {
		patterns = append(patterns, "LABELS"+kind.BlockSuffix())
		if kind.HasLocation() {
			patterns = append(patterns, "SENSORS"+kind.BlockSuffix())
		}
	}

	blocks, err := blockio.ParseFile(path, patterns)
	if err != nil {
		return nil, err
	}

	var channels []types.Channel
	for _, kind := range types.Kinds() {
		labels := blocks.Strings("LABELS" + kind.BlockSuffix())
		var positions [][]string
		if kind.HasLocation() {
			positions = blocks.Rows("SENSORS" + kind.BlockSuffix())
		}

		for i, name := range labels {
			ch := types.Channel{
				Name: name,
				Kind: kind,
				Unit: units[kind],
				Cal:  1,
			}
			if cal, ok := calibration[ch.Unit]; ok {
				ch.Cal = cal
			}

			if kind.HasLocation() {
				loc, err := parseLocation(positions, i)
				if err != nil {
					return nil, fmt.Errorf("%s: channel %s: %w", path, name, err)
				}
				ch.Loc = loc
			}

			channels = append(channels, ch)
		}
	}
	return channels, nil
}

// parseLocation converts the i-th sensor-position row into a 3D location.
func parseLocation(positions [][]string, i int) (*[3]float64, error) {
	if i >= len(positions) {
		return nil, fmt.Errorf("no sensor position row %d (%d rows in block)", i, len(positions))
	}
	row := positions[i]
	if len(row) < 3 {
		return nil, fmt.Errorf("sensor position row %d has %d fields, need 3", i, len(row))
	}

	var loc [3]float64
	for j := 0; j < 3; j++ {
		v, err := strconv.ParseFloat(row[j], 64)
		if err != nil {
			return nil, fmt.Errorf("parse sensor position row %d: %w", i, err)
		}
		loc[j] = v
	}
	return &loc, nil
}
