package neuroio

import (
	"github.com/sourcewave/neuroio/internal/curry"
	"github.com/sourcewave/neuroio/internal/types"
)

// Channel is an alias to types.Channel.
// Re-exporting from internal/types to keep the public API flat.
type Channel = types.Channel

// ChannelKind is an alias to types.ChannelKind.
type ChannelKind = types.ChannelKind

// Re-export all channel kinds.
const (
	KindMagnetic = types.KindMagnetic
	KindElectric = types.KindElectric
	KindMisc     = types.KindMisc
)

// Generation is an alias to types.Generation.
type Generation = types.Generation

// Re-export the format generations.
const (
	Gen7 = types.Gen7
	Gen8 = types.Gen8
)

// DataFormat is an alias to types.DataFormat.
type DataFormat = types.DataFormat

// Re-export the sample data encodings.
const (
	FormatFloat = types.FormatFloat
	FormatASCII = types.FormatASCII
)

// Parameters is an alias to types.Parameters.
type Parameters = types.Parameters

// Event is an alias to types.Event.
type Event = types.Event

// DefaultCalibration returns the built-in unit-to-calibration table:
// "uV" scales by 1e-6 and "fT" by 1e-15. Units outside the table leave
// channels uncalibrated. Use WithCalibration to extend or replace it.
func DefaultCalibration() map[string]float64 {
	return curry.DefaultCalibration()
}
