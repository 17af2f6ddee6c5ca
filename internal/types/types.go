// Package types provides core data structures for neuroimaging recordings.
//
// This package defines the Channel, Parameters, Event, and Generation types
// shared by the acquisition-file readers, together with the error taxonomy
// used across the library.
package types

// Generation identifies the on-disk format revision of an acquisition
// file family. The two revisions differ in their file extensions and in
// which companion files carry the parameter and label blocks.
type Generation int

const (
	// Gen7 is the classic four-file layout (.dap/.rs3/.dat/.cef).
	Gen7 Generation = 7
	// Gen8 merges parameters and labels into a single .cdt.dpa companion.
	Gen8 Generation = 8
)

// String returns a human-readable generation name.
func (g Generation) String() string {
	switch g {
	case Gen7:
		return "generation 7"
	case Gen8:
		return "generation 8"
	default:
		return "unknown generation"
	}
}

// ChannelKind tags a channel with its sensor modality.
//
// The label file groups channels into per-kind blocks; kinds with a spatial
// sensor (magnetic and electric) additionally carry a position block.
type ChannelKind int

const (
	// KindMagnetic is a MEG magnetometer/gradiometer channel.
	KindMagnetic ChannelKind = iota
	// KindElectric is an EEG electrode channel.
	KindElectric
	// KindMisc is any other channel (trigger, status, auxiliary).
	KindMisc
)

// String returns a human-readable kind name.
func (k ChannelKind) String() string {
	switch k {
	case KindMagnetic:
		return "magnetic"
	case KindElectric:
		return "electric"
	case KindMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// BlockSuffix returns the label/sensor block-name suffix used for this
// kind in the label file (e.g. "LABELS_MAG1", "LABELS", "LABELS_OTHERS").
func (k ChannelKind) BlockSuffix() string {
	switch k {
	case KindMagnetic:
		return "_MAG1"
	case KindElectric:
		return ""
	case KindMisc:
		return "_OTHERS"
	default:
		return ""
	}
}

// HasLocation reports whether channels of this kind carry a 3D sensor
// position in the label file.
func (k ChannelKind) HasLocation() bool {
	return k == KindMagnetic || k == KindElectric
}

// Kinds lists all channel kinds in the fixed assembly order used when
// concatenating per-kind label blocks into a channel list.
func Kinds() []ChannelKind {
	return []ChannelKind{KindMagnetic, KindElectric, KindMisc}
}

// Channel describes a single recorded channel.
type Channel struct {
	// Name is the channel label, unique within a recording.
	Name string

	// Kind is the sensor modality.
	Kind ChannelKind

	// Unit is the physical unit string from the device parameters
	// (e.g. "uV", "fT").
	Unit string

	// Cal scales raw stored values into the physical unit. Channels with
	// an unrecognized unit keep Cal == 1 (uncalibrated).
	Cal float64

	// Loc is the 3D sensor position. Only present for magnetic and
	// electric channels; nil otherwise.
	Loc *[3]float64
}

// DataFormat tags the encoding of the sample data file.
type DataFormat int

const (
	// FormatUnknown is an unrecognized data encoding.
	FormatUnknown DataFormat = iota
	// FormatFloat is the raw little-endian 32-bit float encoding.
	FormatFloat
	// FormatASCII is the whitespace-delimited text encoding.
	FormatASCII
)

// String returns the parameter-file spelling of the format tag.
func (f DataFormat) String() string {
	switch f {
	case FormatFloat:
		return "FLOAT"
	case FormatASCII:
		return "ASCII"
	default:
		return "UNKNOWN"
	}
}

// Parameters holds the required scalar parameters extracted from the
// parameter file. All seven underlying keys must be present in the file
// or parsing fails with a MissingParameterError.
type Parameters struct {
	// SampleCount is the number of samples per trial.
	SampleCount int

	// ChannelCount is the number of channels per sample.
	ChannelCount int

	// TrialCount is the number of trials in the recording.
	TrialCount int

	// SampleRate is the sampling frequency in Hz. When the file stores a
	// zero rate alongside a nonzero per-sample time step, the rate is
	// derived as the reciprocal of the step.
	SampleRate float64

	// TriggerOffset is the trigger offset in seconds.
	TriggerOffset float64

	// SampleTime is the per-sample time step in seconds.
	SampleTime float64

	// Format is the sample data encoding.
	Format DataFormat
}

// Event is one row of the event table: the sample index at which the
// event occurred, an auxiliary field the acquisition software leaves
// unspecified, and the event code.
type Event struct {
	Sample int
	Aux    int
	Code   int
}
