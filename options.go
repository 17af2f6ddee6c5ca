package neuroio

// Option configures behavior when opening recordings.
//
// Options use the functional options pattern:
//
//	rec, err := neuroio.Open("subject01.dat",
//	    neuroio.WithEvents(),
//	    neuroio.WithPreload(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening recordings.
type openOptions struct {
	withEvents  bool              // Parse the event companion file if present
	eventCodes  []int             // Restrict events to these codes
	preload     bool              // Load all samples into memory at open
	calibration map[string]float64 // Unit-to-scale table, nil = built-in
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

// WithEvents parses the event companion file, when one exists beside the
// recording, and fills Recording.Events. Recordings without an event file
// simply leave Events empty.
func WithEvents() Option {
	return func(o *openOptions) {
		o.withEvents = true
	}
}

// WithEventCodes implies WithEvents and keeps only events whose code is in
// the given set.
func WithEventCodes(codes ...int) Option {
	return func(o *openOptions) {
		o.withEvents = true
		o.eventCodes = append(o.eventCodes, codes...)
	}
}

// WithPreload loads the full calibrated sample matrix into memory when the
// recording is opened. ASCII-encoded data files are always loaded whole
// regardless of this option, since they cannot be seeked meaningfully.
func WithPreload() Option {
	return func(o *openOptions) {
		o.preload = true
	}
}

// WithCalibration replaces the built-in unit-to-calibration table. The map
// scales raw stored values into physical units per unit string; units
// absent from the table leave channels uncalibrated.
func WithCalibration(table map[string]float64) Option {
	return func(o *openOptions) {
		o.calibration = table
	}
}
