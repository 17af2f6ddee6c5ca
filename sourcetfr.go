package neuroio

import (
	"fmt"
	"math"
	"strings"

	"github.com/sourcewave/neuroio/internal/tensor"
	"github.com/sourcewave/neuroio/internal/types"
)

// Dims names the axes of a SourceTFR's data, one name per axis. Only the
// four combinations below are allowed; the leading axis is always the
// source-space dipoles and the trailing axis is always time.
type Dims []string

// The allowed axis combinations.
var (
	DimsFreqsTimes             = Dims{"dipoles", "freqs", "times"}
	DimsEpochsFreqsTimes       = Dims{"dipoles", "epochs", "freqs", "times"}
	DimsOrientationsFreqsTimes = Dims{"dipoles", "orientations", "freqs", "times"}
	DimsOrientationsEpochs     = Dims{"dipoles", "orientations", "epochs", "freqs", "times"}
)

var validDims = []Dims{
	DimsFreqsTimes,
	DimsEpochsFreqsTimes,
	DimsOrientationsFreqsTimes,
	DimsOrientationsEpochs,
}

// validMethods enumerates the accepted method tags: the time-frequency
// method combined with the computed product.
var validMethods = []string{
	"morlet-power", "multitaper-power", "stockwell-power",
	"morlet-itc", "multitaper-itc", "stockwell-itc",
}

func (d Dims) equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i, name := range d {
		if other[i] != name {
			return false
		}
	}
	return true
}

func (d Dims) valid() bool {
	for _, v := range validDims {
		if d.equal(v) {
			return true
		}
	}
	return false
}

// HasOrientations reports whether the axes include the orientations axis.
func (d Dims) HasOrientations() bool {
	for _, name := range d {
		if name == "orientations" {
			return true
		}
	}
	return false
}

// String joins the axis names for display.
func (d Dims) String() string {
	return "(" + strings.Join(d, ", ") + ")"
}

// Vertices holds the vertex numbers the source-space data is defined on,
// one ordered sequence per source space. Recordings with a single source
// space (e.g. volumes) use a single sequence.
type Vertices [][]int

// SingleVertices wraps one vertex sequence for single-source-space data.
func SingleVertices(v []int) Vertices {
	return Vertices{v}
}

// Total returns the total vertex count across all source spaces.
func (v Vertices) Total() int {
	n := 0
	for _, space := range v {
		n += len(space)
	}
	return n
}

// validate checks that every sequence is strictly increasing.
func (v Vertices) validate() error {
	for i, space := range v {
		for j := 1; j < len(space); j++ {
			if space[j] <= space[j-1] {
				return &types.ShapeError{
					What: "vertices",
					Got:  fmt.Sprintf("source space %d is not strictly increasing at index %d", i, j),
					Want: "vertices ordered in increasing order",
				}
			}
		}
	}
	return nil
}

// clone returns a deep copy.
func (v Vertices) clone() Vertices {
	out := make(Vertices, len(v))
	for i, space := range v {
		out[i] = append([]int(nil), space...)
	}
	return out
}

// TFRData is the initial contents of a SourceTFR: either a materialized
// DenseData array or a factored FactoredData pair. The factored form
// represents the source-space data as the contraction of a fixed linear
// projection (kernel) with smaller sensor-space data, deferred until the
// dense array is actually needed.
type TFRData interface {
	isTFRData()
}

// DenseData wraps a fully materialized source-space array. Its leading
// axis must match the total vertex count and its trailing axis is time.
type DenseData struct {
	Array *tensor.Dense
}

func (DenseData) isTFRData() {}

// FactoredData wraps a kernel of shape [n_vertices, n_sensors] and sensor
// data whose leading axis is n_sensors. The dense equivalent is the
// contraction of the kernel's trailing axis with the sensor data's
// leading axis.
type FactoredData struct {
	Kernel     *tensor.Dense
	SensorData *tensor.Dense
}

func (FactoredData) isTFRData() {}

// TFROption configures optional SourceTFR metadata at construction.
type TFROption func(*tfrOptions)

type tfrOptions struct {
	dims    Dims
	freqs   []float64
	method  string
	subject string
}

// WithDims sets the axis names; the default is ("dipoles", "freqs", "times").
func WithDims(dims Dims) TFROption {
	return func(o *tfrOptions) {
		o.dims = dims
	}
}

// WithFreqs attaches the frequency axis values in Hz. Descriptive only;
// the length is not validated against the data shape.
func WithFreqs(freqs []float64) TFROption {
	return func(o *tfrOptions) {
		o.freqs = freqs
	}
}

// WithMethod tags the data with the method used to compute it, e.g.
// "morlet-power" or "stockwell-itc".
func WithMethod(method string) TFROption {
	return func(o *tfrOptions) {
		o.method = method
	}
}

// WithSubject records the subject name the data belongs to.
func WithSubject(subject string) TFROption {
	return func(o *tfrOptions) {
		o.subject = subject
	}
}

// SourceTFR holds time-frequency transformed data in source space.
//
// The container is in one of two representational states: Factored, where
// only the kernel and sensor-space data are stored, or Dense, where the
// full source-space array is materialized. The transition from Factored
// to Dense is one-way and happens on the first call to Data or Resample;
// Crop stays in the Factored state and slices only the sensor data, which
// is cheaper. There is no way back from Dense to Factored.
//
// The time axis is derived: Times is recomputed whenever tmin, tstep or
// the trailing axis length changes, and cannot be written directly.
//
// SourceTFR is not safe for concurrent use; the lazy collapse assumes a
// single reader.
type SourceTFR struct {
	vertices Vertices
	dims     Dims
	freqs    []float64
	method   string
	subject  string

	// Exactly one of data or (kernel, sensData) is set.
	data     *tensor.Dense
	kernel   *tensor.Dense
	sensData *tensor.Dense

	tmin  float64
	tstep float64
	times []float64
}

// NewSourceTFR constructs a SourceTFR from dense or factored data.
//
// tmin is the time of the first sample in seconds and tstep the time step
// between successive samples; tstep must be strictly positive.
//
// Construction validates every shape invariant up front and either fully
// succeeds or returns a ShapeError; partially constructed containers are
// never returned. Factored data additionally rejects axis sets containing
// the orientations axis, since collapsing per-orientation kernels is not
// supported.
func NewSourceTFR(data TFRData, vertices Vertices, tmin, tstep float64, opts ...TFROption) (*SourceTFR, error) {
	options := &tfrOptions{dims: DimsFreqsTimes}
	for _, opt := range opts {
		opt(options)
	}

	if !options.dims.valid() {
		return nil, &types.ShapeError{
			What: "dims",
			Got:  options.dims.String(),
			Want: fmt.Sprintf("one of %v", validDims),
		}
	}
	if err := validateMethod(options.method); err != nil {
		return nil, err
	}
	if err := vertices.validate(); err != nil {
		return nil, err
	}
	if tstep <= 0 {
		return nil, &types.ShapeError{
			What: "tstep",
			Got:  fmt.Sprintf("%g", tstep),
			Want: "a value greater than 0",
		}
	}

	s := &SourceTFR{
		vertices: vertices.clone(),
		dims:     append(Dims(nil), options.dims...),
		freqs:    append([]float64(nil), options.freqs...),
		method:   options.method,
		subject:  options.subject,
		tmin:     tmin,
		tstep:    tstep,
	}

	switch d := data.(type) {
	case DenseData:
		if err := s.validateDense(d.Array); err != nil {
			return nil, err
		}
		s.data = d.Array.Clone()

	case FactoredData:
		if err := s.validateFactored(d.Kernel, d.SensorData); err != nil {
			return nil, err
		}
		s.kernel = d.Kernel.Clone()
		s.sensData = d.SensorData.Clone()

	default:
		return nil, &types.UsageError{
			Op:     "new SourceTFR",
			Reason: fmt.Sprintf("unsupported data representation %T", data),
		}
	}

	s.updateTimes()
	return s, nil
}

func validateMethod(method string) error {
	if method == "" {
		return nil
	}
	for _, m := range validMethods {
		if method == m {
			return nil
		}
	}
	return &types.ShapeError{
		What: "method",
		Got:  method,
		Want: fmt.Sprintf("one of %v", validMethods),
	}
}

func (s *SourceTFR) validateDense(data *tensor.Dense) error {
	nVerts := s.vertices.Total()
	if data.Dim(0) != nVerts {
		return &types.ShapeError{
			What: "data leading axis",
			Got:  fmt.Sprintf("%d", data.Dim(0)),
			Want: fmt.Sprintf("total vertex count %d", nVerts),
		}
	}
	if data.NDim() != len(s.dims) {
		return &types.ShapeError{
			What: "data axes",
			Got:  fmt.Sprintf("shape %v with %d axes", data.Shape(), data.NDim()),
			Want: fmt.Sprintf("%d axes for dims %s", len(s.dims), s.dims),
		}
	}
	if s.dims.HasOrientations() && data.Dim(1) != 3 {
		return &types.ShapeError{
			What: "orientations axis",
			Got:  fmt.Sprintf("%d", data.Dim(1)),
			Want: "exactly 3 orientations",
		}
	}
	return nil
}

func (s *SourceTFR) validateFactored(kernel, sensData *tensor.Dense) error {
	if kernel == nil || sensData == nil {
		return &types.ShapeError{
			What: "factored data",
			Got:  "missing kernel or sensor data",
			Want: "both kernel and sensor data",
		}
	}
	if kernel.NDim() != 2 {
		return &types.ShapeError{
			What: "kernel axes",
			Got:  fmt.Sprintf("shape %v", kernel.Shape()),
			Want: "2 axes (n_vertices, n_sensors)",
		}
	}
	if kernel.Dim(1) != sensData.Dim(0) {
		return &types.ShapeError{
			What: "kernel/sensor data axes",
			Got:  fmt.Sprintf("kernel trailing axis %d, sensor data leading axis %d", kernel.Dim(1), sensData.Dim(0)),
			Want: "matching contraction axes",
		}
	}
	if sensData.NDim() != len(s.dims) {
		return &types.ShapeError{
			What: "sensor data axes",
			Got:  fmt.Sprintf("shape %v with %d axes", sensData.Shape(), sensData.NDim()),
			Want: fmt.Sprintf("%d axes for dims %s", len(s.dims), s.dims),
		}
	}
	if s.dims.HasOrientations() {
		return &types.ShapeError{
			What: "dims",
			Got:  s.dims.String(),
			Want: "no orientations axis for factored kernel and sensor data",
		}
	}
	nVerts := s.vertices.Total()
	if kernel.Dim(0) != nVerts {
		return &types.ShapeError{
			What: "kernel leading axis",
			Got:  fmt.Sprintf("%d", kernel.Dim(0)),
			Want: fmt.Sprintf("total vertex count %d", nVerts),
		}
	}
	return nil
}

// Factored reports whether the container still holds the factored
// representation.
func (s *SourceTFR) Factored() bool {
	return s.data == nil
}

// Shape returns the shape of the source-space data. In the Factored state
// the shape is derived from the kernel and sensor data without
// materializing anything.
func (s *SourceTFR) Shape() []int {
	if s.data == nil {
		shape := s.sensData.Shape()
		shape[0] = s.kernel.Dim(0)
		return shape
	}
	return s.data.Shape()
}

// collapse expands the factored representation into the dense array and
// discards the kernel and sensor data. The transition is one-way.
func (s *SourceTFR) collapse() {
	if s.kernel == nil && s.sensData == nil {
		return
	}
	data, err := tensor.Contract(s.kernel, s.sensData)
	if err != nil {
		// Construction validated the contraction axes; a failure here
		// means the container was mutated in an unsupported way.
		panic(fmt.Sprintf("neuroio: collapse of validated factored data failed: %v", err))
	}
	s.data = data
	s.kernel = nil
	s.sensData = nil
}

// Data returns the dense source-space array, collapsing the factored
// representation on first access. The returned array is the container's
// backing array; use Copy for an independent container.
func (s *SourceTFR) Data() *tensor.Dense {
	if s.data == nil {
		s.collapse()
	}
	return s.data
}

// SetData replaces the dense data array, validating its shape against the
// container's vertices and axes. Setting data collapses a factored
// container first, so the one-way transition still holds.
func (s *SourceTFR) SetData(data *tensor.Dense) error {
	if data.NDim() != len(s.dims) {
		return &types.ShapeError{
			What: "data axes",
			Got:  fmt.Sprintf("%d", data.NDim()),
			Want: fmt.Sprintf("%d axes for dims %s", len(s.dims), s.dims),
		}
	}
	if data.Dim(0) != s.vertices.Total() {
		return &types.ShapeError{
			What: "data leading axis",
			Got:  fmt.Sprintf("%d", data.Dim(0)),
			Want: fmt.Sprintf("total vertex count %d", s.vertices.Total()),
		}
	}
	s.data = data
	s.kernel = nil
	s.sensData = nil
	s.updateTimes()
	return nil
}

// Vertices returns the vertex numbers per source space.
func (s *SourceTFR) Vertices() Vertices {
	return s.vertices
}

// DimNames returns the axis names.
func (s *SourceTFR) DimNames() Dims {
	return append(Dims(nil), s.dims...)
}

// Freqs returns the frequency axis values in Hz.
func (s *SourceTFR) Freqs() []float64 {
	return s.freqs
}

// Method returns the method tag, or "" when unset.
func (s *SourceTFR) Method() string {
	return s.method
}

// Subject returns the subject name, or "" when unset.
func (s *SourceTFR) Subject() string {
	return s.subject
}

// Tmin returns the time of the first sample in seconds.
func (s *SourceTFR) Tmin() float64 {
	return s.tmin
}

// SetTmin moves the time of the first sample and recomputes Times.
func (s *SourceTFR) SetTmin(tmin float64) {
	s.tmin = tmin
	s.updateTimes()
}

// Tstep returns the time step between successive samples.
func (s *SourceTFR) Tstep() float64 {
	return s.tstep
}

// SetTstep changes the time step and recomputes Times. The step must be
// strictly positive.
func (s *SourceTFR) SetTstep(tstep float64) error {
	if tstep <= 0 {
		return &types.ShapeError{
			What: "tstep",
			Got:  fmt.Sprintf("%g", tstep),
			Want: "a value greater than 0",
		}
	}
	s.tstep = tstep
	s.updateTimes()
	return nil
}

// SampleRate returns the sample rate of the data, 1/tstep.
func (s *SourceTFR) SampleRate() float64 {
	return 1.0 / s.tstep
}

// Times returns a timestamp for each sample: tmin + tstep*i. The slice is
// derived state; mutating the returned copy has no effect on the
// container.
func (s *SourceTFR) Times() []float64 {
	return append([]float64(nil), s.times...)
}

// SetTimes always fails: the time axis is derived and updates itself
// whenever tmin, tstep or the data change.
func (s *SourceTFR) SetTimes([]float64) error {
	return &types.UsageError{
		Op:     "set times",
		Reason: "the time axis cannot be written directly; it updates automatically whenever tmin, tstep or the data change",
	}
}

// updateTimes recomputes the derived time axis from tmin, tstep and the
// trailing axis length.
func (s *SourceTFR) updateTimes() {
	shape := s.Shape()
	n := shape[len(shape)-1]
	s.times = make([]float64, n)
	for i := range s.times {
		s.times[i] = s.tmin + s.tstep*float64(i)
	}
}

// Crop restricts the container to the time interval [tmin, tmax], both
// bounds inclusive within half a sample. Pass math.Inf(-1) or math.Inf(1)
// to leave a bound open. In the Factored state only the sensor data's
// trailing axis is sliced and the representation stays factored; in the
// Dense state the dense array is sliced. The container's tmin moves to
// the first retained sample's time.
//
// Crop returns the container itself for chaining.
func (s *SourceTFR) Crop(tmin, tmax float64) (*SourceTFR, error) {
	lo, hi, err := s.timeMask(tmin, tmax)
	if err != nil {
		return nil, err
	}

	s.tmin = s.times[lo]
	if s.data == nil {
		s.sensData = s.sensData.SliceLast(lo, hi)
	} else {
		s.data = s.data.SliceLast(lo, hi)
	}
	s.updateTimes()
	return s, nil
}

// timeMask computes the contiguous [lo, hi) index range of samples whose
// time lies within [tmin, tmax], with half a sample of tolerance at both
// ends so that floating rounding never drops a boundary sample.
func (s *SourceTFR) timeMask(tmin, tmax float64) (lo, hi int, err error) {
	tol := 0.5 * s.tstep
	lo = 0
	hi = len(s.times)

	if !math.IsInf(tmin, -1) && !math.IsNaN(tmin) {
		for lo < hi && s.times[lo] < tmin-tol {
			lo++
		}
	}
	if !math.IsInf(tmax, 1) && !math.IsNaN(tmax) {
		for hi > lo && s.times[hi-1] > tmax+tol {
			hi--
		}
	}

	if lo >= hi {
		return 0, 0, &types.UsageError{
			Op:     "crop",
			Reason: fmt.Sprintf("no samples remain in [%g, %g] for times [%g, %g]", tmin, tmax, s.times[0], s.times[len(s.times)-1]),
		}
	}
	return lo, hi, nil
}

// Resample changes the sample rate of the data to sfreq.
//
// Resampling in sensor space would give a different result than
// resampling in source space, so a factored container is collapsed to
// dense first; afterwards the kernel and sensor data are gone. The
// original rate is inferred from tstep, and tstep becomes 1/sfreq.
//
// Resample returns the container itself for chaining.
func (s *SourceTFR) Resample(sfreq float64) (*SourceTFR, error) {
	if sfreq <= 0 {
		return nil, &types.UsageError{
			Op:     "resample",
			Reason: fmt.Sprintf("sample rate must be positive, got %g", sfreq),
		}
	}

	s.collapse()

	oldRate := 1.0 / s.tstep
	data, err := tensor.ResampleLast(s.data, sfreq, oldRate)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	s.data = data
	s.tstep = 1.0 / sfreq
	s.updateTimes()
	return s, nil
}

// Copy returns a fully independent deep copy of the container, preserving
// its representational state.
func (s *SourceTFR) Copy() *SourceTFR {
	out := &SourceTFR{
		vertices: s.vertices.clone(),
		dims:     append(Dims(nil), s.dims...),
		freqs:    append([]float64(nil), s.freqs...),
		method:   s.method,
		subject:  s.subject,
		tmin:     s.tmin,
		tstep:    s.tstep,
		times:    append([]float64(nil), s.times...),
	}
	if s.data != nil {
		out.data = s.data.Clone()
	}
	if s.kernel != nil {
		out.kernel = s.kernel.Clone()
	}
	if s.sensData != nil {
		out.sensData = s.sensData.Clone()
	}
	return out
}

// String returns a short human-readable summary.
func (s *SourceTFR) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<SourceTFR | %d vertices", s.vertices.Total())
	if s.subject != "" {
		fmt.Fprintf(&b, ", subject: %s", s.subject)
	}
	fmt.Fprintf(&b, ", tmin: %g (ms)", 1e3*s.tmin)
	fmt.Fprintf(&b, ", tmax: %g (ms)", 1e3*s.times[len(s.times)-1])
	fmt.Fprintf(&b, ", tstep: %g (ms)", 1e3*s.tstep)
	fmt.Fprintf(&b, ", data shape: %v>", s.Shape())
	return b.String()
}
