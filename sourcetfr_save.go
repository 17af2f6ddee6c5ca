package neuroio

import (
	"fmt"
	"os"
	"strings"

	"github.com/sourcewave/neuroio/internal/binary"
	"github.com/sourcewave/neuroio/internal/tensor"
	"github.com/sourcewave/neuroio/internal/types"
)

// The on-disk container: a little-endian sequence of
//
//	magic "STFR", version uint32
//	subject length uint32 + bytes, source type length uint32 + bytes
//	tmin float64, tstep float64
//	source space count uint32, per space: vertex count uint32 + uint32s
//	axis count uint32, per axis: uint64 length
//	data float64s, row-major
//
// Factored containers are collapsed before writing; the kernel and
// sensor data are not preserved across a save/load round trip.
const (
	stfrMagic   = "STFR"
	stfrVersion = 1

	// maxContainerAxes bounds the declared axis count; valid containers
	// carry between 3 and 5 axes.
	maxContainerAxes = 8

	// FormatSTFR is the only supported save format tag.
	FormatSTFR = "stfr"

	stfrExt = ".stfr"
)

// Save writes the container to path in the given format. Only FormatSTFR
// is supported. When path does not already end in ".stfr" the suffix
// "-stfr.stfr" is appended, so saved files are always recognizable by
// extension.
func (s *SourceTFR) Save(path, format string) error {
	if format != FormatSTFR {
		return &types.UsageError{
			Op:     "save",
			Reason: fmt.Sprintf("unsupported format %q, only %q is supported", format, FormatSTFR),
		}
	}
	if !strings.HasSuffix(path, stfrExt) {
		path += "-stfr" + stfrExt
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.encode(binary.NewSafeWriter(f)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (s *SourceTFR) encode(w *binary.SafeWriter) error {
	data := s.Data()

	if err := w.WriteString(stfrMagic); err != nil {
		return err
	}
	if err := w.WriteUint32(stfrVersion); err != nil {
		return err
	}
	if err := writeLenString(w, s.subject); err != nil {
		return err
	}
	if err := writeLenString(w, "SourceTFR"); err != nil {
		return err
	}
	if err := w.WriteFloat64(s.tmin); err != nil {
		return err
	}
	if err := w.WriteFloat64(s.tstep); err != nil {
		return err
	}

	if err := w.WriteUint32(uint32(len(s.vertices))); err != nil {
		return err
	}
	for _, space := range s.vertices {
		if err := w.WriteUint32(uint32(len(space))); err != nil {
			return err
		}
		for _, v := range space {
			if err := w.WriteUint32(uint32(v)); err != nil {
				return err
			}
		}
	}

	shape := data.Shape()
	if err := w.WriteUint32(uint32(len(shape))); err != nil {
		return err
	}
	for _, n := range shape {
		if err := w.WriteUint64(uint64(n)); err != nil {
			return err
		}
	}
	return w.WriteFloat64Slice(data.Flat())
}

func writeLenString(w *binary.SafeWriter, s string) error {
	if err := w.WriteUint32(uint32(len(s))); err != nil {
		return err
	}
	return w.WriteString(s)
}

// LoadSourceTFR reads a container previously written by Save. The loaded
// container is always in the Dense state. Axis names are reconstructed
// from the data shape: 3 axes map to (dipoles, freqs, times), 4 axes to
// the orientations variant when the second axis has length 3 and to the
// epochs variant otherwise, 5 axes to the orientations-and-epochs
// variant.
func LoadSourceTFR(path string) (*SourceTFR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	r := binary.NewReader(binary.NewSafeReader(f, fi.Size(), path), 0)

	magic, err := r.ReadString(len(stfrMagic), "magic")
	if err != nil {
		return nil, err
	}
	if magic != stfrMagic {
		return nil, &types.UsageError{
			Op:     "load",
			Reason: fmt.Sprintf("%s is not a SourceTFR container (magic %q)", path, magic),
		}
	}
	version, err := r.ReadUint32("version")
	if err != nil {
		return nil, err
	}
	if version != stfrVersion {
		return nil, &types.UsageError{
			Op:     "load",
			Reason: fmt.Sprintf("%s has unsupported container version %d", path, version),
		}
	}

	subject, err := readLenString(r, "subject")
	if err != nil {
		return nil, err
	}
	srcType, err := readLenString(r, "source type")
	if err != nil {
		return nil, err
	}
	if srcType != "SourceTFR" {
		return nil, &types.UsageError{
			Op:     "load",
			Reason: fmt.Sprintf("%s holds %q data, expected SourceTFR", path, srcType),
		}
	}

	tmin, err := r.ReadFloat64("tmin")
	if err != nil {
		return nil, err
	}
	tstep, err := r.ReadFloat64("tstep")
	if err != nil {
		return nil, err
	}

	// Declared counts and lengths are validated against the file size
	// before anything is allocated, so a corrupt or truncated container
	// fails with an error instead of an oversized allocation.
	maxVerts := r.Size() / 4

	nSpaces, err := r.ReadUint32("source space count")
	if err != nil {
		return nil, err
	}
	if uint64(nSpaces) > uint64(maxVerts) {
		return nil, corruptContainer(path, "source space count", uint64(nSpaces))
	}
	vertices := make(Vertices, nSpaces)
	for i := range vertices {
		count, err := r.ReadUint32("vertex count")
		if err != nil {
			return nil, err
		}
		if uint64(count) > uint64(maxVerts) {
			return nil, corruptContainer(path, "vertex count", uint64(count))
		}
		space := make([]int, count)
		for j := range space {
			v, err := r.ReadUint32("vertex number")
			if err != nil {
				return nil, err
			}
			space[j] = int(v)
		}
		vertices[i] = space
	}

	nAxes, err := r.ReadUint32("axis count")
	if err != nil {
		return nil, err
	}
	if nAxes == 0 || nAxes > maxContainerAxes {
		return nil, corruptContainer(path, "axis count", uint64(nAxes))
	}
	maxElems := r.Size() / 8
	shape := make([]int, nAxes)
	total := int64(1)
	for i := range shape {
		n, err := r.ReadUint64("axis length")
		if err != nil {
			return nil, err
		}
		if n == 0 || n > uint64(maxElems) {
			return nil, corruptContainer(path, "axis length", n)
		}
		if total > maxElems/int64(n) {
			return nil, corruptContainer(path, "data element count", uint64(total)*n)
		}
		shape[i] = int(n)
		total *= int64(n)
	}
	flat, err := r.ReadFloat64Slice(int(total), "data")
	if err != nil {
		return nil, err
	}
	data, err := tensor.FromFlat(flat, shape...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return NewSourceTFR(DenseData{Array: data}, vertices, tmin, tstep,
		WithDims(dimsForShape(shape)),
		WithSubject(subject),
	)
}

// corruptContainer reports a declared size the file cannot actually hold.
func corruptContainer(path, what string, got uint64) error {
	return &types.UsageError{
		Op:     "load",
		Reason: fmt.Sprintf("%s declares a %s of %d that does not fit the file", path, what, got),
	}
}

func readLenString(r *binary.Reader, what string) (string, error) {
	length, err := r.ReadUint32(what + " length")
	if err != nil {
		return "", err
	}
	return r.ReadString(int(length), what)
}

func dimsForShape(shape []int) Dims {
	switch len(shape) {
	case 4:
		if shape[1] == 3 {
			return DimsOrientationsFreqsTimes
		}
		return DimsEpochsFreqsTimes
	case 5:
		return DimsOrientationsEpochs
	default:
		return DimsFreqsTimes
	}
}
