package binary

import (
	"encoding/binary"
	"io"
	"math"
)

// SafeWriter wraps io.Writer with position tracking. All multi-byte values
// are written little-endian, matching the sample data encoding.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteUint32 writes a little-endian uint32.
func (sw *SafeWriter) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return sw.WriteBytes(buf)
}

// WriteUint64 writes a little-endian uint64.
func (sw *SafeWriter) WriteUint64(v uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return sw.WriteBytes(buf)
}

// WriteFloat64 writes a little-endian IEEE 754 double.
func (sw *SafeWriter) WriteFloat64(v float64) error {
	return sw.WriteUint64(math.Float64bits(v))
}

// WriteFloat64Slice writes a slice of little-endian doubles.
func (sw *SafeWriter) WriteFloat64Slice(vs []float64) error {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return sw.WriteBytes(buf)
}
