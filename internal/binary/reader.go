// Package binary provides bounds-checked binary reading and writing
// primitives for the little-endian sample and container files.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// SafeReader wraps io.ReaderAt with bounds checking and error messages
// that name the field being read.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the total size of the underlying file.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size {
		return fmt.Errorf("%s: offset %d out of bounds (file size: %d) while reading %s",
			sr.path, off, sr.size, what)
	}

	if off+int64(len(b)) > sr.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
			sr.path, len(b), off, sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// ReadFloat32Slice reads count little-endian 32-bit floats starting at the
// given offset, widening them to float64.
func (sr *SafeReader) ReadFloat32Slice(off int64, count int, what string) ([]float64, error) {
	buf := make([]byte, 4*count)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}

	out := make([]float64, count)
	for i := range out {
		bits := binary.LittleEndian.Uint32(buf[4*i:])
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}

// Reader provides sequential reading with automatic offset tracking. It is
// used by the container loader, where fields follow each other directly.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadBytes reads length raw bytes and advances the offset. Negative
// lengths are rejected before allocating, so a corrupt size field that
// overflowed a caller's arithmetic fails as an error.
func (r *Reader) ReadBytes(length int, what string) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%s: invalid length %d while reading %s", r.Path(), length, what)
	}
	buf := make([]byte, length)
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}
	r.offset += int64(length)
	return buf, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadUint32 reads a little-endian uint32 and advances the offset.
func (r *Reader) ReadUint32(what string) (uint32, error) {
	buf, err := r.ReadBytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadUint64 reads a little-endian uint64 and advances the offset.
func (r *Reader) ReadUint64(what string) (uint64, error) {
	buf, err := r.ReadBytes(8, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadFloat64 reads a little-endian IEEE 754 double and advances the offset.
func (r *Reader) ReadFloat64(what string) (float64, error) {
	bits, err := r.ReadUint64(what)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadFloat64Slice reads count little-endian doubles and advances the offset.
func (r *Reader) ReadFloat64Slice(count int, what string) ([]float64, error) {
	buf, err := r.ReadBytes(8*count, what)
	if err != nil {
		return nil, err
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}
