package neuroio

import (
	"github.com/sourcewave/neuroio/internal/curry"
)

// ReadEvents reads an event companion file (.cef, .ceo, .cdt.cef or
// .cdt.ceo) into an event table. When codes are given, only events whose
// code appears in the set are returned.
//
// Paths without an accepted event extension are rejected with a
// UsageError. Malformed numeric fields propagate the underlying
// conversion failure.
func ReadEvents(path string, codes ...int) ([]Event, error) {
	return curry.ReadEvents(path, codes...)
}
