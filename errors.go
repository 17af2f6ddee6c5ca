package neuroio

import (
	"github.com/sourcewave/neuroio/internal/types"
)

// MissingFileError is an alias to types.MissingFileError.
// Re-exporting from internal/types keeps the error taxonomy public.
type MissingFileError = types.MissingFileError

// MissingParameterError is an alias to types.MissingParameterError.
// Re-exporting from internal/types keeps the error taxonomy public.
type MissingParameterError = types.MissingParameterError

// ShapeError is an alias to types.ShapeError.
// Re-exporting from internal/types keeps the error taxonomy public.
type ShapeError = types.ShapeError

// UsageError is an alias to types.UsageError.
// Re-exporting from internal/types keeps the error taxonomy public.
type UsageError = types.UsageError
