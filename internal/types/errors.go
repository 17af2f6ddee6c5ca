package types

import "fmt"

// MissingFileError is returned when a required companion file of an
// acquisition file family is absent. The check runs before any parsing
// begins, so no partial state is ever created.
type MissingFileError struct {
	// Missing is the path of the absent companion file.
	Missing string
	// Beside is the input file the companion was expected alongside.
	Beside string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file %s cannot be found: make sure it is located in the same directory as %s",
		e.Missing, e.Beside)
}

// MissingParameterError is returned when a required parameter key is
// absent after a full scan of the parameter file.
type MissingParameterError struct {
	// Key is the first required key that could not be found.
	Key string
	// Path is the parameter file that was scanned.
	Path string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: variable %s cannot be found in the parameter file", e.Path, e.Key)
}

// ShapeError is returned when a container construction or assignment
// breaks an array-shape invariant. The message states which invariant
// was violated and the observed vs. expected values.
type ShapeError struct {
	// What names the violated invariant.
	What string
	// Got and Want describe the observed and expected values.
	Got  string
	Want string
}

func (e *ShapeError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("invalid %s: got %s", e.What, e.Got)
	}
	return fmt.Sprintf("invalid %s: got %s, want %s", e.What, e.Got, e.Want)
}

// UsageError is returned when the API is used in an unsupported way,
// such as requesting an unknown save format or writing to a derived
// field. These indicate programming errors, not data errors.
type UsageError struct {
	// Op is the operation that was misused.
	Op string
	// Reason explains why the call is unsupported.
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
