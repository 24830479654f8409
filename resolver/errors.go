package resolver

import "fmt"

// DatasetIntegrityError reports a malformed or internally inconsistent
// dataset detected during Load. A Load that returns one yields no
// usable resolver at all.
type DatasetIntegrityError struct {
	Reason string
}

func (e *DatasetIntegrityError) Error() string {
	return "dataset integrity error: " + e.Reason
}

func integrityErrorf(format string, args ...interface{}) error {
	return &DatasetIntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidCoordinateError reports a structurally invalid query
// coordinate: a negative value or chroma, or an unparseable hue. It
// never indicates an out-of-gamut point, which is a legal empty result.
type InvalidCoordinateError struct {
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return "invalid coordinate: " + e.Reason
}

func coordinateErrorf(format string, args ...interface{}) error {
	return &InvalidCoordinateError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup for a color id not present in the
// name tree.
type NotFoundError struct {
	ColorID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no color name with id %d", e.ColorID)
}
