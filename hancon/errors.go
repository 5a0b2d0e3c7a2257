package hancon

import "fmt"

// Error kinds, in rough pipeline order.
const (
	ErrInvalidFormat = iota
	ErrInvalidSignature
	ErrUnsupportedVersion
	ErrParse
	ErrIO
	ErrZip
	ErrInvalidData
	ErrNotFound
)

var errKindPrefix = map[int]string{
	ErrInvalidFormat:      "Invalid format",
	ErrInvalidSignature:   "Invalid file signature",
	ErrUnsupportedVersion: "Unsupported version",
	ErrParse:              "Parse error",
	ErrIO:                 "IO error",
	ErrZip:                "Zip error",
	ErrInvalidData:        "Invalid data",
	ErrNotFound:           "Not found",
}

// HwpError is the error type returned by every stage of the conversion
// pipeline. Kind is one of the Err* constants above.
type HwpError struct {
	Kind    int
	Message string
}

func (e *HwpError) Error() string {
	if e.Message == "" {
		return errKindPrefix[e.Kind]
	}
	return errKindPrefix[e.Kind] + ": " + e.Message
}

// NewHwpError creates a new HwpError with the given kind and message.
func NewHwpError(kind int, format string, args ...interface{}) *HwpError {
	return &HwpError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is an HwpError of kind ErrNotFound.
func IsNotFound(err error) bool {
	he, ok := err.(*HwpError)
	return ok && he.Kind == ErrNotFound
}
