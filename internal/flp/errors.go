package flp

// ParseError is a fatal decode error — one of the two cases where Parse
// cannot return any metadata at all.
type ParseError struct {
	kind string
}

var (
	// ErrInvalidMagic is returned when the buffer is shorter than 4 bytes or
	// its first 4 bytes are not "FLhd".
	ErrInvalidMagic = &ParseError{kind: "invalid magic"}
	// ErrTruncatedHeader is returned when the magic is valid but the fixed
	// header fields (size, format, channel count, ppq) are incomplete.
	ErrTruncatedHeader = &ParseError{kind: "truncated header"}
)

func (e *ParseError) Error() string {
	return "flp: " + e.kind
}
