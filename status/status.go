package status

// Code classifies a parse failure. Callers usually map these onto 4xx-class
// responses, however the library itself has no notion of HTTP statuses.
type Code uint8

const (
	Malformed Code = iota + 1
	MissingFieldName
	UnexpectedEOF
	EmptyBoundary
	BoundaryTooLong
	StateViolation
	HeadersTooLarge
	BodyTooLarge
	PaddingTooLong
)

type Error struct {
	Message string
	Code    Code
}

func New(code Code, message string) error {
	return Error{
		Code:    code,
		Message: message,
	}
}

func (e Error) Error() string {
	return e.Message
}

var (
	ErrMalformedHeader  = New(Malformed, "malformed header line")
	ErrMalformedValue   = New(Malformed, "malformed header parameter")
	ErrMissingFieldName = New(MissingFieldName, "form-data part without a field name")
	ErrNoDisposition    = New(Malformed, "part without a Content-Disposition header")
	ErrUnexpectedEOF    = New(UnexpectedEOF, "body ended before the terminal boundary")
	ErrEmptyBoundary    = New(EmptyBoundary, "boundary is empty")
	ErrBoundaryTooLong  = New(BoundaryTooLong, "boundary exceeds 70 characters")
	ErrBoundaryChars    = New(Malformed, "boundary contains a character outside of the RFC 2046 alphabet")
	ErrStateViolation   = New(StateViolation, "feeding a finished decoder")
	ErrHeadersTooLarge  = New(HeadersTooLarge, "too large headers section")
	ErrBodyTooLarge     = New(BodyTooLarge, "body is too large")
	ErrPaddingTooLong   = New(PaddingTooLong, "too much transport padding after a boundary")
)
