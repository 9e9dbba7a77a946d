package deck

import "errors"

var (
	// ErrUnterminatedRecord means the deck ended inside a record.
	ErrUnterminatedRecord = errors.New("unterminated record")
	// ErrMalformedRecord means a record does not fit its keyword layout.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrIncludeDepth means INCLUDE nesting exceeded the cycle guard.
	ErrIncludeDepth = errors.New("include nesting too deep")
	// ErrBadDate means a DATES or START record could not be interpreted.
	ErrBadDate = errors.New("bad date record")
)
