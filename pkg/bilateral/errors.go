package bilateral

import "errors"

// Precondition failures reported by Filter. They are returned wrapped with
// detail, so compare with errors.Is.
var (
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidDiameter = errors.New("invalid diameter")
	ErrInvalidSigma    = errors.New("invalid sigma")
	ErrEmptyImage      = errors.New("empty image")
	ErrInvalidPolicy   = errors.New("invalid channel policy")
	ErrInvalidBorder   = errors.New("invalid border policy")
)
