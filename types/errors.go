package types

import "fmt"

// ErrorCode is the stable numeric code surfaced to transaction submitters.
// Clients match on these values, so a code must never change meaning across
// releases. Each component owns a range:
//
//	2000+  arithmetic
//	3000+  ledger / account shape
//	6000+  token manager
//	6100+  paid claim approver
//	6200+  time invalidator
//	6300+  use invalidator
//	6400+  payment manager
//	6500+  transfer authority
type ErrorCode uint32

// ProtoError is a protocol failure with a stable numeric code. Handlers wrap
// these with fmt.Errorf("...: %w", err) when adding call-site context; the
// sentinel stays matchable with errors.Is.
type ProtoError struct {
	Code ErrorCode
	Name string
}

func NewProtoError(code ErrorCode, name string) *ProtoError {
	return &ProtoError{Code: code, Name: name}
}

func (e *ProtoError) Error() string {
	return fmt.Sprintf("%s [code %d]", e.Name, e.Code)
}

// Arithmetic errors. All fee, extension and duration computations use
// checked operations and fail with one of these.
var (
	ErrOverflow       = NewProtoError(2000, "arithmetic overflow")
	ErrUnderflow      = NewProtoError(2001, "arithmetic underflow")
	ErrDivisionByZero = NewProtoError(2002, "division by zero")
)
