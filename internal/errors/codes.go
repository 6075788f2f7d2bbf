package errors

// Code represents an error code
type Code string

// Error codes. These follow the gRPC taxonomy; the combat tracker maps its
// domain failures onto them: unknown sessions/monsters/log entries are
// NOT_FOUND, contradictory operator input is INVALID_ARGUMENT or
// OUT_OF_RANGE, writes against an ended session are FAILED_PRECONDITION, and
// running out of session-code claim attempts is RESOURCE_EXHAUSTED.
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}
