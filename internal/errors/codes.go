package errors

// Diagnostic codes for the front end. The middle-end never produces one of
// these: an invariant breach there panics instead of reporting a code.
const (
	CodeUnexpectedChar  = "E0001"
	CodeUnterminated    = "E0002"
	CodeUnexpectedToken = "E0003"
	CodeUndefinedName   = "E0004"
	CodeInvalidAssign   = "E0005"
	CodeBreakOutsideLoop    = "E0006"
	CodeContinueOutsideLoop = "E0007"
)
