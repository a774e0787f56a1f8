package errors

// SQLSTATE codes used by the planner.
// Based on PostgreSQL error codes: https://www.postgresql.org/docs/current/errcodes-appendix.html

// Class 00 - Successful Completion
const (
	SuccessfulCompletion = "00000"
)

// Class 0A - Feature Not Supported
const (
	FeatureNotSupported = "0A000"
)

// Class 22 - Data Exception
const (
	DataException         = "22000"
	InvalidParameterValue = "22023"
	NullValueNotAllowed   = "22004"
)

// Class 42 - Syntax Error or Access Rule Violation
const (
	SyntaxErrorOrAccessRuleViolation = "42000"
	SyntaxError                      = "42601"
	WrongObjectType                  = "42809"
)

// Class 53 - Insufficient Resources
const (
	InsufficientResources      = "53000"
	OutOfMemory                = "53200"
	ConfigurationLimitExceeded = "53400"
)

// Class 54 - Program Limit Exceeded
const (
	ProgramLimitExceeded = "54000"
	StatementTooComplex  = "54001"
)

// Class F0 - Configuration File Error
const (
	ConfigFileError = "F0000"
)

// Class XX - Internal Error
const (
	InternalError = "XX000"
	DataCorrupted = "XX001"
)

// ErrorClass returns the two-character class of a SQLSTATE code.
func ErrorClass(code string) string {
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}

// IsResourceError reports whether code belongs to Class 53 or 54.
func IsResourceError(code string) bool {
	class := ErrorClass(code)
	return class == "53" || class == "54"
}
