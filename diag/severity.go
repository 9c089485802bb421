package diag

// Severity represents the severity level of a diagnostic issue.
//
// Severity is an ordered enumeration where lower numeric values are more
// severe. Use the comparison methods rather than raw numeric comparisons.
type Severity uint8

const (
	// Fatal indicates an unrecoverable condition; processing halts.
	Fatal Severity = iota

	// Error indicates a failure where collection can continue but the
	// overall result is unsuccessful.
	Error

	// Warning indicates a condition that should be corrected but does not
	// invalidate the result.
	Warning

	// Info provides informational diagnostics requiring no correction.
	Info
)

// String returns the canonical lowercase label for the severity.
// The returned strings are part of the JSON wire-format stability guarantee.
func (s Severity) String() string {
	switch s {
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}
