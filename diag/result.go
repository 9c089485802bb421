package diag

import (
	"strings"
)

// Result is an immutable snapshot of collected issues.
//
// Results are created by [Collector.Result] and are safe for concurrent
// read access. Issues appear in collection order.
type Result struct {
	issues       []Issue
	droppedCount int
	fatalCount   int
	errorCount   int
	warningCount int
	infoCount    int
}

// Issues returns the issues in collection order.
// The returned slice must not be modified.
func (r *Result) Issues() []Issue {
	if r == nil {
		return nil
	}
	return r.issues
}

// Len returns the number of stored issues.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.issues)
}

// OK reports whether the result contains no fatal or error issues.
func (r *Result) OK() bool {
	if r == nil {
		return true
	}
	return r.fatalCount == 0 && r.errorCount == 0
}

// HasErrors reports whether the result contains fatal or error issues.
func (r *Result) HasErrors() bool {
	return !r.OK()
}

// DroppedCount returns the number of issues dropped by the collector limit.
func (r *Result) DroppedCount() int {
	if r == nil {
		return 0
	}
	return r.droppedCount
}

// Count returns the number of issues with the given severity.
func (r *Result) Count(s Severity) int {
	if r == nil {
		return 0
	}
	switch s {
	case Fatal:
		return r.fatalCount
	case Error:
		return r.errorCount
	case Warning:
		return r.warningCount
	case Info:
		return r.infoCount
	default:
		return 0
	}
}

// String renders every issue on its own line, in collection order.
func (r *Result) String() string {
	if r == nil || len(r.issues) == 0 {
		return ""
	}
	var b strings.Builder
	for i, issue := range r.issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(issue.String())
	}
	return b.String()
}
