package diag

import (
	"fmt"
	"strings"

	"github.com/simon-lentz/graphmine/location"
)

// Issue represents a single diagnostic issue.
//
// Issue is immutable after construction. All fields are unexported;
// use accessor methods to read values. Construct Issues with [NewIssue]
// and the With* methods, which return modified copies.
//
// Zero-value note: the Go zero value for Severity is Fatal. When
// constructing Issues in tests, set severity explicitly.
type Issue struct {
	span     location.Span // source location; may be zero
	severity Severity      // issue severity level
	code     Code          // stable programmatic identifier
	message  string        // human-readable description, no embedded locations
	token    string        // the offending input token, if any
}

// NewIssue creates an Issue with the given severity, code, and message.
//
// Panics if code is the zero value or message is empty; both are
// programmer errors.
func NewIssue(severity Severity, code Code, message string) Issue {
	if code.IsZero() {
		panic("diag.NewIssue: zero code")
	}
	if message == "" {
		panic("diag.NewIssue: empty message")
	}
	return Issue{severity: severity, code: code, message: message}
}

// Errorf creates an Error-severity Issue with a formatted message.
func Errorf(code Code, format string, args ...any) Issue {
	return NewIssue(Error, code, fmt.Sprintf(format, args...))
}

// WithSpan returns a copy of the issue located at span.
func (i Issue) WithSpan(span location.Span) Issue {
	i.span = span
	return i
}

// WithToken returns a copy of the issue carrying the offending token.
func (i Issue) WithToken(token string) Issue {
	i.token = token
	return i
}

// Severity returns the issue's severity level.
func (i Issue) Severity() Severity { return i.severity }

// Code returns the issue's stable programmatic identifier.
func (i Issue) Code() Code { return i.code }

// Message returns the human-readable description.
//
// Messages do not contain embedded locations; use [Issue.Span] for
// location information.
func (i Issue) Message() string { return i.message }

// Span returns the source location; check Span().IsZero().
func (i Issue) Span() location.Span { return i.span }

// Token returns the offending input token, or "" when not applicable.
func (i Issue) Token() string { return i.token }

// IsZero reports whether the issue is the invalid zero value.
func (i Issue) IsZero() bool {
	return i.code.IsZero() && i.message == ""
}

// String renders the issue in "span: severity code: message [token]" form.
func (i Issue) String() string {
	var b strings.Builder
	if !i.span.IsZero() {
		b.WriteString(i.span.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s: %s", i.severity, i.code, i.message)
	if i.token != "" {
		fmt.Fprintf(&b, " (token %q)", i.token)
	}
	return b.String()
}
