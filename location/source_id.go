package location

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptySourceID indicates a SourceID was constructed from an empty string.
var ErrEmptySourceID = errors.New("location: empty source ID")

// SourceID identifies an input file (or synthetic source such as
// "inline:test") across the module.
//
// The raw name is normalized to Unicode NFC on construction so that two
// spellings of the same file name compare equal. SourceID is a comparable
// value type; the zero value is the unknown source.
type SourceID struct {
	name string
}

// NewSourceID creates a SourceID from a file name or synthetic label.
// The name is NFC-normalized. An empty name is rejected.
func NewSourceID(name string) (SourceID, error) {
	if name == "" {
		return SourceID{}, ErrEmptySourceID
	}
	return SourceID{name: norm.NFC.String(name)}, nil
}

// MustNewSourceID is like [NewSourceID] but panics on error.
// Intended for tests and compile-time-constant names.
func MustNewSourceID(name string) SourceID {
	id, err := NewSourceID(name)
	if err != nil {
		panic(fmt.Sprintf("location.MustNewSourceID(%q): %v", name, err))
	}
	return id
}

// String returns the normalized source name, or "<unknown>" for the zero value.
func (s SourceID) String() string {
	if s.name == "" {
		return "<unknown>"
	}
	return s.name
}

// IsZero reports whether the source is unknown.
func (s SourceID) IsZero() bool {
	return s.name == ""
}
