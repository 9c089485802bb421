package label

import (
	"strconv"
	"strings"
)

// Kind discriminates the two label payload types.
type Kind uint8

const (
	// String labels hold arbitrary text.
	String Kind = iota

	// Numeric labels hold a float64 and compare exactly.
	Numeric
)

// Value is a tagged label value: either a string or a float64.
//
// Value is a small comparable value type. Construct with [StringValue],
// [NumericValue], or [Parse]; the zero value is the empty string label.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// StringValue creates a string-kind label.
func StringValue(s string) Value {
	return Value{kind: String, str: s}
}

// NumericValue creates a numeric-kind label.
func NumericValue(f float64) Value {
	return Value{kind: Numeric, num: f}
}

// Parse converts an input token into a Value.
//
// A token is numeric iff strconv.ParseFloat accepts it in full; anything
// else is a string label. This is the single parsing rule shared by the
// graph-file adapter and tests.
func Parse(token string) Value {
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return NumericValue(f)
	}
	return StringValue(token)
}

// Kind returns the payload discriminator.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and true when the label is string-kind.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == String
}

// Num returns the numeric payload and true when the label is numeric-kind.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == Numeric
}

// String renders the label in its canonical file form: numeric labels in
// minimal float notation, string labels double-quoted when they contain
// whitespace.
func (v Value) String() string {
	if v.kind == Numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	if strings.ContainsAny(v.str, " \t") {
		return strconv.Quote(v.str)
	}
	return v.str
}
