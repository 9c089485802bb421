package diag

import (
	"encoding/json"
	"io"
)

// issueJSON is the stable wire form of an Issue.
//
// Field names and severity/code strings are part of the output stability
// guarantee; tools may match on them.
type issueJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
	Field    int    `json:"field,omitempty"`
	Token    string `json:"token,omitempty"`
}

type resultJSON struct {
	Issues  []issueJSON `json:"issues"`
	Dropped int         `json:"dropped,omitempty"`
}

func toIssueJSON(i Issue) issueJSON {
	out := issueJSON{
		Severity: i.Severity().String(),
		Code:     i.Code().String(),
		Message:  i.Message(),
		Token:    i.Token(),
	}
	if sp := i.Span(); !sp.IsZero() {
		out.Source = sp.Source.String()
		out.Line = sp.At.Line
		out.Field = sp.At.Field
	}
	return out
}

// WriteJSON emits the result as a single JSON document.
func (r *Result) WriteJSON(w io.Writer) error {
	doc := resultJSON{Issues: make([]issueJSON, 0, r.Len()), Dropped: r.DroppedCount()}
	for _, i := range r.Issues() {
		doc.Issues = append(doc.Issues, toIssueJSON(i))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
