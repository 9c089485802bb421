// Package graphtext reads and writes the line-oriented graph format.
//
// The grammar is one directive per line, fields separated by whitespace:
//
//	XP                  begin a positive example
//	XN                  begin a negative example
//	v <id> <label>      vertex; ids are 1-based and sequential
//	e <src> <dst> <lbl> edge; directed iff the input's directed flag is set
//	u <src> <dst> <lbl> edge, always undirected
//	d <src> <dst> <lbl> edge, always directed
//	% ...               comment through end of line
//
// Labels are numeric when the whole token parses as a float, string
// otherwise; string labels containing whitespace are double-quoted.
// The first example may omit its XP marker and is assumed positive.
//
// Substructure files use the same grammar with each record introduced by
// an S line (discovery output) or a PS line (predefined patterns);
// vertex numbering restarts at 1 per record.
//
// Parsing reports problems as diag Issues carrying file, line, and token
// context; the first error stops the parse. Writing emits the canonical
// form: parse-write-parse yields an isomorphic graph.
package graphtext
