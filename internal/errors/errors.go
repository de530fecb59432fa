// Package errors implements the NAAb error taxonomy: a single concrete
// error type carrying a category kind, source position, message, and
// optional wrapped cause, built through per-kind constructor functions
// rather than one error type per kind.
package errors

import "fmt"

// Kind categorizes a runtime error.
type Kind string

const (
	NameError        Kind = "NameError"
	TypeError        Kind = "TypeError"
	IndexError       Kind = "IndexError"
	KeyError         Kind = "KeyError"
	DivisionByZero   Kind = "DivisionByZero"
	ArgError         Kind = "ArgError"
	ModuleNotFound   Kind = "ModuleNotFound"
	CircularImport   Kind = "CircularImport"
	ExecutionTimeout Kind = "ExecutionTimeout"
	ForeignError     Kind = "ForeignError"
)

// Position mirrors ast.Pos without importing the ast package, so this
// package stays a leaf.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// NaabError is the single error type raised by the interpreter and caught
// by try/catch. It carries enough context for useful diagnostics: source
// location, offending identifier, available alternatives, and a one-line
// fix hint.
type NaabError struct {
	Kind         Kind
	Message      string
	Pos          Position
	Identifier   string
	Alternatives []string
	Hint         string
	Cause        error
}

func (e *NaabError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Pos.File != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Pos)
	}
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *NaabError) Unwrap() error { return e.Cause }

func New(kind Kind, pos Position, format string, args ...any) *NaabError {
	return &NaabError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, pos Position, cause error, format string, args ...any) *NaabError {
	return &NaabError{Kind: kind, Pos: pos, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// WithAlternatives attaches the "available alternatives" list (e.g. a
// module's exports, or the enclosing scope's variable names) and, if name
// is supplied, computes a one-line "did you mean" hint using edit distance
// with a threshold of 2.
func (e *NaabError) WithAlternatives(name string, alternatives []string) *NaabError {
	e.Identifier = name
	e.Alternatives = alternatives
	if best, ok := closest(name, alternatives, 2); ok {
		e.Hint = fmt.Sprintf("did you mean '%s'?", best)
	}
	return e
}

// As reports whether err is a *NaabError of the given kind, for callers
// that need to branch on category (e.g. a catch-all handler vs a
// catch(ExecutionTimeout) clause).
func As(err error, kind Kind) bool {
	ne, ok := err.(*NaabError)
	return ok && ne.Kind == kind
}
