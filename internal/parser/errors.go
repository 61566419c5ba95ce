package parser

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is wrapped by NewParser for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SyntaxError locates the first error or missing node of a parsed tree.
// Line and Column are 1-based.
type SyntaxError struct {
	File   string
	Line   uint32
	Column uint32
	Near   string
}

func (e *SyntaxError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	if e.Near == "" {
		return loc + ": syntax error"
	}
	return loc + ": syntax error near " + e.Near
}
