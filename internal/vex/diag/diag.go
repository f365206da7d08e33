// Package diag carries source-anchored diagnostics across the parse and
// expand stages.
package diag

import (
	"errors"
	"fmt"

	"github.com/vexlang/vex/internal/vex/token"
)

// Diagnostic is one reported problem, anchored at a byte span of the
// template source.
type Diagnostic struct {
	Span    token.Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message)
}

// Abort is the unrecoverable error class: a grammar production had already
// committed (or expansion found an illegal construct), so the whole
// translation stops and reports this diagnostic. It is never retried under a
// different production.
type Abort struct {
	Diag Diagnostic
}

func (a *Abort) Error() string { return a.Diag.String() }

// Abortf builds an Abort anchored at span.
func Abortf(span token.Span, format string, args ...any) error {
	return &Abort{Diag: Diagnostic{Span: span, Message: fmt.Sprintf(format, args...)}}
}

// AsAbort reports whether err is (or wraps) an Abort.
func AsAbort(err error) (*Abort, bool) {
	var a *Abort
	if errors.As(err, &a) {
		return a, true
	}
	return nil, false
}
