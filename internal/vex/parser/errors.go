package parser

import (
	"fmt"

	"github.com/vexlang/vex/internal/vex/token"
)

// noMatch is the soft failure class: the production did not match and the
// cursor was left where it started, so the caller is free to try another
// alternative. Contrast with diag.Abort, which stops the whole translation.
type noMatch struct {
	span token.Span
	msg  string
}

func (e *noMatch) Error() string { return e.msg }

func softf(span token.Span, format string, args ...any) error {
	return &noMatch{span: span, msg: fmt.Sprintf(format, args...)}
}
