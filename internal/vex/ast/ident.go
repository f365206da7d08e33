package ast

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/vexlang/vex/internal/vex/token"
)

// KebabIdent is an identifier that may contain single interior hyphens, like
// `data-index` or `aria-label`. It always has at least one segment.
type KebabIdent struct {
	Raw  string
	Span token.Span
}

func (k KebabIdent) String() string { return k.Raw }

// Hyphenated reports whether the identifier has more than one segment.
func (k KebabIdent) Hyphenated() bool { return strings.ContainsRune(k.Raw, '-') }

// Camel converts the identifier to an exported Go name: `some-attribute`
// becomes `SomeAttribute`. Used for component builder setters.
func (k KebabIdent) Camel() string { return strcase.ToCamel(k.Raw) }

// LowerCamel converts the identifier to an unexported Go name: `aria-label`
// becomes `ariaLabel`. Used for the value identifier synthesized by the
// `{key}` attribute shorthand.
func (k KebabIdent) LowerCamel() string { return strcase.ToLowerCamel(k.Raw) }

// Quoted returns the identifier as a double-quoted Go string literal.
func (k KebabIdent) Quoted() string { return strconv.Quote(k.Raw) }
