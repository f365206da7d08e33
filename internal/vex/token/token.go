package token

import "fmt"

// Kind classifies a template token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident  // possibly kebab-cased: data-index, aria-label
	Number // 3, -1, 0.5
	String // "text", with Go escaping

	Dot   // .
	Hash  // #
	Eq    // =
	Colon // :
	Semi  // ;
	Pipe  // |
	Comma // ,

	BraceGroup   // { ... }, payload captured verbatim
	BracketGroup // [ ... ], payload captured verbatim
	AngleGroup   // < ... >, only directly after an identifier
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Illegal:
		return "Illegal"
	case Ident:
		return "Ident"
	case Number:
		return "Number"
	case String:
		return "String"
	case Dot:
		return "."
	case Hash:
		return "#"
	case Eq:
		return "="
	case Colon:
		return ":"
	case Semi:
		return ";"
	case Pipe:
		return "|"
	case Comma:
		return ","
	case BraceGroup:
		return "BraceGroup"
	case BracketGroup:
		return "BracketGroup"
	case AngleGroup:
		return "AngleGroup"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span is a half-open byte range into the template source. Offsets stay
// absolute even for tokens produced by re-lexing a group payload.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Start, s.End) }

// Token is one lexed template token. For group kinds, Text holds the interior
// payload without the delimiters; for everything else it is the verbatim
// source text.
type Token struct {
	Kind Kind
	Text string
	Span Span

	// SpaceBefore records whether whitespace (or start of input) preceded
	// the token. The selector grammar needs it: ids require ` #name`, and
	// generics bind only when `<` is glued to the tag.
	SpaceBefore bool
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, String:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
