package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex tokenizes a template source string. The returned slice always ends with
// an EOF token. Malformed input surfaces as Illegal tokens rather than an
// error so the parser can anchor a diagnostic at the exact span.
func Lex(src string) []Token {
	return LexAt(src, 0)
}

// LexAt tokenizes src with all spans shifted by base. Used to re-lex a group
// payload as template tokens while keeping spans absolute.
func LexAt(src string, base int) []Token {
	l := &lexer{src: src, base: base}
	var toks []Token
	for {
		t := l.next()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}

type lexer struct {
	src  string
	pos  int
	base int

	prevIdent bool // previous token was an Ident with no gap (for generics)
}

func (l *lexer) next() Token {
	space := l.skipTrivia()
	if l.pos >= len(l.src) {
		return l.token(EOF, l.pos, l.pos, space)
	}

	start := l.pos
	ch := l.src[l.pos]

	switch {
	case ch == '{':
		l.prevIdent = false
		return l.lexGroup(BraceGroup, '{', '}', space)
	case ch == '[':
		l.prevIdent = false
		return l.lexGroup(BracketGroup, '[', ']', space)
	case ch == '<' && l.prevIdent && !space:
		l.prevIdent = false
		return l.lexGroup(AngleGroup, '<', '>', space)
	case ch == '"':
		l.prevIdent = false
		return l.lexString(space)
	case isIdentStart(rune(ch)):
		return l.lexIdent(space)
	case ch >= '0' && ch <= '9':
		l.prevIdent = false
		return l.lexNumber(space)
	case ch == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		l.prevIdent = false
		return l.lexNumber(space)
	}

	l.prevIdent = false
	l.pos++
	switch ch {
	case '.':
		return l.token(Dot, start, l.pos, space)
	case '#':
		return l.token(Hash, start, l.pos, space)
	case '=':
		return l.token(Eq, start, l.pos, space)
	case ':':
		return l.token(Colon, start, l.pos, space)
	case ';':
		return l.token(Semi, start, l.pos, space)
	case '|':
		return l.token(Pipe, start, l.pos, space)
	case ',':
		return l.token(Comma, start, l.pos, space)
	}
	return l.token(Illegal, start, l.pos, space)
}

// skipTrivia consumes whitespace and comments, reporting whether any was
// skipped (or whether we are at the start of input).
func (l *lexer) skipTrivia() bool {
	skipped := l.pos == 0
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.pos++
			skipped = true
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			skipped = true
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += 2 + end + 2
			}
			skipped = true
		default:
			return skipped
		}
	}
	return skipped
}

func (l *lexer) lexIdent(space bool) Token {
	start := l.pos
	l.scanIdentSegment()
	// Kebab continuation: a hyphen glued between two identifier-like
	// segments joins them into one token.
	for l.pos < len(l.src) && l.src[l.pos] == '-' &&
		l.pos+1 < len(l.src) && isIdentPart(rune(l.src[l.pos+1])) {
		l.pos++ // hyphen
		l.scanIdentSegment()
	}
	l.prevIdent = true
	return l.token(Ident, start, l.pos, space)
}

func (l *lexer) scanIdentSegment() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) lexNumber(space bool) Token {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	return l.token(Number, start, l.pos, space)
}

func (l *lexer) lexString(space bool) Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			// A trailing backslash must not run past the input.
			l.pos = min(l.pos+2, len(l.src))
		case '"':
			l.pos++
			return l.token(String, start, l.pos, space)
		case '\n':
			return l.token(Illegal, start, l.pos, space)
		default:
			l.pos++
		}
	}
	return l.token(Illegal, start, l.pos, space)
}

// lexGroup consumes a balanced delimiter group. The payload may be arbitrary
// Go source, so nested delimiters inside string, rune, raw-string literals
// and comments must not count toward the balance.
func (l *lexer) lexGroup(kind Kind, open, close byte, space bool) Token {
	start := l.pos
	l.pos++ // opening delimiter
	depth := 1
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == open:
			depth++
			l.pos++
		case ch == close:
			depth--
			l.pos++
			if depth == 0 {
				t := l.token(kind, start, l.pos, space)
				t.Text = l.src[start+1 : l.pos-1]
				return t
			}
		case ch == '"' || ch == '\'' || ch == '`':
			l.skipGoString(ch)
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += 2 + end + 2
			}
		default:
			l.pos++
		}
	}
	return l.token(Illegal, start, l.pos, space)
}

func (l *lexer) skipGoString(quote byte) {
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == '\\' && quote != '`' {
			l.pos = min(l.pos+2, len(l.src))
			continue
		}
		l.pos++
		if ch == quote {
			return
		}
	}
}

func (l *lexer) token(kind Kind, start, end int, space bool) Token {
	return Token{
		Kind:        kind,
		Text:        l.src[start:end],
		Span:        Span{Start: l.base + start, End: l.base + end},
		SpaceBefore: space,
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
