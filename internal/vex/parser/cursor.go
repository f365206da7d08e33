package parser

import "github.com/vexlang/vex/internal/vex/token"

// Cursor is a position over an immutable token slice. Forking copies the
// position only; the tokens are shared and never mutated, so speculative
// parsing is a plain value copy followed by an optional Commit.
type Cursor struct {
	toks []token.Token
	pos  int
}

// NewCursor wraps a lexed token stream. The stream must be EOF-terminated,
// which is what token.Lex produces.
func NewCursor(toks []token.Token) Cursor {
	return Cursor{toks: toks}
}

// Peek returns the current token without advancing.
func (c *Cursor) Peek() token.Token {
	return c.at(c.pos)
}

// PeekN returns the token n positions ahead of the current one.
func (c *Cursor) PeekN(n int) token.Token {
	return c.at(c.pos + n)
}

// Next returns the current token and advances past it.
func (c *Cursor) Next() token.Token {
	t := c.at(c.pos)
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return t
}

// AtEOF reports whether the cursor has consumed all input.
func (c *Cursor) AtEOF() bool {
	return c.Peek().Kind == token.EOF
}

// Pos returns the cursor position, for before/after comparisons.
func (c *Cursor) Pos() int { return c.pos }

// Fork returns a copy of the cursor over the same tokens.
func (c *Cursor) Fork() Cursor { return *c }

// Commit advances the cursor to the fork's position. Called only after the
// speculative parse on the fork succeeded.
func (c *Cursor) Commit(fork Cursor) { c.pos = fork.pos }

func (c *Cursor) at(i int) token.Token {
	if i >= len(c.toks) {
		if len(c.toks) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return c.toks[len(c.toks)-1]
	}
	return c.toks[i]
}
