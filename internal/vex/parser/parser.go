// Package parser turns a template token stream into the syntax tree.
//
// Every production is speculative: it parses on a forked cursor and commits
// only on success, so a failed production never advances the input. The one
// exception is committed grammar: once a directive keyword plus `:` has been
// consumed, or a key plus `=`, further failures abort the whole translation
// instead of backtracking.
package parser

import (
	"strings"

	"github.com/vexlang/vex/internal/vex/ast"
	"github.com/vexlang/vex/internal/vex/diag"
	"github.com/vexlang/vex/internal/vex/token"
)

// Parse parses an entire template as a top-level child sequence. The error,
// if any, is always a *diag.Abort.
func Parse(src string) (ast.Children, error) {
	c := NewCursor(token.Lex(src))
	kids, err := parseChildren(&c)
	if err != nil {
		return nil, err
	}
	if !c.AtEOF() {
		return nil, stuckAt(c.Peek())
	}
	return kids, nil
}

func stuckAt(t token.Token) error {
	if t.Kind == token.Illegal {
		return diag.Abortf(t.Span, "unterminated or invalid token")
	}
	return diag.Abortf(t.Span, "invalid child")
}

// parseChildren consumes children until no production matches, leaving the
// rest of the input for the caller. It only fails on hard aborts.
func parseChildren(c *Cursor) (ast.Children, error) {
	var kids ast.Children
	for {
		child, err := parseChild(c)
		if err != nil {
			if _, hard := diag.AsAbort(err); hard {
				return nil, err
			}
			return kids, nil
		}
		kids = append(kids, child)
	}
}

// parseChild tries a value first, then an element. A literal that parses but
// is not a string aborts: the value itself was valid, only its use as a
// child is illegal, so reinterpreting it would mask the real problem.
func parseChild(c *Cursor) (ast.Child, error) {
	if v, err := parseValue(c); err == nil {
		if v.Kind == ast.ValueLit && v.Lit != ast.LitString {
			return nil, diag.Abortf(v.Span, "only string literals are allowed in children")
		}
		return v, nil
	}
	el, err := parseElement(c)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// parseValue parses a value position: `[expr]`, `{expr}`, or a literal.
func parseValue(c *Cursor) (ast.Value, error) {
	t := c.Peek()
	switch t.Kind {
	case token.BracketGroup:
		c.Next()
		return ast.Value{Kind: ast.ValueBracket, Text: t.Text, Span: t.Span}, nil
	case token.BraceGroup:
		c.Next()
		return ast.Value{Kind: ast.ValueBlock, Text: t.Text, Span: t.Span}, nil
	case token.String:
		c.Next()
		return ast.Value{Kind: ast.ValueLit, Lit: ast.LitString, Text: t.Text, Span: t.Span}, nil
	case token.Number:
		c.Next()
		return ast.Value{Kind: ast.ValueLit, Lit: ast.LitNumber, Text: t.Text, Span: t.Span}, nil
	case token.Ident:
		if t.Text == "true" || t.Text == "false" {
			c.Next()
			return ast.Value{Kind: ast.ValueLit, Lit: ast.LitBool, Text: t.Text, Span: t.Span}, nil
		}
	}
	return ast.Value{}, softf(t.Span, "expected a value")
}

// parseElement parses one element; the cursor is untouched on soft failure.
func parseElement(c *Cursor) (ast.Element, error) {
	f := c.Fork()
	el, err := parseElementAt(&f)
	if err != nil {
		return ast.Element{}, err
	}
	c.Commit(f)
	return el, nil
}

func parseElementAt(c *Cursor) (ast.Element, error) {
	sel, err := parseSelector(c)
	if err != nil {
		return ast.Element{}, err
	}
	el := ast.Element{Sel: sel, Span: sel.TagSpan}

	for {
		a, err := parseAttr(c)
		if err != nil {
			if _, hard := diag.AsAbort(err); hard {
				return ast.Element{}, err
			}
			break
		}
		el.Attrs = append(el.Attrs, a)
	}

	if c.Peek().Kind == token.Pipe {
		params, err := parseClosureParams(c)
		if err != nil {
			return ast.Element{}, err
		}
		el.ClosureParams = params
		el.HasClosure = true
	}

	switch t := c.Peek(); t.Kind {
	case token.BraceGroup:
		c.Next()
		kids, err := parseChildBlock(t)
		if err != nil {
			return ast.Element{}, err
		}
		el.Children = kids
		el.HasChildren = true
		el.Span = el.Span.Cover(t.Span)
	case token.Semi:
		c.Next()
		el.SelfClosing = true
		el.Span = el.Span.Cover(t.Span)
	case token.EOF:
		// Elided terminator: allowed for the last item of its sequence,
		// which is exactly when the stream is exhausted here.
	default:
		return ast.Element{}, softf(t.Span, "expected `{ ... }`, `;` or end of input after element")
	}
	return el, nil
}

// parseChildBlock re-lexes a brace group payload as template tokens and
// parses it as children. The payload must be fully consumed: at this point
// the element production is committed, so leftovers abort.
func parseChildBlock(group token.Token) (ast.Children, error) {
	sub := NewCursor(token.LexAt(group.Text, group.Span.Start+1))
	kids, err := parseChildren(&sub)
	if err != nil {
		return nil, err
	}
	if !sub.AtEOF() {
		return nil, stuckAt(sub.Peek())
	}
	return kids, nil
}

// parseClosureParams parses `|a, b|`. The opening pipe commits.
func parseClosureParams(c *Cursor) ([]ast.Param, error) {
	c.Next() // opening |
	var params []ast.Param
	for {
		t := c.Peek()
		switch t.Kind {
		case token.Pipe:
			c.Next()
			return params, nil
		case token.Ident:
			if strings.ContainsRune(t.Text, '-') {
				return nil, diag.Abortf(t.Span, "closure parameters must be plain identifiers")
			}
			c.Next()
			params = append(params, ast.Param{Name: t.Text, Span: t.Span})
			if c.Peek().Kind == token.Comma {
				c.Next()
			}
		default:
			return nil, diag.Abortf(t.Span, "expected closure parameter or `|`")
		}
	}
}

// parseSelector parses the tag, optional generics, and the class/id loop.
func parseSelector(c *Cursor) (ast.Selector, error) {
	tag := c.Peek()
	if tag.Kind != token.Ident {
		return ast.Selector{}, softf(tag.Span, "expected a tag name")
	}
	c.Next()
	sel := ast.Selector{Tag: tag.Text, TagSpan: tag.Span}

	if g := c.Peek(); g.Kind == token.AngleGroup {
		// The lexer only produces an angle group glued to an identifier.
		c.Next()
		sel.Generics = g.Text
		sel.HasGenerics = true
	}

	for {
		switch t := c.Peek(); t.Kind {
		case token.Dot:
			c.Next()
			name, err := parseKebabIdent(c)
			if err != nil {
				return ast.Selector{}, diag.Abortf(t.Span, "expected class name after `.`")
			}
			sel.Classes = append(sel.Classes, name)
		case token.Hash:
			if !t.SpaceBefore {
				return ast.Selector{}, diag.Abortf(t.Span, "ids must be preceded by a space, like `div #my-id`")
			}
			c.Next()
			name, err := parseKebabIdent(c)
			if err != nil {
				return ast.Selector{}, diag.Abortf(t.Span, "expected id after `#`")
			}
			// Repeated ids are permitted; the last one wins.
			sel.ID = &name
		default:
			return sel, nil
		}
	}
}

func parseKebabIdent(c *Cursor) (ast.KebabIdent, error) {
	t := c.Peek()
	if t.Kind != token.Ident {
		return ast.KebabIdent{}, softf(t.Span, "expected an identifier")
	}
	c.Next()
	return ast.KebabIdent{Raw: t.Text, Span: t.Span}, nil
}

// parseAttr parses one attribute of any form; the cursor is untouched on
// soft failure so the caller can detect the end of the attribute list.
func parseAttr(c *Cursor) (ast.Attr, error) {
	f := c.Fork()
	a, err := parseAttrAt(&f)
	if err != nil {
		return nil, err
	}
	c.Commit(f)
	return a, nil
}

func parseAttrAt(c *Cursor) (ast.Attr, error) {
	t := c.Peek()

	// Directive: keyword followed by a colon. The colon commits.
	if t.Kind == token.Ident {
		if dir, ok := ast.DirKindOf(t.Text); ok && c.PeekN(1).Kind == token.Colon {
			c.Next() // keyword
			c.Next() // colon
			return parseDirective(c, dir, t)
		}
	}

	switch t.Kind {
	case token.BraceGroup:
		return parseBracedAttr(c, t)
	case token.Ident:
		key, err := parseKebabIdent(c)
		if err != nil {
			return nil, err
		}
		if eq := c.Peek(); eq.Kind == token.Eq {
			c.Next()
			v, err := parseValue(c)
			if err != nil {
				// The equals sign commits.
				return nil, diag.Abortf(eq.Span, "expected a value after `=`")
			}
			return ast.KvAttr{Key: key, Value: v, Span: key.Span.Cover(v.Span)}, nil
		}
		return ast.BoolAttr{Key: key, Span: key.Span}, nil
	}
	return nil, softf(t.Span, "expected an attribute")
}

// parseBracedAttr handles the two braced attribute forms: `{..expr}` spread
// and `{key}` shorthand. Any other brace group fails softly, since it is
// probably the element's child block.
func parseBracedAttr(c *Cursor, group token.Token) (ast.Attr, error) {
	trimmed := strings.TrimSpace(group.Text)
	if strings.HasPrefix(trimmed, "..") {
		c.Next()
		expr := strings.TrimSpace(trimmed[2:])
		if expr == "" {
			return nil, diag.Abortf(group.Span, "expected an expression after `..`")
		}
		return ast.SpreadAttr{Expr: expr, Span: group.Span}, nil
	}
	key, ok := payloadIdent(group)
	if !ok {
		return nil, softf(group.Span, "expected `{identifier}` or `{..expr}`")
	}
	c.Next()
	return ast.KvAttr{Key: key, Value: shorthandValue(key, group), Span: group.Span}, nil
}

// payloadIdent reports whether a brace group contains exactly one kebab
// identifier, returning it with an absolute span.
func payloadIdent(group token.Token) (ast.KebabIdent, bool) {
	toks := token.LexAt(group.Text, group.Span.Start+1)
	if len(toks) != 2 || toks[0].Kind != token.Ident || toks[1].Kind != token.EOF {
		return ast.KebabIdent{}, false
	}
	return ast.KebabIdent{Raw: toks[0].Text, Span: toks[0].Span}, true
}

// shorthandValue synthesizes the block value for `{key}`, referencing the
// host identifier for the key. Kebab keys reference their lowerCamel form.
func shorthandValue(key ast.KebabIdent, group token.Token) ast.Value {
	return ast.Value{Kind: ast.ValueBlock, Text: key.LowerCamel(), Span: group.Span}
}

// parseDirective parses everything after `dir:`. All failures in here are
// hard aborts: the colon committed the grammar to this production.
func parseDirective(c *Cursor, dir ast.DirKind, kw token.Token) (ast.Attr, error) {
	switch dir {
	case ast.DirClone:
		key, err := parsePlainKey(c, dir)
		if err != nil {
			return nil, err
		}
		return ast.Directive{Dir: dir, Key: key, Span: kw.Span.Cover(key.Span)}, nil

	case ast.DirUse:
		key, err := parsePlainKey(c, dir)
		if err != nil {
			return nil, err
		}
		a := ast.Directive{Dir: dir, Key: key, Span: kw.Span.Cover(key.Span)}
		if eq := c.Peek(); eq.Kind == token.Eq {
			c.Next()
			v, err := parseValue(c)
			if err != nil {
				return nil, diag.Abortf(eq.Span, "expected a value after `=`")
			}
			a.Value = &v
			a.Span = a.Span.Cover(v.Span)
		}
		return a, nil

	case ast.DirClass, ast.DirStyle:
		return parseNamedDirective(c, dir, kw, true)
	default: // on, prop, attr
		return parseNamedDirective(c, dir, kw, false)
	}
}

// parseNamedDirective parses `dir:key=value`, the `dir:{key}` shorthand,
// and (for class/style) string-literal keys.
func parseNamedDirective(c *Cursor, dir ast.DirKind, kw token.Token, strKey bool) (ast.Attr, error) {
	t := c.Peek()

	if t.Kind == token.BraceGroup {
		key, ok := payloadIdent(t)
		if !ok || (!strKey && key.Hyphenated()) {
			return nil, diag.Abortf(t.Span, "expected `{identifier}` after `%s:`", dir)
		}
		c.Next()
		v := shorthandValue(key, t)
		return ast.Directive{Dir: dir, Key: key, Value: &v, Span: kw.Span.Cover(t.Span)}, nil
	}

	a := ast.Directive{Dir: dir, Span: kw.Span}
	switch {
	case strKey && t.Kind == token.String:
		c.Next()
		a.KeyLit = t.Text
		a.Span = a.Span.Cover(t.Span)
	case t.Kind == token.Ident:
		key, _ := parseKebabIdent(c)
		if !strKey && key.Hyphenated() {
			return nil, diag.Abortf(key.Span, "`%s:` keys must be plain identifiers", dir)
		}
		a.Key = key
		a.Span = a.Span.Cover(key.Span)
	default:
		return nil, diag.Abortf(t.Span, "expected a key after `%s:`", dir)
	}

	eq := c.Peek()
	if eq.Kind != token.Eq {
		return nil, diag.Abortf(eq.Span, "`%s:` requires a value", dir)
	}
	c.Next()
	v, err := parseValue(c)
	if err != nil {
		return nil, diag.Abortf(eq.Span, "expected a value after `=`")
	}
	a.Value = &v
	a.Span = a.Span.Cover(v.Span)
	return a, nil
}

// parsePlainKey parses a non-kebab identifier key for clone/use directives.
func parsePlainKey(c *Cursor, dir ast.DirKind) (ast.KebabIdent, error) {
	t := c.Peek()
	if t.Kind != token.Ident || strings.ContainsRune(t.Text, '-') {
		return ast.KebabIdent{}, diag.Abortf(t.Span, "expected an identifier after `%s:`", dir)
	}
	c.Next()
	return ast.KebabIdent{Raw: t.Text, Span: t.Span}, nil
}
