package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vexlang/vex/internal/vex/ast"
	"github.com/vexlang/vex/internal/vex/diag"
	"github.com/vexlang/vex/internal/vex/token"
)

func parseOK(t *testing.T, src string) ast.Children {
	t.Helper()
	kids, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return kids
}

func firstElement(t *testing.T, src string) ast.Element {
	t.Helper()
	kids := parseOK(t, src)
	if len(kids) == 0 {
		t.Fatalf("Parse(%q): no children", src)
	}
	el, ok := kids[0].(ast.Element)
	if !ok {
		t.Fatalf("Parse(%q): first child is %T, not an element", src, kids[0])
	}
	return el
}

func wantAbort(t *testing.T, src, msgPart string) *diag.Abort {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("Parse(%q): expected abort, got none", src)
	}
	a, ok := diag.AsAbort(err)
	if !ok {
		t.Fatalf("Parse(%q): expected abort, got %v", src, err)
	}
	if !strings.Contains(a.Diag.Message, msgPart) {
		t.Fatalf("Parse(%q): message %q does not mention %q", src, a.Diag.Message, msgPart)
	}
	return a
}

func TestParseIdempotent(t *testing.T) {
	src := `div.primary #main {count} type="text" data-index=0 class:red={cond} {
		strong { "hello" }
		[n + 1]
	}
	Show when=[ready()] fallback=[fallback()] |data| { p { {data} } }`

	first := parseOK(t, src)
	second := parseOK(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two parses of the same input differ")
	}
}

func TestFailedProductionsDoNotAdvance(t *testing.T) {
	attrSnippets := []string{";", "{ 1 + 2 }", `"text"`, "= 3", "."}
	for _, src := range attrSnippets {
		c := NewCursor(token.Lex(src))
		before := c.Pos()
		if _, err := parseAttr(&c); err == nil {
			t.Errorf("parseAttr(%q): expected failure", src)
		} else if _, hard := diag.AsAbort(err); hard {
			t.Errorf("parseAttr(%q): expected soft failure, got abort %v", src, err)
		}
		if c.Pos() != before {
			t.Errorf("parseAttr(%q): cursor advanced from %d to %d", src, before, c.Pos())
		}
	}

	elementSnippets := []string{`"text"`, "{ x }", "= y", ";", "#main"}
	for _, src := range elementSnippets {
		c := NewCursor(token.Lex(src))
		before := c.Pos()
		if _, err := parseElement(&c); err == nil {
			t.Errorf("parseElement(%q): expected failure", src)
		}
		if c.Pos() != before {
			t.Errorf("parseElement(%q): cursor advanced from %d to %d", src, before, c.Pos())
		}
	}

	valueSnippets := []string{"div", ";", "#x"}
	for _, src := range valueSnippets {
		c := NewCursor(token.Lex(src))
		before := c.Pos()
		if _, err := parseValue(&c); err == nil {
			t.Errorf("parseValue(%q): expected failure", src)
		}
		if c.Pos() != before {
			t.Errorf("parseValue(%q): cursor advanced from %d to %d", src, before, c.Pos())
		}
	}
}

func TestBooleanAttr(t *testing.T) {
	el := firstElement(t, "input checked;")
	if len(el.Attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(el.Attrs))
	}
	b, ok := el.Attrs[0].(ast.BoolAttr)
	if !ok || b.Key.Raw != "checked" {
		t.Fatalf("expected BoolAttr checked, got %#v", el.Attrs[0])
	}
	if !el.SelfClosing {
		t.Error("expected self-closing element")
	}
}

func TestKvAttrValueKinds(t *testing.T) {
	el := firstElement(t, `input type="text" data-index=0 ready=true value={total} later=[total()];`)
	wantKinds := []ast.ValueKind{ast.ValueLit, ast.ValueLit, ast.ValueLit, ast.ValueBlock, ast.ValueBracket}
	wantLits := []ast.LitKind{ast.LitString, ast.LitNumber, ast.LitBool, 0, 0}
	if len(el.Attrs) != len(wantKinds) {
		t.Fatalf("expected %d attributes, got %d", len(wantKinds), len(el.Attrs))
	}
	for i, a := range el.Attrs {
		kv, ok := a.(ast.KvAttr)
		if !ok {
			t.Fatalf("attr %d: expected KvAttr, got %T", i, a)
		}
		if kv.Value.Kind != wantKinds[i] {
			t.Errorf("attr %d: kind = %v, want %v", i, kv.Value.Kind, wantKinds[i])
		}
		if kv.Value.Kind == ast.ValueLit && kv.Value.Lit != wantLits[i] {
			t.Errorf("attr %d: lit = %v, want %v", i, kv.Value.Lit, wantLits[i])
		}
	}
}

func TestAttrShorthand(t *testing.T) {
	el := firstElement(t, "div {class};")
	kv, ok := el.Attrs[0].(ast.KvAttr)
	if !ok {
		t.Fatalf("expected KvAttr, got %T", el.Attrs[0])
	}
	if kv.Key.Raw != "class" || kv.Value.Kind != ast.ValueBlock || kv.Value.Text != "class" {
		t.Fatalf("shorthand mismatch: %#v", kv)
	}
}

func TestAttrShorthandKebab(t *testing.T) {
	el := firstElement(t, "input {aria-label};")
	kv := el.Attrs[0].(ast.KvAttr)
	if kv.Key.Raw != "aria-label" {
		t.Errorf("key = %q", kv.Key.Raw)
	}
	if kv.Value.Text != "ariaLabel" {
		t.Errorf("shorthand value ident = %q, want ariaLabel", kv.Value.Text)
	}
}

func TestEqualsCommits(t *testing.T) {
	wantAbort(t, "input type=;", "expected a value after `=`")
}

func TestDirectives(t *testing.T) {
	el := firstElement(t, `div
		class:red={cond}
		class:"complex-[class]-name"={yes}
		class:{disabled}
		style:color="white"
		on:input={handle}
		prop:{value}
		use:tooltip
		use:resize={params};`)

	dirs := make([]ast.Directive, 0, len(el.Attrs))
	for _, a := range el.Attrs {
		d, ok := a.(ast.Directive)
		if !ok {
			t.Fatalf("expected Directive, got %T", a)
		}
		dirs = append(dirs, d)
	}

	if dirs[0].Dir != ast.DirClass || dirs[0].Key.Raw != "red" || dirs[0].Value == nil {
		t.Errorf("class:red mismatch: %#v", dirs[0])
	}
	if dirs[1].KeyLit != `"complex-[class]-name"` {
		t.Errorf("string key mismatch: %q", dirs[1].KeyLit)
	}
	if dirs[2].Key.Raw != "disabled" || dirs[2].Value == nil || dirs[2].Value.Text != "disabled" {
		t.Errorf("class shorthand mismatch: %#v", dirs[2])
	}
	if dirs[3].Dir != ast.DirStyle || dirs[3].Key.Raw != "color" {
		t.Errorf("style mismatch: %#v", dirs[3])
	}
	if dirs[4].Dir != ast.DirOn || dirs[4].Key.Raw != "input" {
		t.Errorf("on mismatch: %#v", dirs[4])
	}
	if dirs[5].Dir != ast.DirProp || dirs[5].Key.Raw != "value" || dirs[5].Value.Text != "value" {
		t.Errorf("prop shorthand mismatch: %#v", dirs[5])
	}
	if dirs[6].Dir != ast.DirUse || dirs[6].Value != nil {
		t.Errorf("use without value mismatch: %#v", dirs[6])
	}
	if dirs[7].Dir != ast.DirUse || dirs[7].Value == nil {
		t.Errorf("use with value mismatch: %#v", dirs[7])
	}
}

func TestCloneDirective(t *testing.T) {
	el := firstElement(t, "Thing clone:data { span; }")
	d := el.Attrs[0].(ast.Directive)
	if d.Dir != ast.DirClone || d.Key.Raw != "data" || d.Value != nil {
		t.Fatalf("clone mismatch: %#v", d)
	}
}

func TestDirectiveColonCommits(t *testing.T) {
	wantAbort(t, "div class:;", "expected a key")
	wantAbort(t, "div class:red;", "requires a value")
	wantAbort(t, "div on:my-event={h};", "plain identifiers")
	wantAbort(t, "div clone:;", "expected an identifier")
	wantAbort(t, `div on:"input"={h};`, "expected a key")
}

func TestSpread(t *testing.T) {
	el := firstElement(t, "div {..attrs};")
	sp, ok := el.Attrs[0].(ast.SpreadAttr)
	if !ok || sp.Expr != "attrs" {
		t.Fatalf("spread mismatch: %#v", el.Attrs[0])
	}
	wantAbort(t, "div {..};", "expected an expression")
}

func TestSelectorClassesAndID(t *testing.T) {
	el := firstElement(t, "div.primary.wide #main;")
	if len(el.Sel.Classes) != 2 || el.Sel.Classes[0].Raw != "primary" || el.Sel.Classes[1].Raw != "wide" {
		t.Fatalf("classes mismatch: %#v", el.Sel.Classes)
	}
	if el.Sel.ID == nil || el.Sel.ID.Raw != "main" {
		t.Fatalf("id mismatch: %#v", el.Sel.ID)
	}
}

func TestSelectorRepeatedIDLastWins(t *testing.T) {
	// Permissive on purpose: repeated ids are not an error, the last wins.
	el := firstElement(t, "div #first #second;")
	if el.Sel.ID == nil || el.Sel.ID.Raw != "second" {
		t.Fatalf("expected last id to win, got %#v", el.Sel.ID)
	}
}

func TestSelectorGluedHashAborts(t *testing.T) {
	wantAbort(t, "nav#primary;", "preceded by a space")
}

func TestSelectorGenerics(t *testing.T) {
	el := firstElement(t, "Show<map[string]int, Option[int]> ty={x};")
	if !el.Sel.HasGenerics || el.Sel.Generics != "map[string]int, Option[int]" {
		t.Fatalf("generics mismatch: %#v", el.Sel)
	}
}

func TestClosureParams(t *testing.T) {
	el := firstElement(t, "Await future=[load()] |db, info| { p; }")
	if !el.HasClosure || len(el.ClosureParams) != 2 {
		t.Fatalf("closure params mismatch: %#v", el.ClosureParams)
	}
	if el.ClosureParams[0].Name != "db" || el.ClosureParams[1].Name != "info" {
		t.Fatalf("closure param names: %#v", el.ClosureParams)
	}
}

func TestChildLiteralRestriction(t *testing.T) {
	wantAbort(t, `p { "ok " 0 " times" }`, "only string literals are allowed in children")
	wantAbort(t, "p { true }", "only string literals are allowed in children")

	// The same literal inside braces is an opaque block and is fine.
	el := firstElement(t, "p { {0} }")
	v, ok := el.Children[0].(ast.Value)
	if !ok || v.Kind != ast.ValueBlock {
		t.Fatalf("expected block child, got %#v", el.Children[0])
	}
}

func TestElidedTerminator(t *testing.T) {
	kids := parseOK(t, "br;\ndiv { \"hi\" }\nfooter")
	if len(kids) != 3 {
		t.Fatalf("expected 3 children, got %d", len(kids))
	}
	last := kids[2].(ast.Element)
	if last.SelfClosing || last.HasChildren {
		t.Fatalf("elided element should have no terminator state: %#v", last)
	}

	// Elision also works for the last child of a nested block.
	el := firstElement(t, "div { span }")
	if len(el.Children) != 1 {
		t.Fatalf("expected nested child, got %#v", el.Children)
	}
}

func TestMissingTerminatorReported(t *testing.T) {
	a := wantAbort(t, `div "text"`, "invalid child")
	if a.Diag.Span.Start != 0 {
		t.Errorf("diagnostic should anchor at the stuck element, got %v", a.Diag.Span)
	}
}

func TestChildBlockLeftoverReported(t *testing.T) {
	wantAbort(t, "div { = }", "invalid child")
}

func TestIllegalTokenReported(t *testing.T) {
	wantAbort(t, "div @;", "invalid")
}
