package expand

import (
	"bytes"
	goast "go/ast"
	"go/printer"
	gotoken "go/token"
	"strings"
	"testing"
)

func exprString(t *testing.T, ex goast.Expr) string {
	t.Helper()
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, gotoken.NewFileSet(), ex); err != nil {
		t.Fatalf("printing expression: %v", err)
	}
	return buf.String()
}

// normalize collapses whitespace so printed expressions compare on structure,
// not on line breaks.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func expandOK(t *testing.T, src string) string {
	t.Helper()
	ex, d := Translate(src)
	if d != nil {
		t.Fatalf("Translate(%q) diagnostic: %v", src, d)
	}
	return normalize(exprString(t, ex))
}

func expandFail(t *testing.T, src, msgPart string) {
	t.Helper()
	ex, d := Translate(src)
	if d == nil {
		t.Fatalf("Translate(%q): expected diagnostic", src)
	}
	if !strings.Contains(d.Message, msgPart) {
		t.Fatalf("Translate(%q): message %q does not mention %q", src, d.Message, msgPart)
	}
	if got := exprString(t, ex); got != "view.Nothing()" {
		t.Fatalf("Translate(%q): stand-in = %q, want view.Nothing()", src, got)
	}
}

func TestElementChain(t *testing.T) {
	got := expandOK(t, `div.primary { strong { "hello" } }`)
	want := `view.El("div").Class("primary").Child(view.El("strong").Child(view.Text("hello")))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSelfClosingElement(t *testing.T) {
	got := expandOK(t, `input type="text" checked;`)
	want := `view.El("input").Attr("type", "text").Attr("checked", true)`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestShorthandEquivalence(t *testing.T) {
	if a, b := expandOK(t, "div {class};"), expandOK(t, "div class={class};"); a != b {
		t.Errorf("shorthand differs: %q vs %q", a, b)
	}
	got := expandOK(t, "input {aria-label};")
	want := `view.El("input").Attr("aria-label", ariaLabel)`
	if got != want {
		t.Errorf("kebab shorthand: got %q, want %q", got, want)
	}
}

func TestBooleanSugarEquivalence(t *testing.T) {
	if a, b := expandOK(t, "input wide;"), expandOK(t, "input wide=true;"); a != b {
		t.Errorf("boolean sugar differs: %q vs %q", a, b)
	}
}

func TestBracketSugarEquivalence(t *testing.T) {
	a := expandOK(t, "Show when=[ready()];")
	b := expandOK(t, "Show when={func() any { return ready() }};")
	if a != b {
		t.Errorf("bracket sugar differs: %q vs %q", a, b)
	}
}

func TestSingleRootHasNoFragment(t *testing.T) {
	got := expandOK(t, "div;")
	if strings.Contains(got, "Fragment") {
		t.Errorf("single root must not be wrapped: %q", got)
	}
}

func TestFragmentKeepsSourceOrder(t *testing.T) {
	got := expandOK(t, "header; main; footer;")
	want := `view.Fragment(view.El("header"), view.El("main"), view.El("footer"))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestEmptyInputIsEmptyFragment(t *testing.T) {
	if got := expandOK(t, ""); got != "view.Fragment()" {
		t.Errorf("got %q", got)
	}
}

func TestTopLevelSlotRejectedInFragment(t *testing.T) {
	expandFail(t, "slot; div;", "slots should be inside a parent that supports slots")
}

func TestNestedSlotAllowed(t *testing.T) {
	got := expandOK(t, "div { slot; }")
	want := `view.El("div").Child(view.El("slot"))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestChildValueKinds(t *testing.T) {
	got := expandOK(t, `p { "count: " {total} [total() + 1] }`)
	want := `view.El("p").Child(view.Fragment(view.Text("count: "), total, func() any { return total() + 1 }))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestNumberAttr(t *testing.T) {
	got := expandOK(t, "input data-index=0;")
	want := `view.El("input").Attr("data-index", 0)`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestElementDirectives(t *testing.T) {
	got := expandOK(t, `div class:red={cond} class:"a b"={cond} style:color="white" on:input={handle} prop:value={v} attr:role="note" use:tooltip use:resize={params} {..extra};`)
	want := `view.El("div").ToggleClass("red", cond).ToggleClass("a b", cond).StyleProp("color", "white").On("input", handle).Prop("value", v).Attr("role", "note").Use(tooltip).Use(resize, params).Spread(extra)`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSelectorID(t *testing.T) {
	got := expandOK(t, "nav #primary;")
	want := `view.El("nav").ID("primary")`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestComponentChain(t *testing.T) {
	got := expandOK(t, "Something some-attribute=5 wide;")
	want := `Something().SomeAttribute(5).Wide(true)`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestComponentGenerics(t *testing.T) {
	got := expandOK(t, "Generic<string> ty={x};")
	want := `Generic[string]().Ty(x)`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	got = expandOK(t, "Pair<int, string>;")
	want = `Pair[int, string]()`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestComponentClosureChildren(t *testing.T) {
	got := expandOK(t, "Await future=[load()] |db| { p { {db} } }")
	want := `Await().Future(func() any { return load() }).ChildFn(func(db any) view.Node { return view.El("p").Child(db) })`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestComponentCloneAndOn(t *testing.T) {
	got := expandOK(t, "Comp on:change={h} clone:data { p; }")
	want := `Comp().On("change", h).Clone(data).Child(view.El("p"))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestDirectiveLegality(t *testing.T) {
	expandFail(t, `Comp style:color="red";`, "`style:` is not supported on components")
	expandFail(t, `Comp class:red={cond};`, "`class:` is not supported on components")
	expandFail(t, `Comp prop:value={v};`, "`prop:` is not supported on components")
	expandFail(t, `Comp attr:role="note";`, "`attr:` is not supported on components")
	expandFail(t, `Comp {..attrs};`, "spread attributes are not supported on components")
	expandFail(t, `div clone:data { p; }`, "`clone:` is only supported on components")

	// The identical style directive on an element is fine.
	if got := expandOK(t, `div style:color="red";`); !strings.Contains(got, `StyleProp("color", "red")`) {
		t.Errorf("style on element: %q", got)
	}
}

func TestComponentSelectorShorthandRejected(t *testing.T) {
	expandFail(t, "Comp.red;", "classes are not supported on components")
	expandFail(t, "Comp #main;", "ids are not supported on components")
}

func TestElementGenericsRejected(t *testing.T) {
	expandFail(t, "div<T>;", "generic arguments are not supported on elements")
}

func TestInvalidBlockExpression(t *testing.T) {
	expandFail(t, "div x={1 +};", "invalid expression")
}

func TestAbortKeepsSpan(t *testing.T) {
	src := `p { "ok" 5 }`
	_, d := Translate(src)
	if d == nil {
		t.Fatal("expected diagnostic")
	}
	if got := src[d.Span.Start:d.Span.End]; got != "5" {
		t.Errorf("diagnostic anchored at %q, want the literal 5", got)
	}
}
