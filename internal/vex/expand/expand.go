// Package expand lowers a parsed template to a Go expression: a tree of
// nested builder calls targeting the view runtime (for HTML elements) and
// user-defined component builders (for PascalCase tags).
package expand

import (
	"fmt"
	goast "go/ast"
	goparser "go/parser"
	gotoken "go/token"
	"strings"

	"github.com/vexlang/vex/internal/vex/ast"
	"github.com/vexlang/vex/internal/vex/diag"
	"github.com/vexlang/vex/internal/vex/parser"
	"github.com/vexlang/vex/internal/vex/token"
)

// RuntimePkg is the package identifier the emitted expressions reference for
// element constructors, fragments and text nodes.
const RuntimePkg = "view"

// Translate parses and expands a whole template. On any hard abort it
// returns the inert stand-in `view.Nothing()` plus the diagnostic, never a
// nil expression, so downstream consumers have something to splice in.
func Translate(src string) (goast.Expr, *diag.Diagnostic) {
	kids, err := parser.Parse(src)
	if err != nil {
		return Nothing(), abortDiag(err)
	}
	ex, err := Expand(kids)
	if err != nil {
		return Nothing(), abortDiag(err)
	}
	return ex, nil
}

// Nothing returns the stand-in expression emitted in place of a failed
// translation.
func Nothing() goast.Expr {
	return call(runtimeSel("Nothing"))
}

func abortDiag(err error) *diag.Diagnostic {
	if a, ok := diag.AsAbort(err); ok {
		d := a.Diag
		return &d
	}
	// Parse and expand errors are always aborts; anything else is a bug,
	// but still surface it rather than dropping it.
	return &diag.Diagnostic{Message: err.Error()}
}

// Expand lowers top-level children. A single child expands directly with no
// fragment wrapper; zero or several become a fragment, after rejecting
// top-level slots.
func Expand(kids ast.Children) (goast.Expr, error) {
	if len(kids) == 1 {
		return expandChild(kids[0])
	}
	for _, k := range kids {
		if el, ok := k.(ast.Element); ok && el.Sel.Kind() == ast.KindSlot {
			return nil, diag.Abortf(el.Sel.TagSpan, "slots should be inside a parent that supports slots")
		}
	}
	return expandFragment(kids)
}

// expandFragment emits `view.Fragment(c1, ..., cN)` in source order.
func expandFragment(kids ast.Children) (goast.Expr, error) {
	args := make([]goast.Expr, 0, len(kids))
	for _, k := range kids {
		ex, err := expandChild(k)
		if err != nil {
			return nil, err
		}
		args = append(args, ex)
	}
	return call(runtimeSel("Fragment"), args...), nil
}

func expandChild(c ast.Child) (goast.Expr, error) {
	switch n := c.(type) {
	case ast.Value:
		return expandChildValue(n)
	case ast.Element:
		return expandElement(n)
	default:
		return nil, fmt.Errorf("unsupported child type %T", c)
	}
}

// expandChildValue lowers a value in child position. The parser has already
// rejected non-string literals here.
func expandChildValue(v ast.Value) (goast.Expr, error) {
	switch v.Kind {
	case ast.ValueLit:
		return call(runtimeSel("Text"), &goast.BasicLit{Kind: gotoken.STRING, Value: v.Text}), nil
	default:
		return expandValue(v)
	}
}

// expandValue lowers a value in argument position. Blocks are emitted
// verbatim; brackets become a zero-parameter closure over the expression.
func expandValue(v ast.Value) (goast.Expr, error) {
	switch v.Kind {
	case ast.ValueLit:
		return litExpr(v), nil
	case ast.ValueBlock:
		return spliceExpr(v.Text, v.Span)
	case ast.ValueBracket:
		body, err := spliceExpr(v.Text, v.Span)
		if err != nil {
			return nil, err
		}
		return closure(body), nil
	default:
		return nil, fmt.Errorf("unknown value kind %v", v.Kind)
	}
}

func litExpr(v ast.Value) goast.Expr {
	switch v.Lit {
	case ast.LitString:
		return &goast.BasicLit{Kind: gotoken.STRING, Value: v.Text}
	case ast.LitBool:
		return goast.NewIdent(v.Text)
	default:
		kind := gotoken.INT
		for _, ch := range v.Text {
			if ch == '.' {
				kind = gotoken.FLOAT
			}
		}
		return &goast.BasicLit{Kind: kind, Value: v.Text}
	}
}

// spliceExpr parses an opaque captured payload as a Go expression so it can
// be re-emitted verbatim inside the output tree.
func spliceExpr(src string, span token.Span) (goast.Expr, error) {
	ex, err := goparser.ParseExpr(src)
	if err != nil {
		return nil, diag.Abortf(span, "invalid expression %q: %v", src, err)
	}
	return ex, nil
}

// closure wraps an expression as `func() any { return expr }`.
func closure(body goast.Expr) goast.Expr {
	return &goast.FuncLit{
		Type: &goast.FuncType{
			Params:  &goast.FieldList{},
			Results: &goast.FieldList{List: []*goast.Field{{Type: goast.NewIdent("any")}}},
		},
		Body: &goast.BlockStmt{List: []goast.Stmt{&goast.ReturnStmt{Results: []goast.Expr{body}}}},
	}
}

// expandElement builds the element's call chain: constructor, then class/id
// calls, then one setter per attribute in source order, then children. The
// chain is built one way; no backtracking happens during expansion.
func expandElement(el ast.Element) (goast.Expr, error) {
	kind := el.Sel.Kind()

	chain, err := constructor(el.Sel, kind)
	if err != nil {
		return nil, err
	}

	if kind == ast.KindComponent {
		if len(el.Sel.Classes) > 0 {
			return nil, diag.Abortf(el.Sel.Classes[0].Span, "classes are not supported on components")
		}
		if el.Sel.ID != nil {
			return nil, diag.Abortf(el.Sel.ID.Span, "ids are not supported on components")
		}
	} else {
		for _, class := range el.Sel.Classes {
			chain = method(chain, "Class", strLit(class.Raw))
		}
		if el.Sel.ID != nil {
			chain = method(chain, "ID", strLit(el.Sel.ID.Raw))
		}
	}

	for _, a := range el.Attrs {
		chain, err = applyAttr(chain, a, kind)
		if err != nil {
			return nil, err
		}
	}

	return attachChildren(chain, el)
}

// constructor resolves the starting expression of the chain. HTML elements
// and nested slots go through the runtime; components call the user's
// builder constructor, with any generics applied as type arguments.
func constructor(sel ast.Selector, kind ast.NodeKind) (goast.Expr, error) {
	if kind != ast.KindComponent {
		if sel.HasGenerics {
			return nil, diag.Abortf(sel.TagSpan, "generic arguments are not supported on elements")
		}
		return call(runtimeSel("El"), strLit(sel.Tag)), nil
	}

	if strings.ContainsRune(sel.Tag, '-') {
		return nil, diag.Abortf(sel.TagSpan, "component names cannot contain hyphens")
	}
	fun := goast.Expr(goast.NewIdent(sel.Tag))
	if sel.HasGenerics {
		args, err := typeArgs(sel)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			fun = &goast.IndexExpr{X: fun, Index: args[0]}
		} else {
			fun = &goast.IndexListExpr{X: fun, Indices: args}
		}
	}
	return call(fun), nil
}

// typeArgs splits the captured generics payload on top-level commas and
// parses each piece as a type expression.
func typeArgs(sel ast.Selector) ([]goast.Expr, error) {
	var args []goast.Expr
	depth, start := 0, 0
	src := sel.Generics
	for i := 0; i <= len(src); i++ {
		if i == len(src) || (src[i] == ',' && depth == 0) {
			piece := src[start:i]
			ex, err := goparser.ParseExpr(piece)
			if err != nil {
				return nil, diag.Abortf(sel.TagSpan, "invalid generic argument %q: %v", piece, err)
			}
			args = append(args, ex)
			start = i + 1
			continue
		}
		switch src[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		}
	}
	if len(args) == 0 {
		return nil, diag.Abortf(sel.TagSpan, "empty generic argument list")
	}
	return args, nil
}

// applyAttr appends one setter call for the attribute. The setter family
// depends on both the attribute form and the node kind; illegal combinations
// abort here, since parsing cannot know the node kind.
func applyAttr(chain goast.Expr, a ast.Attr, kind ast.NodeKind) (goast.Expr, error) {
	component := kind == ast.KindComponent
	switch n := a.(type) {
	case ast.KvAttr:
		v, err := expandValue(n.Value)
		if err != nil {
			return nil, err
		}
		if component {
			return method(chain, n.Key.Camel(), v), nil
		}
		return method(chain, "Attr", strLit(n.Key.Raw), v), nil

	case ast.BoolAttr:
		if component {
			return method(chain, n.Key.Camel(), goast.NewIdent("true")), nil
		}
		return method(chain, "Attr", strLit(n.Key.Raw), goast.NewIdent("true")), nil

	case ast.SpreadAttr:
		if component {
			return nil, diag.Abortf(n.Span, "spread attributes are not supported on components")
		}
		ex, err := spliceExpr(n.Expr, n.Span)
		if err != nil {
			return nil, err
		}
		return method(chain, "Spread", ex), nil

	case ast.Directive:
		return applyDirective(chain, n, component)

	default:
		return nil, fmt.Errorf("unsupported attribute type %T", a)
	}
}

func applyDirective(chain goast.Expr, d ast.Directive, component bool) (goast.Expr, error) {
	if component {
		switch d.Dir {
		case ast.DirClass, ast.DirStyle, ast.DirProp, ast.DirAttr:
			return nil, diag.Abortf(d.Span, "`%s:` is not supported on components", d.Dir)
		}
	} else if d.Dir == ast.DirClone {
		return nil, diag.Abortf(d.Span, "`clone:` is only supported on components")
	}

	switch d.Dir {
	case ast.DirClone:
		return method(chain, "Clone", goast.NewIdent(d.Key.Raw)), nil

	case ast.DirUse:
		if d.Value == nil {
			return method(chain, "Use", goast.NewIdent(d.Key.Raw)), nil
		}
		v, err := expandValue(*d.Value)
		if err != nil {
			return nil, err
		}
		return method(chain, "Use", goast.NewIdent(d.Key.Raw), v), nil

	default:
		v, err := expandValue(*d.Value)
		if err != nil {
			return nil, err
		}
		var name string
		switch d.Dir {
		case ast.DirClass:
			name = "ToggleClass"
		case ast.DirStyle:
			name = "StyleProp"
		case ast.DirOn:
			name = "On"
		case ast.DirProp:
			name = "Prop"
		case ast.DirAttr:
			name = "Attr"
		}
		return method(chain, name, directiveKey(d), v), nil
	}
}

// directiveKey emits the directive key: the raw string literal for
// `class:"compound name"` forms, a quoted identifier otherwise.
func directiveKey(d ast.Directive) goast.Expr {
	if d.KeyLit != "" {
		return &goast.BasicLit{Kind: gotoken.STRING, Value: d.KeyLit}
	}
	return strLit(d.Key.Raw)
}

// attachChildren appends the children call. A closure-parameter list wraps
// the children in `ChildFn(func(p1, ..., pn any) view.Node { ... })`;
// otherwise a single child attaches directly and several attach as one
// fragment.
func attachChildren(chain goast.Expr, el ast.Element) (goast.Expr, error) {
	if el.HasClosure {
		body, err := childrenExpr(el.Children)
		if err != nil {
			return nil, err
		}
		return method(chain, "ChildFn", childFn(el.ClosureParams, body)), nil
	}
	if !el.HasChildren || len(el.Children) == 0 {
		return chain, nil
	}
	ex, err := childrenExpr(el.Children)
	if err != nil {
		return nil, err
	}
	return method(chain, "Child", ex), nil
}

func childrenExpr(kids ast.Children) (goast.Expr, error) {
	if len(kids) == 1 {
		return expandChild(kids[0])
	}
	return expandFragment(kids)
}

// childFn builds `func(p1, ..., pn any) view.Node { return body }`.
func childFn(params []ast.Param, body goast.Expr) goast.Expr {
	var fields []*goast.Field
	if len(params) > 0 {
		names := make([]*goast.Ident, len(params))
		for i, p := range params {
			names[i] = goast.NewIdent(p.Name)
		}
		fields = []*goast.Field{{Names: names, Type: goast.NewIdent("any")}}
	}
	return &goast.FuncLit{
		Type: &goast.FuncType{
			Params:  &goast.FieldList{List: fields},
			Results: &goast.FieldList{List: []*goast.Field{{Type: runtimeSel("Node")}}},
		},
		Body: &goast.BlockStmt{List: []goast.Stmt{&goast.ReturnStmt{Results: []goast.Expr{body}}}},
	}
}

func runtimeSel(name string) goast.Expr {
	return &goast.SelectorExpr{X: goast.NewIdent(RuntimePkg), Sel: goast.NewIdent(name)}
}

func call(fun goast.Expr, args ...goast.Expr) *goast.CallExpr {
	return &goast.CallExpr{Fun: fun, Args: args}
}

func method(recv goast.Expr, name string, args ...goast.Expr) goast.Expr {
	return call(&goast.SelectorExpr{X: recv, Sel: goast.NewIdent(name)}, args...)
}

func strLit(s string) goast.Expr {
	return &goast.BasicLit{Kind: gotoken.STRING, Value: fmt.Sprintf("%q", s)}
}
