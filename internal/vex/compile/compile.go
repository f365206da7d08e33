// Package compile rewrites Go-first .vex sources: every `view.Tpl(` + raw
// string + `)` call is replaced with the expanded builder expression, and the
// result is returned as gofmt'd Go source for the sibling *.vex.go file.
package compile

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/format"
	goparser "go/parser"
	"go/printer"
	gotoken "go/token"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/vexlang/vex/internal/vex/expand"
)

// ViewImportPath is the runtime package compiled templates depend on.
const ViewImportPath = "github.com/vexlang/vex/pkg/view"

// Diagnostic is a translation error resolved to a file position inside the
// original template literal.
type Diagnostic struct {
	Path    string
	Line    int
	Col     int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Line, d.Col, d.Message)
}

// ErrorList is the error returned when any template in a file failed to
// translate.
type ErrorList []Diagnostic

func (e ErrorList) Error() string {
	msgs := make([]string, len(e))
	for i, d := range e {
		msgs[i] = d.String()
	}
	return strings.Join(msgs, "\n")
}

// CompileFile translates all templates in one .vex source file. The returned
// source is complete even when the error is non-nil: failed templates are
// replaced by the inert stand-in so the rest of the file still formats.
func CompileFile(path string, src []byte) ([]byte, error) {
	fset := gotoken.NewFileSet()
	file, err := goparser.ParseFile(fset, path, src, goparser.ParseComments)
	if err != nil {
		return nil, err
	}

	var diags ErrorList
	astutil.Apply(file, nil, func(cur *astutil.Cursor) bool {
		call, ok := cur.Node().(*goast.CallExpr)
		if !ok {
			return true
		}
		lit, ok := tplArg(call)
		if !ok {
			return true
		}
		if lit.Value[0] != '`' {
			pos := fset.Position(lit.Pos())
			diags = append(diags, Diagnostic{
				Path: path, Line: pos.Line, Col: pos.Column,
				Message: "template must be a raw (backtick) string literal",
			})
			return true
		}

		tpl := lit.Value[1 : len(lit.Value)-1]
		ex, d := expand.Translate(tpl)
		if d != nil {
			// Offsets into a raw string map 1:1 onto file offsets, one
			// past the opening backtick.
			pos := fset.Position(lit.Pos() + gotoken.Pos(1+d.Span.Start))
			diags = append(diags, Diagnostic{
				Path: path, Line: pos.Line, Col: pos.Column, Message: d.Message,
			})
		}
		cur.Replace(ex)
		return true
	})

	if !astutil.UsesImport(file, ViewImportPath) {
		astutil.DeleteImport(fset, file, ViewImportPath)
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by vex. DO NOT EDIT.\n\n")
	if err := printer.Fprint(&buf, fset, file); err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		// The rewritten tree should always print as valid Go; surface the
		// raw output to make such a bug debuggable.
		return buf.Bytes(), fmt.Errorf("formatting generated source: %w", err)
	}
	if len(diags) > 0 {
		return out, diags
	}
	return out, nil
}

// tplArg matches `view.Tpl(<string literal>)`.
func tplArg(call *goast.CallExpr) (*goast.BasicLit, bool) {
	sel, ok := call.Fun.(*goast.SelectorExpr)
	if !ok || sel.Sel.Name != "Tpl" {
		return nil, false
	}
	pkg, ok := sel.X.(*goast.Ident)
	if !ok || pkg.Name != "view" {
		return nil, false
	}
	if len(call.Args) != 1 {
		return nil, false
	}
	lit, ok := call.Args[0].(*goast.BasicLit)
	if !ok || lit.Kind != gotoken.STRING || len(lit.Value) < 2 {
		return nil, false
	}
	return lit, true
}
