package vex

import "github.com/vexlang/vex/internal/vex/compile"

// CompileFile compiles a Go-first .vex source (a Go file with embedded
// view.Tpl(`...`) templates) into a gofmt'd Go source file.
//
// The result is suitable for writing to "<path minus .vex>.vex.go" and
// checking in. When the error is a compile.ErrorList the returned source is
// still complete: failed templates are replaced by an inert stand-in.
func CompileFile(path string, src []byte) ([]byte, error) {
	return compile.CompileFile(path, src)
}
