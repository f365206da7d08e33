package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vexlang/vex/internal/vex/compile"
)

func main() {
	root := &cobra.Command{
		Use:           "vex",
		Short:         "vex compiles selector-flavored view templates into Go builder calls",
		Long:          "vex rewrites Go-first .vex sources: every view.Tpl(`...`) template\nis expanded into a tree of builder calls and written to a sibling *.vex.go file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCmd(), watchCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

var (
	errLabel = color.New(color.FgRed, color.Bold)
	posLabel = color.New(color.Bold)
)

func printError(err error) {
	if list, ok := err.(compile.ErrorList); ok {
		for _, d := range list {
			_, _ = posLabel.Fprintf(os.Stderr, "%s:%d:%d: ", d.Path, d.Line, d.Col)
			_, _ = errLabel.Fprint(os.Stderr, "error: ")
			_, _ = fmt.Fprintln(os.Stderr, d.Message)
		}
		return
	}
	_, _ = errLabel.Fprint(os.Stderr, "error: ")
	_, _ = fmt.Fprintln(os.Stderr, err)
}

func findModuleRoot(start string) (string, error) {
	d := start
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}
