package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vexlang/vex/internal/vex/compile"
	"github.com/vexlang/vex/internal/vex/outfile"
)

func generateCmd() *cobra.Command {
	var rootFlag, dirFlag string
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "generate one *.vex.go file next to each *.vex source",
		Long: `Patterns behave like Go patterns:
  - ./...        recurse from cwd
  - ./dir        only that directory (non-recursive)
  - ./dir/...    recurse from that directory
  - ./file.vex   only that file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			root := rootFlag
			if root == "" {
				root, err = findModuleRoot(cwd)
				if err != nil {
					return err
				}
			}
			root, err = filepath.Abs(root)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			if strings.TrimSpace(dirFlag) != "" {
				if len(args) != 0 {
					return errors.New("cannot use --dir with positional patterns")
				}
				dir := dirFlag
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(cwd, dir)
				}
				return generateDir(cfg, dir)
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}
			paths, err := collectVexPaths(cwd, cfg, patterns)
			if err != nil {
				return err
			}
			sort.Strings(paths)

			var allErr error
			for _, pth := range paths {
				if err := generateFile(cfg, pth); err != nil {
					allErr = joinErrs(allErr, err)
				}
			}
			return allErr
		},
	}
	cmd.Flags().StringVar(&rootFlag, "root", "", "module root (defaults to the go.mod parent above cwd)")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "only generate for this directory (non-recursive); useful with go:generate")
	return cmd
}

// joinErrs merges compile diagnostics flat so the printer can color each
// position; other errors join the normal way.
func joinErrs(a, b error) error {
	la, aok := a.(compile.ErrorList)
	lb, bok := b.(compile.ErrorList)
	switch {
	case a == nil:
		return b
	case aok && bok:
		return append(la, lb...)
	default:
		return errors.Join(a, b)
	}
}

func generateDir(cfg config, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".vex") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var allErr error
	for _, pth := range paths {
		if err := generateFile(cfg, pth); err != nil {
			allErr = joinErrs(allErr, err)
		}
	}
	return allErr
}

func generateFile(cfg config, pth string) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	src, err := compile.CompileFile(pth, b)
	if err != nil {
		if list, ok := err.(compile.ErrorList); ok {
			return list
		}
		return fmt.Errorf("%s: %w", pth, err)
	}
	return outfile.Write(outPath(cfg, pth), src)
}

func outPath(cfg config, pth string) string {
	return strings.TrimSuffix(pth, ".vex") + cfg.Generate.OutSuffix
}

func collectVexPaths(cwd string, cfg config, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) error {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, pat := range patterns {
		switch {
		case strings.HasSuffix(pat, "/..."):
			base := strings.TrimSuffix(pat, "/...")
			if base == "." || base == "" {
				base = cwd
			}
			if !filepath.IsAbs(base) {
				base = filepath.Join(cwd, base)
			}
			found, err := discoverVex(cfg, base)
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				if err := add(p); err != nil {
					return nil, err
				}
			}
		case strings.HasSuffix(pat, ".vex"):
			if err := add(pat); err != nil {
				return nil, err
			}
		default:
			dir := pat
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".vex") {
					if err := add(filepath.Join(dir, e.Name())); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return out, nil
}

// discoverVex walks root for .vex sources, skipping excluded and hidden
// directories.
func discoverVex(cfg config, root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			for _, ex := range cfg.Generate.Exclude {
				if name == ex {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if strings.HasSuffix(de.Name(), ".vex") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
