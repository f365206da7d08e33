package main

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "regenerate a directory's *.vex sources whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			root, err := findModuleRoot(dir)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			return watchLoop(cfg, dir, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 300*time.Millisecond, "polling interval")
	return cmd
}

// watchLoop polls the directory's .vex sources by content hash and
// regenerates on any change.
func watchLoop(cfg config, dir string, interval time.Duration) error {
	var last [32]byte
	var have bool
	for {
		h, err := hashDir(dir)
		if err != nil {
			printError(err)
			time.Sleep(interval)
			continue
		}
		if !have || h != last {
			last = h
			have = true
			if err := generateDir(cfg, dir); err != nil {
				printError(err)
			}
		}
		time.Sleep(interval)
	}
}

func hashDir(dir string) ([32]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return [32]byte{}, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".vex" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return [32]byte{}, err
		}
		h.Write([]byte(name))
		h.Write(b)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
