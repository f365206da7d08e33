package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// config is the optional vex.toml at the module root.
//
//	[generate]
//	out_suffix = ".vex.go"
//	exclude = ["vendor", "node_modules", "testdata"]
type config struct {
	Generate generateConfig `toml:"generate"`
}

type generateConfig struct {
	OutSuffix string   `toml:"out_suffix"`
	Exclude   []string `toml:"exclude"`
}

func defaultConfig() config {
	return config{
		Generate: generateConfig{
			OutSuffix: ".vex.go",
			Exclude:   []string{"vendor", "node_modules"},
		},
	}
}

func loadConfig(root string) (config, error) {
	cfg := defaultConfig()
	path := filepath.Join(root, "vex.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return config{}, err
	}
	if cfg.Generate.OutSuffix == "" {
		cfg.Generate.OutSuffix = ".vex.go"
	}
	return cfg, nil
}
