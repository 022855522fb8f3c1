package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/jsdeps/pkg/indexer"
)

// ProjectConfig holds the contents of .jsdeps.yaml.
type ProjectConfig struct {
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Workers   int      `yaml:"workers"`
	MCPLog    string   `yaml:"mcp_log"`
}

// loadProjectConfig reads .jsdeps.yaml from dir. Returns nil (no error)
// if the file does not exist.
func loadProjectConfig(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(dir + "/.jsdeps.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveScanOptions merges flags over config over defaults. Flag values
// win when set; config fills the rest.
func resolveScanOptions(cfg *ProjectConfig, include, exclude []string, workers int) indexer.ScanOptions {
	opts := indexer.DefaultScanOptions()
	if cfg != nil {
		if len(cfg.Include) > 0 {
			opts.Include = cfg.Include
		}
		if len(cfg.Exclude) > 0 {
			opts.Exclude = cfg.Exclude
		}
		if cfg.Workers > 0 {
			opts.Workers = cfg.Workers
		}
	}
	if len(include) > 0 {
		opts.Include = include
	}
	if len(exclude) > 0 {
		opts.Exclude = exclude
	}
	if workers > 0 {
		opts.Workers = workers
	}
	return opts
}

// resolveLogLevel returns the level to use: flag, then config, then info.
func resolveLogLevel(cfg *ProjectConfig, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "info"
}
