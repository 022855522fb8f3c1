package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsdeps/pkg/indexer"
)

func TestLoadProjectConfigMissing(t *testing.T) {
	cfg, err := loadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
log_level: debug
include:
  - "src/**/*.js"
exclude:
  - "**/vendor/**"
workers: 4
mcp_log: logs/tools.jsonl
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsdeps.yaml"), []byte(content), 0o644))

	cfg, err := loadProjectConfig(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"src/**/*.js"}, cfg.Include)
	assert.Equal(t, []string{"**/vendor/**"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "logs/tools.jsonl", cfg.MCPLog)
}

func TestLoadProjectConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsdeps.yaml"), []byte("log_level: [broken"), 0o644))

	_, err := loadProjectConfig(dir)
	assert.Error(t, err)
}

func TestResolveScanOptionsPrecedence(t *testing.T) {
	cfg := &ProjectConfig{
		Include: []string{"cfg/**/*.js"},
		Exclude: []string{"cfg-exclude/**"},
		Workers: 2,
	}

	// Config fills defaults.
	opts := resolveScanOptions(cfg, nil, nil, 0)
	assert.Equal(t, []string{"cfg/**/*.js"}, opts.Include)
	assert.Equal(t, []string{"cfg-exclude/**"}, opts.Exclude)
	assert.Equal(t, 2, opts.Workers)

	// Flags win over config.
	opts = resolveScanOptions(cfg, []string{"flag/**/*.ts"}, []string{"flag-exclude/**"}, 8)
	assert.Equal(t, []string{"flag/**/*.ts"}, opts.Include)
	assert.Equal(t, []string{"flag-exclude/**"}, opts.Exclude)
	assert.Equal(t, 8, opts.Workers)

	// No config, no flags: defaults.
	opts = resolveScanOptions(nil, nil, nil, 0)
	assert.Equal(t, indexer.DefaultScanOptions().Include, opts.Include)
	assert.Equal(t, indexer.DefaultScanOptions().Exclude, opts.Exclude)
}

func TestResolveLogLevel(t *testing.T) {
	assert.Equal(t, "debug", resolveLogLevel(nil, "debug"))
	assert.Equal(t, "warn", resolveLogLevel(&ProjectConfig{LogLevel: "warn"}, ""))
	assert.Equal(t, "debug", resolveLogLevel(&ProjectConfig{LogLevel: "warn"}, "debug"))
	assert.Equal(t, "info", resolveLogLevel(nil, ""))
}
