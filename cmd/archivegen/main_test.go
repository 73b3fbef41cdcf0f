package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/archive/mirror"
)

const recordSource = `package p

import "github.com/arloliu/archive"

var _ archive.CopyResolver

//archive:generate
type Msg struct {
	Body string
	Seq  uint64
}
`

func writeFile(t *testing.T, path, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
packages: [./a, ./b/...]
output: gen_archive.go
log_level: debug
parallel: 3
`))
	require.NoError(t, err)
	require.Equal(t, []string{"./a", "./b/..."}, cfg.Packages)
	require.Equal(t, "gen_archive.go", cfg.Output)
	require.Equal(t, mirror.DefaultArchivePath, cfg.ArchiveImport)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 3, cfg.Parallel)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("outptu: x.go\n"))
	require.ErrorContains(t, err, "decode config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"no packages", func(c *Config) { c.Packages = nil }, "no packages"},
		{"parallel", func(c *Config) { c.Parallel = 0 }, "parallel"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"output dir", func(c *Config) { c.Output = "x/y.go" }, "output file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Packages = []string{"."}
			tt.modify(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestParseArgs_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "archivegen.yaml")
	writeFile(t, configPath, "packages: [./x]\noutput: from_config.go\nparallel: 2\n")

	var stderr bytes.Buffer
	cfg, err := parseArgs([]string{"-config", configPath, "-output", "from_flag.go", "./y"}, &stderr)
	require.NoError(t, err)
	require.Equal(t, "from_flag.go", cfg.Output)
	require.Equal(t, 2, cfg.Parallel)
	require.Equal(t, []string{"./y"}, cfg.Packages)
}

func TestParseArgs_DefaultPackage(t *testing.T) {
	cfg, err := parseArgs(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, []string{"."}, cfg.Packages)
}

func TestExpandPackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "a", "b", "b.go"), "package b\n")
	writeFile(t, filepath.Join(root, "a", "testdata", "t.go"), "package t\n")
	writeFile(t, filepath.Join(root, "a", "only_test", "x_test.go"), "package x\n")

	dirs, err := expandPackages([]string{filepath.Join(root, "a") + "/...", filepath.Join(root, "a")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, dirs)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "msg.go"), recordSource)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-log-level", "error", dir}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	src, err := os.ReadFile(filepath.Join(dir, mirror.DefaultOutputFile))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(src), mirror.GeneratedHeader))
}

func TestRun_LogsToStderr(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "msg.go"), recordSource)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-log-level", "debug", dir}, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stderr.String(), "mirrored type")
	require.Contains(t, stderr.String(), "wrote generated file")

	stderr.Reset()
	code = run(context.Background(), []string{"-log-level", "error", dir}, &stderr)
	require.Equal(t, 0, code)
	require.Empty(t, stderr.String())
}

func TestRun_DefinitionError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.go"), "package p\n\n//archive:generate\ntype Bad struct{ N int }\n")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-log-level", "error", dir}, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "generation failed")
	require.Contains(t, stderr.String(), "int has a platform-dependent width")

	_, err := os.Stat(filepath.Join(dir, mirror.DefaultOutputFile))
	require.True(t, os.IsNotExist(err))
}

func TestRun_BadFlags(t *testing.T) {
	var stderr bytes.Buffer
	require.Equal(t, 2, run(context.Background(), []string{"-parallel", "-1"}, &stderr))
	require.Contains(t, stderr.String(), "parallel")
}
