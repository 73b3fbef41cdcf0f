package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/archive/mirror"
)

// Config is the archivegen configuration file. Command-line flags override
// the values it sets.
type Config struct {
	// Packages are the package directories to generate. A trailing "/..."
	// includes every package below the directory.
	Packages []string `yaml:"packages"`
	// Output is the generated file name in each package.
	Output string `yaml:"output"`
	// ArchiveImport is the import path of the archive runtime.
	ArchiveImport string `yaml:"archive_import"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Parallel bounds the number of packages generated concurrently.
	Parallel int `yaml:"parallel"`
}

func defaultConfig() *Config {
	return &Config{
		Output:        mirror.DefaultOutputFile,
		ArchiveImport: mirror.DefaultArchivePath,
		LogLevel:      "info",
		Parallel:      runtime.GOMAXPROCS(0),
	}
}

// LoadConfig decodes a YAML configuration over the defaults. Unknown keys
// are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := defaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if len(c.Packages) == 0 {
		return errors.New("no packages to generate")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Output == "" || strings.ContainsAny(c.Output, `/\`) {
		return fmt.Errorf("invalid output file %q", c.Output)
	}

	return nil
}

// generatorOptions translates the configuration into mirror options.
func (c *Config) generatorOptions() []mirror.Option {
	return []mirror.Option{
		mirror.WithOutputFile(c.Output),
		mirror.WithArchiveImport(c.ArchiveImport),
	}
}
