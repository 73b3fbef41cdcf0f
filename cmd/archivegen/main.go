// Command archivegen generates archive resolver and archived types for the
// Go packages named on its command line.
//
// Typical use is a go:generate line in the package that declares the types:
//
//	//go:generate go run github.com/arloliu/archive/cmd/archivegen
//
// Without package arguments it generates the package in the current
// directory. A trailing "/..." walks every package below a directory.
//
// Flags:
//
//	-config file     YAML configuration (packages, output, archive_import, log_level, parallel)
//	-output name     generated file name (default archive_gen.go)
//	-archive path    import path of the archive runtime
//	-log-level lvl   debug, info, warn or error
//	-parallel n      packages generated concurrently
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/archive/mirror"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "archivegen:", err)
		return 2
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "archivegen:", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	if err := generate(ctx, cfg, logger); err != nil {
		logger.Error("generation failed", zap.Error(err))
		return 1
	}

	return 0
}

func parseArgs(args []string, stderr io.Writer) (*Config, error) {
	fset := flag.NewFlagSet("archivegen", flag.ContinueOnError)
	fset.SetOutput(stderr)

	configPath := fset.String("config", "", "YAML configuration file")
	output := fset.String("output", "", "generated file name")
	archiveImport := fset.String("archive", "", "import path of the archive runtime")
	logLevel := fset.String("log-level", "", "log level: debug, info, warn, error")
	parallel := fset.Int("parallel", 0, "packages generated concurrently")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := loadConfigFile(*configPath)
	if err != nil {
		return nil, err
	}

	if *output != "" {
		cfg.Output = *output
	}
	if *archiveImport != "" {
		cfg.ArchiveImport = *archiveImport
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *parallel != 0 {
		cfg.Parallel = *parallel
	}
	if fset.NArg() > 0 {
		cfg.Packages = fset.Args()
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"."}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// generate runs the generator over every package directory in parallel.
func generate(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	dirs, err := expandPackages(cfg.Packages)
	if err != nil {
		return err
	}

	opts := append(cfg.generatorOptions(), mirror.WithLogger(logger))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for _, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			path, err := mirror.GenerateDir(dir, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}
			if path != "" {
				logger.Debug("package generated", zap.String("dir", dir), zap.String("file", path))
			}

			return nil
		})
	}

	return g.Wait()
}

// expandPackages resolves "/..." patterns into package directories.
func expandPackages(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(filepath.ToSlash(pattern), "/...")
		if !recursive {
			add(pattern)
			continue
		}
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(filepath.FromSlash(root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}

			name := d.Name()
			if path != filepath.FromSlash(root) && (name == "testdata" || name == "vendor" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			if hasGoFiles(path) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return dirs, nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") && !strings.HasSuffix(e.Name(), "_test.go") {
			return true
		}
	}

	return false
}
