package mirror

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/archive/errs"
	"github.com/arloliu/archive/internal/options"
)

const (
	// DefaultArchivePath is the import path of the archive runtime.
	DefaultArchivePath = "github.com/arloliu/archive"
	// DefaultOutputFile is the name of the generated file in each package.
	DefaultOutputFile = "archive_gen.go"
	// GeneratedHeader is the first line of every generated file.
	GeneratedHeader = "// Code generated by archivegen. DO NOT EDIT."
)

type config struct {
	logger      *zap.Logger
	outputFile  string
	archivePath string
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		logger:      zap.NewNop(),
		outputFile:  DefaultOutputFile,
		archivePath: DefaultArchivePath,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures the generator.
type Option = options.Option[*config]

// WithLogger sets the logger used to report generation progress.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithOutputFile sets the file name written by GenerateDir. The name must be
// a plain .go file name without directory components.
func WithOutputFile(name string) Option {
	return options.New(func(c *config) error {
		if name == "" || filepath.Base(name) != name || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") {
			return fmt.Errorf("%w: invalid output file %q", errs.ErrInvalidDirective, name)
		}
		c.outputFile = name

		return nil
	})
}

// WithArchiveImport overrides the import path of the archive runtime, for
// vendored or forked copies.
func WithArchiveImport(path string) Option {
	return options.New(func(c *config) error {
		if path == "" {
			return fmt.Errorf("%w: empty archive import path", errs.ErrInvalidDirective)
		}
		c.archivePath = path

		return nil
	})
}
