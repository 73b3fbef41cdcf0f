package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type writerConfig struct {
	maxSize int
	name    string
	applied []string
}

var errNegative = errors.New("size cannot be negative")

func withMaxSize(n int) Option[*writerConfig] {
	return New(func(c *writerConfig) error {
		if n < 0 {
			return errNegative
		}
		c.maxSize = n
		c.applied = append(c.applied, "maxSize")

		return nil
	})
}

func withName(name string) Option[*writerConfig] {
	return NoError(func(c *writerConfig) {
		c.name = name
		c.applied = append(c.applied, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &writerConfig{}
		err := Apply(cfg, withName("root"), withMaxSize(64))

		require.NoError(t, err)
		require.Equal(t, 64, cfg.maxSize)
		require.Equal(t, "root", cfg.name)
		require.Equal(t, []string{"name", "maxSize"}, cfg.applied)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &writerConfig{}
		err := Apply(cfg, withMaxSize(-1), withName("never"))

		require.ErrorIs(t, err, errNegative)
		require.Empty(t, cfg.name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &writerConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.applied)
	})
}
