// Package store persists scenarios through a pluggable key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"underwriting/pkg/core/config"

	"github.com/sirupsen/logrus"
)

// Backend is a string key-value store. Read reports found=false for a key that
// was never written.
type Backend interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
}

var ErrUnknownBackend = errors.New("unknown storage backend")

// Open builds the backend named in cfg.
func Open(ctx context.Context, cfg config.StorageConfig, log logrus.FieldLogger) (Backend, error) {
	name := strings.ToLower(cfg.Backend)
	log.WithField("backend", name).Info("opening scenario storage")

	switch name {
	case "memory":
		return NewMemoryBackend(), nil
	case "", "file":
		return NewFileBackend(cfg.DataDir)
	case "postgres":
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresBackend(ctx, pool)
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Close releases the backend's connections, if it holds any.
func Close(b Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// OpenScenarioStore opens the configured backend and wraps it in a
// ScenarioStore. The returned close func releases the backend.
func OpenScenarioStore(ctx context.Context, cfg config.StorageConfig, log logrus.FieldLogger) (*ScenarioStore, func() error, error) {
	b, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	st := NewScenarioStore(b, WithLogger(log), WithKeyPrefix(cfg.KeyPrefix))
	return st, func() error { return Close(b) }, nil
}
