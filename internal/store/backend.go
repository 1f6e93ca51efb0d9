// Package store provides the app directory and the key-value backends the
// habit collection is persisted to.
package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend is an opaque key-value service. Get returns ErrNotFound for
// missing keys. Set replaces the whole value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by OpenBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// BackendOptions selects and parameterizes a backend.
type BackendOptions struct {
	Kind string

	// SQLitePath defaults to habits.db inside the app directory.
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// OpenBackend opens the backend named by o.Kind. The file backend is the
// app directory itself.
func OpenBackend(ctx context.Context, dir *Store, o BackendOptions) (Backend, error) {
	switch o.Kind {
	case "", BackendFile:
		return dir, nil
	case BackendSQLite:
		path := o.SQLitePath
		if path == "" {
			path = filepath.Join(dir.Path(), "habits.db")
		}
		return NewSQLiteBackend(path)
	case BackendRedis:
		return NewRedisBackend(ctx, RedisOptions{
			Addr:     o.RedisAddr,
			Password: o.RedisPassword,
			DB:       o.RedisDB,
			Prefix:   o.RedisPrefix,
		})
	}
	return nil, fmt.Errorf("unknown storage backend %q", o.Kind)
}
