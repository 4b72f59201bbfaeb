// Package store abstracts the object store a stage reads its input from and
// writes its output to. Drivers register themselves by name; the stage picks
// one via configuration.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that no object exists at the requested bucket/key.
var ErrNotFound = errors.New("object not found")

// Store is the behaviour every driver exposes. Put has overwrite semantics:
// a successful Put fully replaces any object already at the path.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte) error
}

// Config carries driver-specific connection settings.
type Config struct {
	Region   string
	Endpoint string
}

// Path renders the canonical object address used in logs and errors.
func Path(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

/*──────── registry ───────*/

type Factory func(ctx context.Context, cfg Config) (Store, error)

var reg = map[string]Factory{}

// Register is called from each driver's init() or main() factory map.
func Register(name string, f Factory) { reg[name] = f }

// New returns a driver by name ("s3", "memory").
func New(ctx context.Context, name string, cfg Config) (Store, error) {
	if f, ok := reg[name]; ok {
		return f(ctx, cfg)
	}
	return nil, fmt.Errorf("store: unsupported driver %q", name)
}
