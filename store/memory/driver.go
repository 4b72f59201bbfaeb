// Package memory implements a mutex-guarded in-memory object store, used by
// tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"etlstage/store"
)

type Driver struct {
	mu      sync.RWMutex
	objects map[string][]byte

	GetCalls int
	PutCalls int
}

func New() *Driver {
	return &Driver{objects: make(map[string][]byte)}
}

// NewStore adapts New to the store registry factory signature.
func NewStore(ctx context.Context, cfg store.Config) (store.Store, error) {
	return New(), nil
}

func (d *Driver) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.GetCalls++
	body, ok := d.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, store.Path(bucket, key))
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (d *Driver) Put(ctx context.Context, bucket, key string, body []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.PutCalls++
	stored := make([]byte, len(body))
	copy(stored, body)
	d.objects[bucket+"/"+key] = stored
	return nil
}

// Seed stores an object without counting it as a Put.
func (d *Driver) Seed(bucket, key string, body []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[bucket+"/"+key] = append([]byte{}, body...)
}

// Object returns the stored body, if any.
func (d *Driver) Object(bucket, key string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	body, ok := d.objects[bucket+"/"+key]
	return body, ok
}
