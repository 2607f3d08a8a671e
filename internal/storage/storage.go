// Package storage provides the durable key-value slots the session subsystem
// persists across restarts: the cached access token and the device
// identifier. It is a pure store; no network or session logic lives here.
package storage

import (
	"context"
)

// Repository is a durable string-keyed byte store.
//
// Get returns nil (not an error) for a missing key, so callers can treat
// "absent" as a normal state.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
