// Package cache is the sole persistence abstraction: a flat key-value store
// with read, write and append operations. Backends are substitutable behind
// the Store interface; core logic never knows which one is active.
package cache

import (
	"context"
	"fmt"
)

// Store is the three-operation cache contract. Read reports absence via the
// bool return instead of an error, since missing keys are the normal path
// before startup population has run. Write is a full overwrite. Append reads
// the current array value (empty when absent), pushes one element and writes
// the array back; it is serialized per process but last-writer-wins across
// processes.
type Store interface {
	Read(ctx context.Context, key string, dest interface{}) (bool, error)
	Write(ctx context.Context, key string, value interface{}) error
	Append(ctx context.Context, key string, value interface{}) error
}

// Key builds a namespaced cache key: "<league>:<resource>".
func Key(league, resource string) string {
	return fmt.Sprintf("%s:%s", league, resource)
}
