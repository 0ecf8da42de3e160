package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store is a generic persistent mapping from string keys to JSON values.
// Writes are last-write-wins; Delete of an absent key succeeds.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
