package ports

import "context"

// DurableStore is a string key-value store that survives restarts.
type DurableStore interface {
	// Get returns the value stored under key. The boolean is false if the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
