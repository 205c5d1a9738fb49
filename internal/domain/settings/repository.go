package settings

import "context"

// ConfigRepository is the process-wide key-value store backing Settings.
// Keys are absent until first written.
type ConfigRepository interface {
	// GetAll returns every stored key-value pair.
	GetAll(ctx context.Context) (map[string]string, error)

	// Get returns the value for a key, ok=false when never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Upsert writes or replaces a key.
	Upsert(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
