package out

import (
	"context"
	"time"
)

// Cache defines the outbound port for caching JSON snapshots.
// GetJSON returns false when the key does not exist.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
