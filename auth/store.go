// api/auth/store.go
package auth

import (
	"context"
	"time"

	"github.com/vidora-labs/vidora/api/db"
)

// RedisRevocationStore backs revocation with the shared Redis token store.
type RedisRevocationStore struct{}

func (RedisRevocationStore) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	return db.RevokeToken(ctx, token, ttl)
}

func (RedisRevocationStore) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return db.IsTokenRevoked(ctx, token)
}
