// Package registry tracks the currently valid refresh token per username in
// Redis. At most one refresh token is valid per user: Save overwrites
// unconditionally, so a later login silently supersedes the previous token.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh:"

type Registry struct {
	client *redis.Client
}

func New(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func (r *Registry) key(username string) string {
	return keyPrefix + username
}

// Save stores token as the current refresh token for username with the given
// TTL, replacing any previous entry.
func (r *Registry) Save(ctx context.Context, username, token string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(username), token, ttl).Err()
}

// Matches reports whether token is exactly the currently registered refresh
// token for username. A missing entry is a mismatch, not an error.
func (r *Registry) Matches(ctx context.Context, username, token string) (bool, error) {
	stored, err := r.client.Get(ctx, r.key(username)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

func (r *Registry) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, r.key(username)).Err()
}

func (r *Registry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
