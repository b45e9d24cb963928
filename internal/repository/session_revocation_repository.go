package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "session:revoked:"

// SessionRevocationRepository keeps a Redis denylist of logged out session identifiers.
// Entries expire together with the credential they revoke.
type SessionRevocationRepository struct {
	client *redis.Client
}

// NewSessionRevocationRepository constructs the repository. A nil client disables revocation.
func NewSessionRevocationRepository(client *redis.Client) *SessionRevocationRepository {
	return &SessionRevocationRepository{client: client}
}

// Revoke denylists the session id for ttl.
func (r *SessionRevocationRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if r.client == nil || sessionID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedSessionPrefix+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke session %s: %w", sessionID, err)
	}
	return nil
}

// IsRevoked reports whether the session id has been denylisted.
func (r *SessionRevocationRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if r.client == nil || sessionID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedSessionPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("redis check session %s: %w", sessionID, err)
	}
	return n > 0, nil
}

// Close releases the underlying Redis connection if present.
func (r *SessionRevocationRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
