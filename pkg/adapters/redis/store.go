// Package redis provides a Redis-backed context store and distributed locker
// for deployments where multiple replicas share session state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ContextStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for stored contexts. Expiry doubles as a
// storage-level reclamation of stale awaiting sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for contexts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store from connection parameters.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "aurin:session:",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying connection so callers can share it with the
// distributed locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save serializes the context as JSON. Hooks and predicate closures live on
// definitions, not contexts, so the round trip is lossless apart from slot
// values of type time.Time, which come back as RFC 3339 strings.
func (s *Store) Save(ctx context.Context, sessionID string, pctx *domain.ProcessContext) error {
	payload, err := json.Marshal(pctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return nil
}

// Load retrieves and deserializes the context.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.ProcessContext, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == backend.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load failed: %w", err)
	}

	var pctx domain.ProcessContext
	if err := json.Unmarshal(payload, &pctx); err != nil {
		return nil, fmt.Errorf("failed to deserialize context: %w", err)
	}
	return &pctx, nil
}

// Delete removes the context.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// List scans for stored sessions under the configured prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var sessions []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		sessions = append(sessions, iter.Val()[len(s.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return sessions, nil
}
