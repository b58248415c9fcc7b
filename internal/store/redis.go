package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/platewise/souschef/config"
	"github.com/platewise/souschef/internal/service"
	"github.com/platewise/souschef/internal/types"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "cooking:session:"
	sessionTTL       = 24 * time.Hour

	// Concurrent writers on the same session are rare, but a burst of them
	// must still converge, so the optimistic retry budget is generous.
	updateRetries = 16
)

// RedisSessionStore keeps cooking sessions in Redis so multiple API
// instances can share them. Sessions expire after 24 hours of inactivity;
// every write refreshes the TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisClient connects to Redis using cfg and verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// A Redis URL takes precedence when provided (production deployments).
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("Successfully connected to Redis at %s", opts.Addr)
	return client, nil
}

// NewRedisSessionStore creates a session store on top of client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create allocates a new session for prefs.
func (s *RedisSessionStore) Create(ctx context.Context, prefs types.Preferences) (*types.CookingSession, error) {
	for attempt := 0; attempt < updateRetries; attempt++ {
		sess := &types.CookingSession{
			ID:          newSessionID(),
			Preferences: prefs,
			CreatedAt:   time.Now().UTC(),
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session: %w", err)
		}

		ok, err := s.client.SetNX(ctx, sessionKey(sess.ID), data, sessionTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
		if ok {
			return sess, nil
		}
		// ID collision; generate another.
	}
	return nil, fmt.Errorf("failed to allocate a unique session id")
}

// Get loads the session for id.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*types.CookingSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess types.CookingSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Update applies mutate to the session inside a WATCH transaction, so a
// concurrent writer forces a clean retry instead of a lost update. Errors
// from mutate abort without writing and are returned verbatim.
func (s *RedisSessionStore) Update(ctx context.Context, id string, mutate func(*types.CookingSession) error) (*types.CookingSession, error) {
	key := sessionKey(id)
	var updated *types.CookingSession

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return service.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		var sess types.CookingSession
		if err := json.Unmarshal(data, &sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		if err := mutate(&sess); err != nil {
			return err
		}

		next, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, sessionTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &sess
		return nil
	}

	for attempt := 0; attempt < updateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("session %s update aborted after %d retries", id, updateRetries)
}

// Delete removes the session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return service.ErrSessionNotFound
	}
	return nil
}
