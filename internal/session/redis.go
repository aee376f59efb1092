package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
)

// RedisStore keeps the role slots in Redis so sessions survive gateway
// restarts. Keys are per-role, mirroring the two independent slots.
type RedisStore struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore against the given address. Sessions are
// kept for ttl; zero means no expiry beyond the token's own.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		c:   redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func sessionKey(role booking.Role) string {
	return "session:" + strings.ToLower(string(role))
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, role booking.Role) (Session, bool, error) {
	raw, err := r.c.Get(ctx, sessionKey(role)).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

// Put implements Store.
func (r *RedisStore) Put(ctx context.Context, sess Session) error {
	if !sess.Role.IsValid() {
		return fmt.Errorf("unknown role %q", sess.Role)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.c.Set(ctx, sessionKey(sess.Role), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, role booking.Role) error {
	if err := r.c.Del(ctx, sessionKey(role)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.c.Close()
}
