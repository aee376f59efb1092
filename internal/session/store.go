// Package session holds the gateway's role-scoped sessions. A customer and an
// officer session may coexist; they are two independent named slots, never a
// single "current user", and every remote call must state which slot's
// credential it uses.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
)

// Session is one role slot's credential plus the display claims carried in
// its token.
type Session struct {
	Role        booking.Role `json:"role"`
	Token       string       `json:"token"`
	DisplayName string       `json:"displayName,omitempty"`
	Email       string       `json:"email,omitempty"`
	ExpiresAt   time.Time    `json:"expiresAt,omitempty"`
}

// FromToken builds a Session for the given role slot from a bearer token.
// The token's claims are read without signature verification: the gateway is
// a client, not the token's issuer, and uses the claims only as a capability
// check. A role claim that contradicts the target slot is rejected so the two
// slots cannot be cross-wired.
func FromToken(role booking.Role, token string) (Session, error) {
	if !role.IsValid() {
		return Session{}, fmt.Errorf("unknown role %q", role)
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Session{}, fmt.Errorf("token is required")
	}

	sess := Session{Role: role, Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("parse token claims: %w", err)
	}
	if claimed, ok := claims["role"].(string); ok && claimed != "" {
		if !strings.EqualFold(claimed, string(role)) {
			return Session{}, fmt.Errorf("token role %q does not match session slot %q", claimed, role)
		}
	}
	if name, ok := claims["name"].(string); ok {
		sess.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	} else if sub, ok := claims["sub"].(string); ok && strings.Contains(sub, "@") {
		sess.Email = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}

	return sess, nil
}

// Expired reports whether the session's token has passed its expiry claim.
// Tokens without an expiry claim never expire client-side; the backend still
// rejects them when it sees fit.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store persists the two role slots.
type Store interface {
	// Get returns the session for the role slot, with ok=false when the slot
	// is empty.
	Get(ctx context.Context, role booking.Role) (Session, bool, error)
	// Put fills the session's role slot, replacing any previous credential.
	Put(ctx context.Context, sess Session) error
	// Delete empties the role slot.
	Delete(ctx context.Context, role booking.Role) error
}

// MemoryStore is the in-process Store used when no Redis is configured and in
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[booking.Role]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[booking.Role]Session)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, role booking.Role) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.slots[role]
	return sess, ok, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, sess Session) error {
	if !sess.Role.IsValid() {
		return fmt.Errorf("unknown role %q", sess.Role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[sess.Role] = sess
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, role booking.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, role)
	return nil
}
