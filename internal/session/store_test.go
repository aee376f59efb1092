package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken_ReadsClaims(t *testing.T) {
	exp := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "asha@example.com",
		"name":  "Asha Rao",
		"email": "asha@example.com",
		"role":  "CUSTOMER",
		"exp":   exp.Unix(),
	})

	sess, err := FromToken(booking.RoleCustomer, token)

	require.NoError(t, err)
	assert.Equal(t, booking.RoleCustomer, sess.Role)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "Asha Rao", sess.DisplayName)
	assert.Equal(t, "asha@example.com", sess.Email)
	assert.True(t, sess.ExpiresAt.Equal(exp))
}

func TestFromToken_StripsBearerPrefix(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "x"})

	sess, err := FromToken(booking.RoleCustomer, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
}

func TestFromToken_EmailFallsBackToSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "asha@example.com"})

	sess, err := FromToken(booking.RoleCustomer, token)

	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", sess.Email)
}

func TestFromToken_RejectsRoleMismatch(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"role": "OFFICER"})

	_, err := FromToken(booking.RoleCustomer, token)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestFromToken_RoleClaimIsCaseInsensitive(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"role": "officer"})

	sess, err := FromToken(booking.RoleOfficer, token)

	require.NoError(t, err)
	assert.Equal(t, booking.RoleOfficer, sess.Role)
}

func TestFromToken_RejectsGarbage(t *testing.T) {
	_, err := FromToken(booking.RoleCustomer, "not-a-jwt")
	assert.Error(t, err)

	_, err = FromToken(booking.RoleCustomer, "")
	assert.Error(t, err)

	_, err = FromToken(booking.Role("ADMIN"), signedToken(t, jwt.MapClaims{}))
	assert.Error(t, err)
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

	assert.False(t, Session{ExpiresAt: now.Add(time.Hour)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Hour)}.Expired(now))
	assert.False(t, Session{}.Expired(now), "no expiry claim means no client-side expiry")
}

func TestMemoryStore_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, Session{Role: booking.RoleCustomer, Token: "cust-tok"}))
	require.NoError(t, store.Put(ctx, Session{Role: booking.RoleOfficer, Token: "off-tok"}))

	cust, ok, err := store.Get(ctx, booking.RoleCustomer)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cust-tok", cust.Token)

	require.NoError(t, store.Delete(ctx, booking.RoleCustomer))

	_, ok, err = store.Get(ctx, booking.RoleCustomer)
	require.NoError(t, err)
	assert.False(t, ok)

	off, ok, err := store.Get(ctx, booking.RoleOfficer)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "off-tok", off.Token, "deleting one slot must not touch the other")
}

func TestMemoryStore_PutRejectsUnknownRole(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.Put(context.Background(), Session{Role: "ADMIN"}))
}
