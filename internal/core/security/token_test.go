package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/id"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(DefaultTokenConfig("test-secret"))
	tenantID := id.New()

	token, expiresAt, err := svc.GenerateAccessToken(Identity{
		UserID:   "user-1",
		TenantID: tenantID,
		Email:    "user@example.com",
		Roles:    []string{"accountant", "viewer"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	identity, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, tenantID, identity.TenantID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, []string{"accountant", "viewer"}, identity.Roles)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService(DefaultTokenConfig("secret-a"))
	verifier := NewTokenService(DefaultTokenConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(Identity{UserID: "user-1", TenantID: id.New()})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	cfg := DefaultTokenConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewTokenService(cfg)

	token, _, err := svc.GenerateAccessToken(Identity{UserID: "user-1", TenantID: id.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_NoTenantClaim(t *testing.T) {
	svc := NewTokenService(DefaultTokenConfig("test-secret"))

	token, _, err := svc.GenerateAccessToken(Identity{UserID: "admin-1", Roles: []string{"admin"}})
	require.NoError(t, err)

	identity, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, id.IsNil(identity.TenantID))
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService(DefaultTokenConfig("test-secret"))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
