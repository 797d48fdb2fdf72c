package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"daftar/internal/core/id"
)

// Identity is the authenticated principal carried by an access token.
// Tokens are issued by an external identity provider that shares the
// signing secret with this service.
type Identity struct {
	UserID   string
	TenantID id.ID
	Email    string
	Roles    []string
}

// TokenConfig holds access token validation settings.
type TokenConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultTokenConfig returns token configuration with sane defaults.
func DefaultTokenConfig(secret string) TokenConfig {
	return TokenConfig{
		Secret:         secret,
		Issuer:         "daftar",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// tokenClaims is the JWT claim set used by the platform.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"uid"`
	TenantID string   `json:"tid,omitempty"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// TokenService validates and issues HS256 access tokens.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service.
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{config: config}
}

// GenerateAccessToken issues a token for the given identity.
// Used by tests and local tooling; production tokens come from the IdP.
func (s *TokenService) GenerateAccessToken(identity Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: identity.UserID,
		Email:  identity.Email,
		Roles:  identity.Roles,
	}
	if !id.IsNil(identity.TenantID) {
		claims.TenantID = identity.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken parses and verifies an access token.
func (s *TokenService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	identity := &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}
	if claims.TenantID != "" {
		tid, err := id.Parse(claims.TenantID)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant claim: %w", err)
		}
		identity.TenantID = tid
	}
	return identity, nil
}
