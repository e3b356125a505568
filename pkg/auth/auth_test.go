package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestJWTValidator_RoundTrip(t *testing.T) {
	gen := NewGenerator(secret, "issuer", []string{"client"}, time.Hour)
	token, err := gen.GenerateToken(Caller{Username: "alice", Email: "alice@example.com", Roles: []string{"Admin"}})
	require.NoError(t, err)

	v, err := NewJWTValidator(Config{SigningMethod: "HS256", SecretKey: secret, Issuer: "issuer", Audience: []string{"client"}})
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)

	caller := claims.Caller()
	assert.Equal(t, "alice", caller.Username)
	assert.Equal(t, "alice@example.com", caller.Email)
	assert.True(t, caller.HasRole("Editor", "Admin"))
}

func TestJWTValidator_Rejects(t *testing.T) {
	v, err := NewJWTValidator(Config{SigningMethod: "HS256", SecretKey: secret, Issuer: "issuer"})
	require.NoError(t, err)

	_, err = v.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	expired, _ := NewGenerator(secret, "issuer", nil, -time.Hour).GenerateToken(Caller{Username: "a"})
	_, err = v.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	wrongKey, _ := NewGenerator("other", "issuer", nil, time.Hour).GenerateToken(Caller{Username: "a"})
	_, err = v.ValidateToken(wrongKey)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongIssuer, _ := NewGenerator(secret, "elsewhere", nil, time.Hour).GenerateToken(Caller{Username: "a"})
	_, err = v.ValidateToken(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestNewJWTValidator_Config(t *testing.T) {
	_, err := NewJWTValidator(Config{SigningMethod: "HS256"})
	assert.Error(t, err)
	_, err = NewJWTValidator(Config{SigningMethod: "RS256", PublicKey: "not pem"})
	assert.Error(t, err)
	_, err = NewJWTValidator(Config{SigningMethod: "none"})
	assert.Error(t, err)
}

func TestCallerFromClaims(t *testing.T) {
	caller, ok := CallerFromClaims(map[string]string{
		"sub":              "uuid-1",
		"cognito:username": "bob",
		"email":            "bob@example.com",
		"cognito:groups":   "[Editor Publisher]",
	})
	require.True(t, ok)
	assert.Equal(t, "bob", caller.Username)
	assert.Equal(t, []string{"Editor", "Publisher"}, caller.Roles)

	caller, ok = CallerFromClaims(map[string]string{"sub": "uuid-2", "custom:roles": `["Admin"]`})
	require.True(t, ok)
	assert.Equal(t, "uuid-2", caller.Username)
	assert.Equal(t, []string{"Admin"}, caller.Roles)

	_, ok = CallerFromClaims(map[string]string{"email": "x@example.com"})
	assert.False(t, ok)
}

func TestCallerContext(t *testing.T) {
	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	ctx := WithCaller(context.Background(), &Caller{Username: "alice"})
	caller, ok := CallerFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", caller.Username)
}
