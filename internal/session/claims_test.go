package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestInspectJWT(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := signed(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "https://login.microsoftonline.com/tenant/v2.0",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, ok := Inspect(token)
	require.True(t, ok)
	assert.Equal(t, "user-1", info.Subject)
	assert.Equal(t, "https://login.microsoftonline.com/tenant/v2.0", info.Issuer)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(exp.Add(-time.Minute)))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestInspectOpaqueToken(t *testing.T) {
	_, ok := Inspect("ya29.a0AfH6SMBopaque")
	assert.False(t, ok)

	_, ok = Inspect("")
	assert.False(t, ok)
}

func TestInspectWithoutExpiry(t *testing.T) {
	info, ok := Inspect(signed(t, jwt.RegisteredClaims{Subject: "s"}))
	require.True(t, ok)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.False(t, info.Expired(time.Now()))
}
