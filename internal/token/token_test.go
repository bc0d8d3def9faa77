package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	m := NewManager("test-secret", 23*time.Hour)

	signed, err := m.Sign("64f0c9e2a1b2c3d4e5f60718")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "64f0c9e2a1b2c3d4e5f60718", claims.ID)

	exp := claims.ExpiresAt.Time
	require.WithinDuration(t, time.Now().Add(23*time.Hour), exp, time.Minute)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	signed, err := m.Sign("user")
	require.NoError(t, err)

	_, err = m.Parse(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a", time.Hour).Sign("user")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	_, err := m.Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
