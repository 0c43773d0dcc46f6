package helper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHS256VerifierRoundTrip(t *testing.T) {
	tok, err := SignHS256("s3cret", Identity{UID: "uid-teacher", Email: "t@example.com", Name: "Teacher T"}, time.Minute)
	require.NoError(t, err)

	id, err := NewHS256Verifier("s3cret").Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-teacher", id.UID)
	assert.Equal(t, "t@example.com", id.Email)
	assert.Equal(t, "Teacher T", id.Name)
	assert.WithinDuration(t, time.Now().Add(time.Minute), id.ExpiresAt, 5*time.Second)
}

func TestHS256VerifierRejects(t *testing.T) {
	good, err := SignHS256("s3cret", Identity{UID: "u1"}, time.Minute)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredTok, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	noSubTok, err := noSub.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", good},
		{"garbage", "s3cret", "not-a-jwt"},
		{"expired", "s3cret", expiredTok},
		{"missing uid", "s3cret", noSubTok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHS256Verifier(tt.secret).Verify(context.Background(), tt.token)
			assert.True(t, errors.Is(err, ErrInvalidCredential), "got %v", err)
		})
	}
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier("google", "a.apps.googleusercontent.com, b.apps.googleusercontent.com", "")
	require.NoError(t, err)
	g, ok := v.(*GoogleVerifier)
	require.True(t, ok)
	assert.Len(t, g.ClientIDs, 2)

	_, err = NewVerifier("hs256", "", "")
	assert.Error(t, err)

	_, err = NewVerifier("saml", "", "")
	assert.Error(t, err)
}
