// file: internals/helpers/auth/identity.go
package helper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
)

// Identity adalah hasil verifikasi bearer dari identity provider.
type Identity struct {
	UID   string
	Email string
	Name  string
	// ExpiresAt dari klaim exp; zero kalau token tidak membawanya.
	ExpiresAt time.Time
}

// Verifier memvalidasi bearer credential. LearnX tidak pernah menerbitkan
// credential sendiri di jalur produksi.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var ErrInvalidCredential = errors.New("invalid credential")

/* ========== Google ID token ========== */

type GoogleVerifier struct {
	ClientIDs []string
}

func NewGoogleVerifier(clientIDs ...string) *GoogleVerifier {
	out := make([]string, 0, len(clientIDs))
	for _, id := range clientIDs {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return &GoogleVerifier{ClientIDs: out}
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(g.ClientIDs) == 0 {
		return nil, fmt.Errorf("google verifier: no client id configured")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(token, g.ClientIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if strings.TrimSpace(claimSet.Sub) == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidCredential)
	}
	return &Identity{
		UID:       claimSet.Sub,
		Email:     claimSet.Email,
		Name:      claimSet.Name,
		ExpiresAt: time.Unix(claimSet.Exp, 0),
	}, nil
}

/* ========== HS256 (dev / test) ========== */

type HS256Verifier struct {
	Secret []byte
}

func NewHS256Verifier(secret string) *HS256Verifier {
	return &HS256Verifier{Secret: []byte(secret)}
}

func (h *HS256Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(h.Secret) == 0 {
		return nil, fmt.Errorf("hs256 verifier: empty secret")
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	uid := claimString(claims, "uid")
	if uid == "" {
		uid = claimString(claims, "sub")
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrInvalidCredential)
	}
	return &Identity{
		UID:       uid,
		Email:     claimString(claims, "email"),
		Name:      claimString(claims, "name"),
		ExpiresAt: claimTime(claims, "exp"),
	}, nil
}

// SignHS256 menerbitkan token yang diterima HS256Verifier (dev, seed, test).
func SignHS256(secret string, id Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := jwt.MapClaims{
		"sub":   id.UID,
		"email": id.Email,
		"name":  id.Name,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func claimTime(claims jwt.MapClaims, key string) time.Time {
	switch v := claims[key].(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case int64:
		return time.Unix(v, 0)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Unix(n, 0)
		}
	}
	return time.Time{}
}

// NewVerifier memilih implementasi berdasarkan IDENTITY_PROVIDER.
func NewVerifier(provider, googleClientID, jwtSecret string) (Verifier, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "google":
		return NewGoogleVerifier(strings.Split(googleClientID, ",")...), nil
	case "hs256":
		if strings.TrimSpace(jwtSecret) == "" {
			return nil, fmt.Errorf("IDENTITY_PROVIDER=hs256 requires JWT_SECRET")
		}
		return NewHS256Verifier(jwtSecret), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", provider)
	}
}
