package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures the API distinguishes: an expired token and a
// malformed or badly signed one produce different user-facing messages.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenManager signs and verifies the two JWT kinds the service uses:
// session tokens (subject = user ID) and password-reset tokens
// (subject = email). Both are HS256 with a shared process secret.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{secret: secret}
}

// IssueSessionToken returns a signed token carrying the user ID.
func (m *TokenManager) IssueSessionToken(userID string, ttl time.Duration) (string, error) {
	return m.issue(userID, ttl)
}

// IssueResetToken returns a signed token carrying the email, not a user ID,
// so verifying it never requires the account to still resolve by ID.
func (m *TokenManager) IssueResetToken(email string, ttl time.Duration) (string, error) {
	return m.issue(email, ttl)
}

func (m *TokenManager) issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the token's subject.
// Fails with ErrTokenExpired or ErrTokenInvalid, nothing else.
func (m *TokenManager) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
