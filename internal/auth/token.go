package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token minted for one purpose never verifies for
// another; the purpose acts as the salt the reset flow depends on.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password-recovery"
)

// ResetTokenTTL bounds how long a password-reset link stays usable.
const ResetTokenTTL = time.Hour

// ErrInvalidToken covers expired, tampered, and wrong-purpose tokens alike;
// callers get no more detail than the original link-is-bad message.
var ErrInvalidToken = errors.New("invalid or expired token")

// Tokens mints and verifies HMAC-signed tokens with a shared secret.
type Tokens struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewTokens returns a token codec signing with the given secret. sessionTTL
// bounds session cookie lifetime.
func NewTokens(secret string, sessionTTL time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), sessionTTL: sessionTTL}
}

// SessionTTL returns the configured session lifetime.
func (t *Tokens) SessionTTL() time.Duration {
	return t.sessionTTL
}

// MintSession returns a signed session token for the user id.
func (t *Tokens) MintSession(userID int64) (string, error) {
	return t.mint(strconv.FormatInt(userID, 10), PurposeSession, t.sessionTTL)
}

// VerifySession returns the user id carried by a session token.
func (t *Tokens) VerifySession(token string) (int64, error) {
	subject, err := t.verify(token, PurposeSession)
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// MintPasswordReset returns a time-boxed reset token carrying the user's
// email as payload.
func (t *Tokens) MintPasswordReset(email string) (string, error) {
	return t.mint(email, PurposePasswordReset, ResetTokenTTL)
}

// VerifyPasswordReset returns the email a reset token was minted for.
func (t *Tokens) VerifyPasswordReset(token string) (string, error) {
	return t.verify(token, PurposePasswordReset)
}

func (t *Tokens) mint(subject, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{purpose},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) verify(token, purpose string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(purpose),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
