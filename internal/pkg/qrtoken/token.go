// Package qrtoken implements the short-lived signed token that gets rendered
// as a QR code for an attendance session. The token is self-describing: it
// carries the session id, course code and owning lecturer so the recorder can
// verify it without a lookup, but the session's live state in storage stays
// authoritative and is always re-checked after verification.
package qrtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("invalid attendance token")
	ErrExpired = errors.New("attendance token expired")
)

// Claims is the attendance token payload.
type Claims struct {
	SessionID  string `json:"sessionId"`
	LecturerID int64  `json:"lecturerId"`
	CourseCode string `json:"courseCode"`
	jwt.RegisteredClaims
}

// Signer signs and verifies attendance tokens. The secret must differ from
// the identity credential secret so a leaked token cannot forge logins.
type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSigner creates a Signer with the given secret and token lifetime.
func NewSigner(secret string, ttl time.Duration, issuer string) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
	}
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign creates a token bound to the given session. The returned expiry equals
// the session window's end time.
func (s *Signer) Sign(sessionID string, lecturerID int64, courseCode string) (token string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(s.ttl)

	claims := &Claims{
		SessionID:  sessionID,
		LecturerID: lecturerID,
		CourseCode: courseCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   sessionID,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign attendance token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims. A valid token is
// not sufficient to record attendance; callers must still check the session's
// stored state.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}
