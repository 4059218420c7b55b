// Package auth issues and validates the signed tokens that guard
// human-review links.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrTicketMismatch reports a valid token presented against the wrong ticket.
var ErrTicketMismatch = errors.New("token does not match ticket")

// ReviewTokenManager handles issuing and validating review-link JWT tokens.
type ReviewTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewReviewTokenManager builds a new manager.
func NewReviewTokenManager(secret string, ttlMinutes int) *ReviewTokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &ReviewTokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// ReviewClaims describes the review token payload.
type ReviewClaims struct {
	TicketID string `json:"ticket_id"`
	jwt.RegisteredClaims
}

// Sign builds a signed review token scoped to one ticket.
func (tm *ReviewTokenManager) Sign(ticketID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &ReviewClaims{
		TicketID: ticketID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ticketID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the token and checks it was issued for the given ticket.
func (tm *ReviewTokenManager) Verify(tokenStr, ticketID string) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, &ReviewClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := parsed.Claims.(*ReviewClaims)
	if !ok || !parsed.Valid {
		return errors.New("invalid token claims")
	}
	if claims.TicketID != ticketID {
		return ErrTicketMismatch
	}
	return nil
}
