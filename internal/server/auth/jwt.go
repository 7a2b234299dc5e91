// Package auth issues and verifies signed tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: standard registered claims plus either an
// account id (confirm and reset links) or an email (sessions).
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"_id,omitempty"`
	Email     string `json:"email,omitempty"`
}

// TokenService signs tokens with HS256 using a shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secretKey []byte) *TokenService {
	return &TokenService{secret: secretKey, now: time.Now}
}

// Issue signs claims with an expiry of ttl from now.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expired tokens yield common.ErrTokenExpired, everything else
// common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IssueForID is shorthand for a token carrying an account id.
func (s *TokenService) IssueForID(id string, ttl time.Duration) (string, error) {
	return s.Issue(Claims{AccountID: id}, ttl)
}

// IssueForEmail is shorthand for a token carrying an email.
func (s *TokenService) IssueForEmail(email string, ttl time.Duration) (string, error) {
	return s.Issue(Claims{Email: email}, ttl)
}
