package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

const defaultTokenTTL = 10 * time.Hour

// TokenService issues and verifies HS256-signed bearer tokens. Issuance and
// verification share one symmetric secret, injected at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue builds a token whose subject is username, issued now and expiring
// after the configured TTL.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ExtractSubject decodes and signature-verifies the token and returns its
// subject. Malformed, forged, and expired tokens all yield
// domain.ErrInvalidToken; nothing here panics on hostile input.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

// Verify reports whether the token is authentic, unexpired, and bound to
// expectedUsername. All three must hold.
func (s *TokenService) Verify(token, expectedUsername string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedUsername {
		return false
	}
	return claims.ExpiresAt != nil && s.now().Before(claims.ExpiresAt.Time)
}

func (s *TokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
