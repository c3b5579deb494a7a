package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
)

// Principal is the verified identity carried by a bearer token.
type Principal struct {
	Email   string
	IsAdmin bool
}

// Claims is the signed payload. A missing isAdmin decodes as false.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 tokens. The signing key is
// fixed at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a token service signing with secret. A zero ttl
// issues tokens without an exp claim.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for p.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := s.now()
	claims := Claims{
		Email:   p.Email,
		IsAdmin: p.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and registered claims of tokenStr and returns
// the principal it carries. Every failure is an ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Principal{}, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	if token == nil || !token.Valid {
		return Principal{}, apperrors.ErrInvalidToken
	}
	return Principal{Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}
