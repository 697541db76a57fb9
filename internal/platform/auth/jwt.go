package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"larry/internal/platform/config"
)

// Scopes granted to API clients.
const (
	ScopeCodesRead  = "codes:read"
	ScopeCodesWrite = "codes:write"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ClientID string   `json:"cid"`
	Scopes   []string `json:"scp"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type TokenService struct {
	config config.JWTConfig
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	if cfg.Issuer == "" {
		cfg.Issuer = "larry"
	}
	return &TokenService{config: cfg, now: time.Now}
}

// TTL is the lifetime of issued access tokens.
func (s *TokenService) TTL() time.Duration {
	return s.config.AccessTokenTTL
}

func (s *TokenService) GenerateAccessToken(clientID string, scopes []string) (string, error) {
	if s.config.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.now()
	claims := Claims{
		ClientID: clientID,
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
