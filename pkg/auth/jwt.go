package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens minted in memory mode.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type JWTService interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	ValidateToken(token string) (*Claims, error)
}

type hmacService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService signs HS256 tokens. A zero expiry issues tokens without exp.
func NewJWTService(secret string, expiry time.Duration) (JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &hmacService{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

func (s *hmacService) GenerateAccessToken(userID, email, role string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  role,
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacService) ValidateToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
