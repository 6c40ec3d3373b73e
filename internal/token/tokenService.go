package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers both forged and expired tokens. Callers get a
// single unauthorized outcome either way.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by both token classes: subject = user id, plus email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ParseAccessToken(raw string) (*Claims, error)
	ParseRefreshToken(raw string) (*Claims, error)
}

// JWTService signs access tokens with the primary secret and refresh
// tokens with a distinct secret.
type JWTService struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *JWTService) GenerateAccessToken(userID, email string) (string, error) {
	return s.sign(userID, email, s.AccessSecret, s.AccessTTL)
}

func (s *JWTService) GenerateRefreshToken(userID, email string) (string, error) {
	return s.sign(userID, email, s.RefreshSecret, s.RefreshTTL)
}

func (s *JWTService) ParseAccessToken(raw string) (*Claims, error) {
	return parse(raw, s.AccessSecret)
}

func (s *JWTService) ParseRefreshToken(raw string) (*Claims, error) {
	return parse(raw, s.RefreshSecret)
}

func (s *JWTService) sign(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every signed token unique even when two are
			// issued for the same subject within the same second.
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parse(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
