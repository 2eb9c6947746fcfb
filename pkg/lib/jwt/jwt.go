package jwt

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrNoAccessToken = errors.New("no access token")
	ErrNoSecret      = errors.New("WEBHOOK_SECRET is not set")
)

// ServiceClaims identify the caller of a webhook or admin endpoint.
// Tokens are minted for services (the document store trigger, an operator), not end users.
type ServiceClaims struct {
	Service string `json:"service"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	s := os.Getenv("WEBHOOK_SECRET")
	if s == "" {
		return nil, ErrNoSecret
	}
	return []byte(s), nil
}

// GenerateServiceToken signs an HS256 token. A zero expire means no expiry; a
// negative one yields a token that is already expired.
func GenerateServiceToken(service string, isAdmin bool, expire time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &ServiceClaims{
		Service: service,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  service,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if expire != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expire))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func ExtractJWTFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		return "", ErrNoAccessToken
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrInvalidToken
	}

	return authHeader[7:], nil
}

func ValidateJWT(tokenStr string) (*ServiceClaims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*ServiceClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
