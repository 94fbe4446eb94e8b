package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped on every access token.
const Issuer = "inkline"

var errUnsupportedAlg = errors.New("unsupported JWT algorithm")

// Claims identify the signed-in user. Subject holds the user id hex.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 access token for userID valid for ttl from now.
func SignToken(secret []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) issueToken(user *User) (string, error) {
	if !strings.EqualFold(s.config.JWTAlgorithm, "HS256") {
		return "", errUnsupportedAlg
	}
	ttl := time.Duration(s.config.JWTExpiryMinutes) * time.Minute
	return SignToken([]byte(s.config.JWTSecret), user.ID.Hex(), user.Email, s.now(), ttl)
}
