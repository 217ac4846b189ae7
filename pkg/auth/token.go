package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// Claims は発行するトークンのペイロード
type Claims struct {
	DNI  string `json:"dni"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SecretBytes pads short secrets to the HS256 minimum used in development.
func SecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// IssueToken signs an HS256 token for the actor that expires after ttl.
func IssueToken(a Actor, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		DNI:  a.DNI,
		Role: string(a.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken checks signature and expiry and returns the actor.
func VerifyToken(tokenString string, secret []byte) (Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Actor{}, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	role, ok := ParseRole(claims.Role)
	if !ok {
		return Actor{}, errors.New("invalid role")
	}
	return Actor{ID: id, DNI: claims.DNI, Role: role}, nil
}
