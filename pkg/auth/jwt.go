package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired and ErrTokenMalformed let callers surface distinct messages
// while keeping both in the same authentication error class.
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("invalid token")

// JWTHandler manages creation and validation of JSON Web Tokens.
type JWTHandler struct {
	// SecretKey is used to sign tokens.
	SecretKey []byte
	// TTL defines how long generated tokens remain valid.
	TTL time.Duration
}

// Claims represents application specific JWT claims. Only the account id is
// embedded: liveness is re-checked against the identity store per request.
type Claims struct {
	AdminUUID string `json:"admin_uuid"`
	jwt.RegisteredClaims
}

// MakeJWTHandler validates the provided secret and returns a configured handler.
func MakeJWTHandler(secret []byte, ttl time.Duration) (JWTHandler, error) {
	if len(secret) < 16 {
		return JWTHandler{}, errors.New("secret key too short")
	}

	return JWTHandler{SecretKey: secret, TTL: ttl}, nil
}

// Generate creates a signed JWT for the provided account id.
func (j JWTHandler) Generate(adminUUID string) (string, error) {
	claims := Claims{
		AdminUUID: adminUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminUUID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(j.SecretKey)
}

// Validate parses the token string and returns the Claims if valid. Expired
// tokens fail with ErrTokenExpired, everything else with ErrTokenMalformed.
func (j JWTHandler) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return j.SecretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AdminUUID == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
