package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var (
	TokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
)

func InitJWT(secret []byte, ttl time.Duration) {
	TokenAuth = jwtauth.New("HS256", secret, nil)
	tokenTTL = ttl
}

// GenerateToken signs a token bound to one session record. Logging out deletes
// the session, which invalidates the token before it expires.
func GenerateToken(userID, role, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"role":       role,
		"session_id": sessionID,
		"exp":        now.Add(tokenTTL).Unix(),
		"iat":        now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	return stringClaim(claims, "user_id")
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	return stringClaim(claims, "role")
}

func GetSessionIDFromClaims(claims jwt.MapClaims) (string, error) {
	return stringClaim(claims, "session_id")
}

func stringClaim(claims jwt.MapClaims, name string) (string, error) {
	v, ok := claims[name].(string)
	if !ok || v == "" {
		return "", errors.New(name + " claim is missing or not a string")
	}
	return v, nil
}
