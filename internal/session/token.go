package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a bearer token is unusable at the given
// instant. A token that cannot be decoded counts as expired; a decodable
// token without an expiry claim never expires client-side. The signature
// is not verified here, only the embedded expiry is read; the backend
// remains the authority on token validity.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
