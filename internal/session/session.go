// Package session persists the bearer token the dashboard authenticates with.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the credential pair returned by a successful login.
type Session struct {
	AccessToken string `yaml:"access_token"`
	TokenType   string `yaml:"token_type"`
}

func (s Session) Valid() bool { return s.AccessToken != "" }

// AuthorizationHeader formats the value sent as "Authorization: <type> <token>".
func (s Session) AuthorizationHeader() string {
	return s.TokenType + " " + s.AccessToken
}

// ExpiresAt reads the exp claim when the token is a JWT. The signature is not
// checked and the result is informational only: the backend decides whether a
// token is still good.
func (s Session) ExpiresAt() (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Store loads, saves and clears the current session.
type Store interface {
	Load() (Session, bool, error)
	Save(Session) error
	Clear() error
}
