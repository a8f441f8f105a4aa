package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var ErrInvalidToken error = errors.New("invalid token")

// Claims carried by an access token.
//
// The subject is the actor name recorded into activity logs.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// NewToken signs a HS256 token for an actor.
//
// # Args
//
// - secret: shared signing secret
//
// - actor: actor name, set as the subject
//
// - roles: role names granted to the actor
//
// - ttl: time to live of the token
//
// # Returns
//
// - string: JWT token string
//
// - error: from [jwt.Token.SignedString]
func NewToken(secret []byte, actor string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return tok.SignedString(secret)
}

// Verify parses a token string and returns its claims.
//
// # Returns
//
// - *Claims: claims in the token
//
// - error: [ErrInvalidToken] when the token is malformed, forged or expired,
// or any other errors from [jwt.ParseWithClaims]
func Verify(secret []byte, token string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(
		token, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("%w: unexpected alg: %s", ErrInvalidToken, t.Method.Alg())
			}
			return secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrInvalidToken, err)
		}
		return nil, err
	}
	if c, ok := tok.Claims.(*Claims); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: unexpected claims type: %T", ErrInvalidToken, tok.Claims)
}

const claimsContextKey = "github.com/openadmit/openadmit/pkg/auth/claims"

// Middleware authenticates requests by "Authorization: Bearer TOKEN" header.
//
// Verified claims are stored into the echo context, to be read back
// with [Actor] and [Roles].
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return echo.NewHTTPError(401, "bearer token is required")
			}

			claims, err := Verify(secret, token)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return echo.NewHTTPError(401, "invalid token")
				}
				return err
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// Actor returns the authenticated actor name, or "" if not authenticated.
func Actor(c echo.Context) string {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	if !ok {
		return ""
	}
	return claims.Subject
}

// Roles returns the authenticated actor's roles.
func Roles(c echo.Context) []string {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims.Roles
}
