package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// ContextKeySession is the echo context key holding the *service.Session.
const ContextKeySession = "session"

// SessionLookup resolves a live session by handle id.
type SessionLookup interface {
	Get(id string) (*service.Session, error)
}

// HandleChecker reports whether the auth provider still honours a handle.
type HandleChecker interface {
	Exists(ctx context.Context, handleID string) (bool, error)
}

// AuthConfig configures the Auth middleware. With Optional set, requests
// without a usable session pass through with no session in context.
type AuthConfig struct {
	Secret   string
	Sessions SessionLookup
	Handles  HandleChecker
	Optional bool
}

// Auth validates the session bearer token and injects the session into context.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := resolveSession(c, cfg)
			if err != nil {
				if cfg.Optional {
					return next(c)
				}
				return err
			}
			c.Set(ContextKeySession, sess)
			return next(c)
		}
	}
}

func resolveSession(c echo.Context, cfg AuthConfig) (*service.Session, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	sid, err := ParseSessionToken(cfg.Secret, parts[1])
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	sess, err := cfg.Sessions.Get(sid)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}

	if cfg.Handles != nil && !sess.Handle().Offline {
		live, err := cfg.Handles.Exists(c.Request().Context(), sid)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
		}
		if !live {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
		}
	}
	return sess, nil
}

// ParseSessionToken verifies an HS256 session token and returns its sid.
func ParseSessionToken(secret, raw string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if typ, _ := claims["typ"].(string); typ != "session" {
		return "", jwt.ErrTokenInvalidClaims
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

// SessionFrom returns the session injected by Auth, if any.
func SessionFrom(c echo.Context) (*service.Session, bool) {
	sess, ok := c.Get(ContextKeySession).(*service.Session)
	return sess, ok && sess != nil
}
