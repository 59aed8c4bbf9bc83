package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// SessionCookie is the cookie carrying the opaque session id.
const SessionCookie = "session_id"

const principalKey = "principal"

// Auth resolves the caller's identity from either the session cookie or
// a Bearer token, and injects the principal into context. Browser
// clients carry the cookie; API clients carry the JWT issued at login.
func Auth(sessions ports.SessionStore, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				p, err := sessions.Get(c.Request().Context(), cookie.Value)
				if err == nil {
					c.Set(principalKey, p)
					c.Set("session_id", cookie.Value)
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, ok := claims["user_id"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
			}
			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)
			fullName, _ := claims["full_name"].(string)

			c.Set(principalKey, &domain.Principal{
				UserID:   int64(userID),
				Email:    email,
				Role:     domain.Role(role),
				FullName: fullName,
			})
			return next(c)
		}
	}
}

// Principal extracts the identity injected by Auth. The second return is
// false when the middleware did not run.
func Principal(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok
}
