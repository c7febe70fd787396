package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/auth"
)

// Context keys under which the authenticated identity is stored. Handlers
// read these via c.Get after JWTAuth has run.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that requires a bearer token on every
// request it wraps. The Authorization header is expected as
// "<scheme> <token>"; the token is the second whitespace-separated segment.
// A missing token yields 401 "Access denied. No token provided.", a failed
// verification 401 "Invalid token.". On success the decoded customer id and
// role are stored in the request context for downstream middleware and
// handlers.
func JWTAuth(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parts := strings.Fields(c.Request().Header.Get("Authorization"))
			if len(parts) < 2 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
			}
			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token."})
			}
			c.Set(CtxUserID, claims.CustomerID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// Identity returns the customer id and role stored by JWTAuth. ok is false
// when the middleware has not run on this request.
func Identity(c echo.Context) (id uint64, role string, ok bool) {
	id, okID := c.Get(CtxUserID).(uint64)
	role, okRole := c.Get(CtxRole).(string)
	return id, role, okID && okRole
}
