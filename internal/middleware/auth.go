package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/model"
	"github.com/ritikk978/next-nest/pkg/jwtutil"
	"github.com/ritikk978/next-nest/pkg/logger"
	"github.com/ritikk978/next-nest/pkg/redisutil"
)

// AuthMiddleware validates the JWT access token and stores the caller's
// identity in the request context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return httperr.Unauthorized("missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return httperr.Unauthorized("invalid authorization format, expected Bearer token")
		}

		tokenString := parts[1]

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			return httperr.Unauthorized("invalid or expired token")
		}

		// Refresh tokens only mint new access tokens, never carry requests
		if claims.Kind != jwtutil.KindAccess {
			log.Warn("Non-access token presented on API request", zap.String("kind", string(claims.Kind)))
			return httperr.Unauthorized("invalid token type")
		}

		if redisutil.IsTokenBlacklisted(c.Request().Context(), tokenString) {
			log.Warn("Revoked token presented", zap.Uint("user_id", claims.UserID))
			return httperr.Unauthorized("token has been revoked")
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Set("token", tokenString)

		return next(c)
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// AuthMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := CallerRole(c)
		if !ok || role != model.RoleAdmin {
			return httperr.Forbidden("admin access required")
		}
		return next(c)
	}
}

// CallerID retrieves the authenticated user's id from the context
func CallerID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

// CallerRole retrieves the authenticated user's role from the context
func CallerRole(c echo.Context) (model.UserRole, bool) {
	role, ok := c.Get("user_role").(model.UserRole)
	return role, ok
}
