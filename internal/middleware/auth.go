package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/jwtutil"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Auth validates the Bearer token and stores the actor's identity and
// role in the request context.
func Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, err := claimsFromHeader(c)
		if err != nil {
			log.Warn("Rejected unauthenticated request", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		setActor(c, claims)
		return next(c)
	}
}

// OptionalAuth stores the actor when a valid Bearer token is present but
// lets anonymous requests through. Used on world-readable catalog routes
// where an authenticated actor only changes logging.
func OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return next(c)
		}
		claims, err := claimsFromHeader(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		setActor(c, claims)
		return next(c)
	}
}

func claimsFromHeader(c echo.Context) (*jwtutil.UserClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization token")
	}

	// Check if it's a Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization format, expected Bearer token")
	}

	claims, err := jwtutil.ValidateToken(parts[1], jwtutil.TokenTypeAccess)
	if err != nil {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func setActor(c echo.Context, claims *jwtutil.UserClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}
