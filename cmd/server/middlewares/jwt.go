package middlewares

import (
	"errors"

	"inkline/cmd/server/handlers/httperr"
	"inkline/internal/config"
	"inkline/internal/logger"
	"inkline/internal/services/auth"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT verifies the bearer token and exposes its subject and email as the
// "userID" and "userEmail" locals. Any failure is reported as 401.
func JWT(cfg config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		Claims:     &auth.Claims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return httperr.Fail(httperr.ErrInvalidToken)
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Subject == "" || claims.Email == "" {
				return httperr.Fail(httperr.ErrInvalidToken)
			}
			if claims.Issuer != auth.Issuer {
				return httperr.Fail(httperr.ErrInvalidToken)
			}

			c.Locals("userID", claims.Subject)
			c.Locals("userEmail", claims.Email)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.L().Debug("rejected bearer token", "path", c.Path(), "error", err)
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return httperr.Fail(httperr.ErrUnauthorized)
			}
			return httperr.Fail(httperr.ErrInvalidToken)
		},
	})
}
