package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"stagecrew-api/core/config"
	"stagecrew-api/core/constants"
	"stagecrew-api/core/controller"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/utils"
)

type Middleware struct {
	cfg  *config.Config
	base controller.BaseController
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		cfg:  cfg,
		base: controller.NewBaseController(),
	}
}

// AuthMiddleware extracts and verifies the bearer token, placing the claims
// on the request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get("Authorization")
			if header == "" {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseToken(parts[1], m.cfg.JWT.Secret)
			if err != nil {
				return m.base.Unauthorized(errors.ErrUnauthorized, "Invalid or expired token")
			}

			ctx.Set(constants.ContextTokenData, claims)
			return next(ctx)
		}
	}
}
