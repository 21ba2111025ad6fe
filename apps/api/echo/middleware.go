package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core/user"
)

// adminMiddleware only allows access to Admin users.
func adminMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin)
}

// rolesMiddleware only allows access to users bearing any of the given roles.
func rolesMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if claims, err := getContextClaims(ctx); err == nil {
				for _, role := range roles {
					if claims.Role == role {
						return next(ctx)
					}
				}
			}
			return errHttpForbidden
		}
	}
}
