package middleware

import (
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext is middleware that extracts user info for audit logging.
// Mount it after RequireAuth.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyAuditContext, buildAuditContext(c))
			return next(c)
		}
	}
}

func buildAuditContext(c echo.Context) services.AuditContext {
	ctx := services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user := GetCurrentUser(c); user != nil {
		ctx.UserID = user.ID
		ctx.UserName = user.Name
		ctx.UserRole = user.Role
	}
	return ctx
}

// GetAuditContext retrieves the audit context from the request. Requests that
// skipped the middleware get one built on the spot.
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	if c.Request() == nil {
		return services.AuditContext{}
	}
	return buildAuditContext(c)
}
