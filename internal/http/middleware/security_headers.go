package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// The API only serves JSON, so nothing may be loaded or framed.
	contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	hstsValue             = "max-age=31536000; includeSubDomains"
	permissionsPolicy     = "geolocation=(), microphone=(), camera=(), payment=(), usb=()"
)

// SecurityHeaders adds security headers to all responses. HSTS is sent only
// when the service is deployed behind TLS.
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			h.Set(echo.HeaderXContentTypeOptions, "nosniff")
			h.Set(echo.HeaderXFrameOptions, "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", permissionsPolicy)
			h.Set("Cache-Control", "no-store")
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
