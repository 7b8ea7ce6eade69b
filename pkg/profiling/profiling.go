// Package profiling exposes Go pprof endpoints on an echo router.
package profiling

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// RoutePrefix is where the pprof endpoints are mounted.
const RoutePrefix = "/debug/pprof"

var namedProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// RegisterPprofRoutes adds pprof endpoints under RoutePrefix. Callers pass
// the middleware that guards them.
func RegisterPprofRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	g := e.Group(RoutePrefix, guard...)
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range namedProfiles {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}
