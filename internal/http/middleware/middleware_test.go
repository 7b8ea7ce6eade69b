package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"card-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, mw echo.MiddlewareFunc, prepare func(*http.Request), h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(mw)
	e.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var fromEcho, fromCtx string
	rec := serve(t, RequestID(), nil, func(c echo.Context) error {
		fromEcho = GetRequestID(c)
		fromCtx = logger.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	header := rec.Header().Get(RequestIDHeader)
	assert.Len(t, header, 36)
	assert.Equal(t, header, fromEcho)
	assert.Equal(t, header, fromCtx)
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	rec := serve(t, RequestID(), func(r *http.Request) {
		r.Header.Set(RequestIDHeader, "client-req-1")
	}, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, "client-req-1", rec.Header().Get(RequestIDHeader))
}

func TestRequestID_ReplacesUnsafeValue(t *testing.T) {
	for _, bad := range []string{strings.Repeat("a", 65), "has space", "tab\tvalue"} {
		rec := serve(t, RequestID(), func(r *http.Request) {
			r.Header.Set(RequestIDHeader, bad)
		}, func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		assert.NotEqual(t, bad, rec.Header().Get(RequestIDHeader))
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	}
}

func TestSecurityHeaders(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	rec := serve(t, SecurityHeaders(false), nil, ok)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, contentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = serve(t, SecurityHeaders(true), nil, ok)
	assert.Equal(t, hstsValue, rec.Header().Get("Strict-Transport-Security"))
}
