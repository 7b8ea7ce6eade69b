package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "card-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGate(t *testing.T, mw echo.MiddlewareFunc, prepare func(*http.Request)) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	prepare(req)
	c := e.NewContext(req, httptest.NewRecorder())

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err
}

func TestGate_RequireEditAccess(t *testing.T) {
	clock := newClock()
	edit := newEditService(t, clock)
	admin := newAdminService(t, clock)
	gate := NewGate(edit, admin)

	editToken, err := edit.Create(21)
	require.NoError(t, err)
	adminToken, err := admin.Create(0)
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		c, err := runGate(t, gate.RequireEditAccess(), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: CookieValue(editToken)})
		})
		require.NoError(t, err)

		cardID, err := GetCardID(c)
		require.NoError(t, err)
		assert.Equal(t, int64(21), cardID)

		claims, err := GetClaims(c)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeEditAccess, claims.Type)
	})

	t.Run("header fallback", func(t *testing.T) {
		c, err := runGate(t, gate.RequireEditAccess(), func(r *http.Request) {
			r.Header.Set(headerAuthorization, "Bearer "+editToken)
		})
		require.NoError(t, err)
		cardID, _ := GetCardID(c)
		assert.Equal(t, int64(21), cardID)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := runGate(t, gate.RequireEditAccess(), func(*http.Request) {})
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("cookie without scheme", func(t *testing.T) {
		_, err := runGate(t, gate.RequireEditAccess(), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: editToken})
		})
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("admin token rejected", func(t *testing.T) {
		_, err := runGate(t, gate.RequireEditAccess(), func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: CookieValue(adminToken)})
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})
}

func TestGate_RequireAdminAccess(t *testing.T) {
	clock := newClock()
	edit := newEditService(t, clock)
	admin := newAdminService(t, clock)
	gate := NewGate(edit, admin)

	editToken, err := edit.Create(21)
	require.NoError(t, err)
	adminToken, err := admin.Create(0)
	require.NoError(t, err)

	_, err = runGate(t, gate.RequireAdminAccess(), func(r *http.Request) {
		r.Header.Set(headerAuthorization, "Bearer "+adminToken)
	})
	assert.NoError(t, err)

	_, err = runGate(t, gate.RequireAdminAccess(), func(r *http.Request) {
		r.Header.Set(headerAuthorization, "Bearer "+editToken)
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = runGate(t, gate.RequireAdminAccess(), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: CookieValue(adminToken)})
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", extractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", extractBearerToken("bearer abc"))
	assert.Equal(t, "", extractBearerToken("Basic abc"))
	assert.Equal(t, "", extractBearerToken("Bearer"))
	assert.Equal(t, "", extractBearerToken(""))
}

func TestGetCardID_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := GetCardID(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
