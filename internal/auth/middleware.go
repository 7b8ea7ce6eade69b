package auth

import (
	"strings"

	apperrors "card-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// Gate guards the edit and admin surfaces. The two token services are keyed
// separately, so an edit token never passes the admin gate and vice versa.
type Gate struct {
	edit  *TokenService
	admin *TokenService
}

func NewGate(edit, admin *TokenService) *Gate {
	return &Gate{edit: edit, admin: admin}
}

// Authorize resolves an edit token to the card it grants access to.
func (g *Gate) Authorize(token string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated(msgNotAuthenticated)
	}
	return g.edit.Verify(token)
}

func (g *Gate) RequireEditAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := g.Authorize(ExtractEditToken(c))
			if err != nil {
				return err
			}

			c.Set(ContextKeyCardID, claims.CardID)
			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyTokenType, claims.Type)

			return next(c)
		}
	}
}

func (g *Gate) RequireAdminAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c.Request().Header.Get(headerAuthorization))
			if token == "" {
				return apperrors.Unauthenticated(msgNotAuthenticated)
			}

			claims, err := g.admin.Verify(token)
			if err != nil {
				return err
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyTokenType, claims.Type)

			return next(c)
		}
	}
}

// ExtractEditToken reads the edit token from the Authorization cookie,
// falling back to an Authorization bearer header.
func ExtractEditToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if token := extractBearerToken(cookie.Value); token != "" {
			return token
		}
	}
	return extractBearerToken(c.Request().Header.Get(headerAuthorization))
}

// ExtractAdminKey returns the raw admin key header.
func ExtractAdminKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(headerAdminKey))
}

// CookieValue formats a token the way ExtractEditToken expects to read it back.
func CookieValue(token string) string {
	return bearerPrefix + token
}

func extractBearerToken(value string) string {
	if value == "" {
		return ""
	}

	parts := strings.Fields(value)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func GetCardID(c echo.Context) (int64, error) {
	cardID := c.Get(ContextKeyCardID)
	if cardID == nil {
		return 0, apperrors.Unauthenticated(msgNotAuthenticated)
	}

	id, ok := cardID.(int64)
	if !ok {
		return 0, apperrors.Internal(msgInvalidCardIDCtx, nil)
	}

	return id, nil
}

func GetClaims(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(ContextKeyClaims).(*Claims)
	if !ok || claims == nil {
		return nil, apperrors.Unauthenticated(msgNotAuthenticated)
	}
	return claims, nil
}
