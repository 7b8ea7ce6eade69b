package handler

import (
	"net/http"
	"time"

	"card-service/internal/auth"

	"github.com/labstack/echo/v4"
)

// CookieConfig controls the edit-token cookie set on redemption.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type CodeHandler struct {
	codes  CodeOperations
	cookie CookieConfig
}

func NewCodeHandler(codes CodeOperations, cookie CookieConfig) *CodeHandler {
	return &CodeHandler{codes: codes, cookie: cookie}
}

type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,max=128"`
}

// Redeem exchanges a plaintext code for an edit token. A valid token for the
// same card already present in the cookie is returned unchanged.
func (h *CodeHandler) Redeem(c echo.Context) error {
	var req RedeemCodeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	redemption, err := h.codes.Redeem(c.Request().Context(), req.Code, auth.ExtractEditToken(c))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    auth.CookieValue(redemption.Token.Token),
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: redemption.Token.Token,
		TokenType:   tokenTypeBearer,
		CardID:      redemption.CardID,
		Reused:      redemption.Token.Reused,
	})
}

func (h *CodeHandler) VerifyToken(c echo.Context) error {
	claims, err := auth.GetClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, VerifyTokenResponse{
		Valid:     true,
		CardID:    claims.CardID,
		TokenType: string(claims.Type),
		ExpiresAt: claims.ExpiresAtTime().Unix(),
	})
}
