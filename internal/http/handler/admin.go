package handler

import (
	"net/http"

	"card-service/internal/audit"
	"card-service/internal/auth"
	"card-service/internal/domain/card"
	"card-service/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the operator surface: sessions, card provisioning,
// code regeneration, deletion and the audit trail.
type AdminHandler struct {
	login   AdminLogin
	cards   CardOperations
	codes   CodeOperations
	audit   AuditLog
	metrics *metrics.Metrics
}

func NewAdminHandler(login AdminLogin, cards CardOperations, codes CodeOperations, auditLog AuditLog, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{login: login, cards: cards, codes: codes, audit: auditLog, metrics: m}
}

type CreateCardRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=20"`
	Title       string `json:"title" validate:"required,min=5,max=75"`
	Description string `json:"description" validate:"required,min=10,max=255"`
	Phone       string `json:"phone" validate:"required,kzphone"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Website     string `json:"website" validate:"omitempty,weburl,max=2048"`
	City        string `json:"city" validate:"required,min=3,max=20"`
}

type RegenerateCodeRequest struct {
	CardID int64 `json:"card_id" validate:"required,gt=0"`
}

// CreateSession exchanges the X-Admin-Key header for an admin token.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	issued, err := h.login.Login(auth.ExtractAdminKey(c))
	if err != nil {
		h.audit.Record(ctx, audit.EventAdminLoginFailed, 0, nil)
		return err
	}

	h.audit.Record(ctx, audit.EventAdminLogin, 0, nil)
	h.metrics.TokenIssued(metrics.FlowAdmin)

	return c.JSON(http.StatusOK, AdminSessionResponse{
		AccessToken: issued.Token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   issued.Claims.ExpiresAtTime().Unix(),
	})
}

func (h *AdminHandler) CreateCard(c echo.Context) error {
	var req CreateCardRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	created, err := h.cards.Create(c.Request().Context(), card.CreateCardInput{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		City:        req.City,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreateCardResponse{
		CardResponse: toCardResponse(created.Card),
		Code:         created.Code,
	})
}

func (h *AdminHandler) RegenerateCode(c echo.Context) error {
	var req RegenerateCodeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	issued, err := h.codes.Regenerate(c.Request().Context(), req.CardID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RegenerateCodeResponse{
		CardID: issued.Code.CardID,
		Code:   issued.Plaintext,
	})
}

func (h *AdminHandler) DeleteCard(c echo.Context) error {
	cardID, err := parseIDParam(c, paramID)
	if err != nil {
		return err
	}

	if err := h.cards.Delete(c.Request().Context(), cardID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListAudit(c echo.Context) error {
	cardID, err := parseIDParam(c, paramID)
	if err != nil {
		return err
	}

	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	events, err := h.audit.Events(c.Request().Context(), cardID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuditEventResponses(events))
}
