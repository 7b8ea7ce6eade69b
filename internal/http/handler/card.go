package handler

import (
	"net/http"

	"card-service/internal/auth"
	"card-service/internal/domain/card"
	apperrors "card-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type CardHandler struct {
	cards CardOperations
}

func NewCardHandler(cards CardOperations) *CardHandler {
	return &CardHandler{cards: cards}
}

type PatchCardRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=20"`
	Title       *string `json:"title" validate:"omitempty,min=5,max=75"`
	Description *string `json:"description" validate:"omitempty,min=10,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,kzphone"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Website     *string `json:"website" validate:"omitempty,weburl,max=2048"`
	City        *string `json:"city" validate:"omitempty,min=3,max=20"`
}

func (r PatchCardRequest) toPatch() card.Patch {
	return card.Patch{
		Name:        r.Name,
		Title:       r.Title,
		Description: r.Description,
		Phone:       r.Phone,
		Email:       r.Email,
		Website:     r.Website,
		City:        r.City,
	}
}

// GetPublic serves the shareable view: hidden links are left out.
func (h *CardHandler) GetPublic(c echo.Context) error {
	cardID, err := parseIDParam(c, paramID)
	if err != nil {
		return err
	}

	view, err := h.cards.Get(c.Request().Context(), cardID, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardViewResponse(view))
}

func (h *CardHandler) GetMe(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	view, err := h.cards.Get(c.Request().Context(), cardID, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardViewResponse(view))
}

func (h *CardHandler) Patch(c echo.Context) error {
	tokenCardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	cardID, err := parseIDParam(c, paramID)
	if err != nil {
		return err
	}
	if cardID != tokenCardID {
		return apperrors.Forbidden(msgCardAccessDenied)
	}

	var req PatchCardRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	view, err := h.cards.Patch(c.Request().Context(), cardID, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardViewResponse(view))
}
