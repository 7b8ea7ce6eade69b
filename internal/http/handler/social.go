package handler

import (
	"net/http"

	"card-service/internal/auth"
	"card-service/internal/domain/social"

	"github.com/labstack/echo/v4"
)

type SocialHandler struct {
	socials SocialOperations
}

func NewSocialHandler(socials SocialOperations) *SocialHandler {
	return &SocialHandler{socials: socials}
}

type CreateSocialRequest struct {
	Type  string `json:"type" validate:"required,oneof=instagram telegram tiktok youtube custom"`
	URL   string `json:"url" validate:"required,weburl,max=2048"`
	Label string `json:"label" validate:"required,min=1,max=100,nocontrol"`
}

type PatchSocialRequest struct {
	Type      *string `json:"type" validate:"omitempty,oneof=instagram telegram tiktok youtube custom"`
	URL       *string `json:"url" validate:"omitempty,weburl,max=2048"`
	Label     *string `json:"label" validate:"omitempty,min=1,max=100,nocontrol"`
	IsVisible *bool   `json:"is_visible"`
}

func (r PatchSocialRequest) toPatch() social.Patch {
	patch := social.Patch{URL: r.URL, Label: r.Label, IsVisible: r.IsVisible}
	if r.Type != nil {
		t := social.Type(*r.Type)
		patch.Type = &t
	}
	return patch
}

func (h *SocialHandler) Create(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	var req CreateSocialRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	link, err := h.socials.Create(c.Request().Context(), social.CreateLinkInput{
		CardID: cardID,
		Type:   social.Type(req.Type),
		URL:    req.URL,
		Label:  req.Label,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSocialResponse(link))
}

func (h *SocialHandler) Patch(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	linkID, err := parseIDParam(c, paramSocialID)
	if err != nil {
		return err
	}

	var req PatchSocialRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	link, err := h.socials.Patch(c.Request().Context(), cardID, linkID, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSocialResponse(link))
}

func (h *SocialHandler) Delete(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	linkID, err := parseIDParam(c, paramSocialID)
	if err != nil {
		return err
	}

	if err := h.socials.Delete(c.Request().Context(), cardID, linkID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
