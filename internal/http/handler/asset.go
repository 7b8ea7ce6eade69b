package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"card-service/internal/auth"
	"card-service/internal/service"
	apperrors "card-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type AssetHandler struct {
	assets AssetOperations
}

func NewAssetHandler(assets AssetOperations) *AssetHandler {
	return &AssetHandler{assets: assets}
}

func (h *AssetHandler) UploadAvatar(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	upload, err := h.readUpload(c)
	if err != nil {
		return err
	}

	created, err := h.assets.UploadAvatar(c.Request().Context(), cardID, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAssetResponse(created))
}

func (h *AssetHandler) UploadIcon(c echo.Context) error {
	cardID, err := auth.GetCardID(c)
	if err != nil {
		return err
	}

	upload, err := h.readUpload(c)
	if err != nil {
		return err
	}

	linkID, err := parseID(c.FormValue(formFieldSocialID), formFieldSocialID)
	if err != nil {
		return err
	}

	created, err := h.assets.UploadIcon(c.Request().Context(), cardID, linkID, upload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAssetResponse(created))
}

// readUpload reads the multipart file part, never buffering more than one
// byte past the size limit so the service can report the overflow.
func (h *AssetHandler) readUpload(c echo.Context) (service.Upload, error) {
	maxSize := h.assets.MaxSize()

	fh, err := c.FormFile(formFieldFile)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return service.Upload{}, apperrors.PayloadTooLarge(fmt.Sprintf(msgFileTooLargeFmt, maxSize))
		}
		return service.Upload{}, apperrors.PayloadInvalid(msgFileRequired)
	}

	if fh.Size > maxSize {
		return service.Upload{}, apperrors.PayloadTooLarge(fmt.Sprintf(msgFileTooLargeFmt, maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, apperrors.PayloadInvalid(msgFileUnreadable)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return service.Upload{}, apperrors.PayloadInvalid(msgFileUnreadable)
	}

	return service.Upload{
		Body:        body,
		ContentType: fh.Header.Get(echo.HeaderContentType),
	}, nil
}
