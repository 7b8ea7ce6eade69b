package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "card-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with the JSON body limit.
)

// bindStrictJSON decodes exactly one JSON document into dst, rejecting
// unknown fields, then runs the echo validator on it.
func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return apperrors.PayloadInvalid(msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return decodeError(err)
	}

	return c.Validate(dst)
}

// decodeError maps a body read cut off by the BodyLimit middleware to 413
// and everything else to an invalid body.
func decodeError(err error) error {
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return apperrors.PayloadTooLarge(msgBodyTooLarge)
	}
	return apperrors.PayloadInvalid(msgInvalidRequestBody)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return parseID(c.Param(name), name)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(fmt.Sprintf(msgInvalidIDFmt, name))
	}
	return id, nil
}

func parseLimit(c echo.Context) (int, error) {
	raw := c.QueryParam(queryLimit)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.Validation(msgInvalidLimit)
	}
	return limit, nil
}
