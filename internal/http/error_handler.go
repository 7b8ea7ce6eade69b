package http

import (
	"errors"
	"fmt"
	"net/http"

	"card-service/internal/http/middleware"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgInternalServerError = "Internal server error"
	unknownRequestID       = "unknown"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
	RequestID string `json:"request_id"`
}

// NewErrorHandler maps AppError kinds and echo HTTP errors to a status and a
// stable kind. Details of 5xx failures are logged, never returned.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, kind, detail := classify(err)

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = unknownRequestID
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("kind", kind),
			logger.SafeError(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("internal_server_error", fields...)
			detail = msgInternalServerError
		} else {
			log.Warn("client_error", fields...)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorResponse{Kind: kind, Detail: detail, RequestID: requestID})
		}
		if writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}

func classify(err error) (int, string, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return statusForKind(appErr.Code), appErr.Code, appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, kindForStatus(httpErr.Code), fmt.Sprintf("%v", httpErr.Message)
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, apperrors.KindNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, apperrors.KindConflict, "Resource conflict"
	}
	return http.StatusInternalServerError, apperrors.KindInternal, msgInternalServerError
}

func statusForKind(kind string) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindInvalidCredential, apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity
	case apperrors.KindPayloadInvalid:
		return http.StatusBadRequest
	case apperrors.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.KindNotFound
	case http.StatusUnauthorized:
		return apperrors.KindUnauthenticated
	case http.StatusForbidden:
		return apperrors.KindForbidden
	case http.StatusRequestEntityTooLarge:
		return apperrors.KindPayloadTooLarge
	case http.StatusUnprocessableEntity:
		return apperrors.KindValidation
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return apperrors.KindPayloadInvalid
	}
	return apperrors.KindInternal
}
