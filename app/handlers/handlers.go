// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/middleware"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
)

// baseHandler carries the response envelope and error mapping shared by all handlers.
// timeout bounds the store calls a request starts.
type baseHandler struct {
	logger  *zap.Logger
	timeout time.Duration
}

func newBaseHandler(logger *zap.Logger, timeout time.Duration) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = utils.RequestTimeout
	}
	return baseHandler{logger: logger, timeout: timeout}
}

func (h baseHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h baseHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// createRequestContext detaches the store call from the client connection: a client that
// goes away does not abort a mutation, and its result is simply not delivered.
func (h baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, h.timeout)
}

func (h baseHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	if sid := middleware.SessionIDFrom(c); sid != "" {
		ctx = context.WithValue(ctx, utils.SessionIDKey, sid)
	}
	return ctx, cancel
}

// flowError maps business flow failures onto HTTP responses
func (h baseHandler) flowError(c fiber.Ctx, err error, action string) error {
	code := ""
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		code = be.Code
	}

	switch {
	case businessflow.IsValidationError(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", businessflow.ValidationFields(err))
	case businessflow.IsServiceNotAvailable(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Service is not accepting applications", "SERVICE_NOT_AVAILABLE", nil)
	case businessflow.IsRecordNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Record not found", "NOT_FOUND", nil)
	case businessflow.IsUploadRejected(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid file", code, err.Error())
	case businessflow.IsUploadError(err):
		h.logger.Error(action+" failed", zap.String("request_id", requestid.FromContext(c)), zap.Error(err))
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Upload failed", "UPLOAD_ERROR", nil)
	case businessflow.IsStoreError(err):
		h.logger.Error(action+" failed", zap.String("request_id", requestid.FromContext(c)), zap.Error(err))
		return h.ErrorResponse(c, fiber.StatusInternalServerError, action+" failed", "STORE_ERROR", nil)
	default:
		h.logger.Error(action+" failed", zap.String("request_id", requestid.FromContext(c)), zap.Error(err))
		if code == "" {
			code = "INTERNAL_ERROR"
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, action+" failed", code, nil)
	}
}
