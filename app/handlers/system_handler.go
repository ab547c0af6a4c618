package handlers

import (
	"context"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// SystemHandlerInterface defines operational endpoints
type SystemHandlerInterface interface {
	Health(c fiber.Ctx) error
	ServeUpload(c fiber.Ctx) error
}

type SystemHandler struct {
	baseHandler
	storage services.ObjectStorage
	checks  map[string]Pinger
	version string
}

func NewSystemHandler(storage services.ObjectStorage, checks map[string]Pinger, version string, logger *zap.Logger) SystemHandlerInterface {
	return &SystemHandler{
		baseHandler: newBaseHandler(logger, 0),
		storage:     storage,
		checks:      checks,
		version:     version,
	}
}

// Health reports the status of the service and its dependencies
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse "A dependency is down"
// @Router /health [get]
func (h *SystemHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	status := fiber.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	data := fiber.Map{
		"status":       "ok",
		"timestamp":    utils.UTCNow().Unix(),
		"version":      h.version,
		"service":      "desa-ngasem-api",
		"dependencies": deps,
	}
	if status != fiber.StatusOK {
		data["status"] = "degraded"
		return c.Status(status).JSON(dto.APIResponse{Success: false, Message: "Service is degraded", Data: data})
	}
	return h.SuccessResponse(c, status, "Service is healthy", data)
}

// ServeUpload streams a stored object
// @Summary Serve uploaded file
// @Tags Public
// @Param path path string true "Object path"
// @Success 200 {string} string "File"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /uploads/{path} [get]
func (h *SystemHandler) ServeUpload(c fiber.Ctx) error {
	fullPath, err := h.storage.Resolve(c.Params("*"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusNotFound, "File not found", "NOT_FOUND", nil)
	}
	// object names are random, so content at a path never changes
	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(fullPath)
}
