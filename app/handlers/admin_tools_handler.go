package handlers

import (
	"mime/multipart"
	"time"

	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AdminToolsHandlerInterface defines admin endpoints outside plain CRUD
type AdminToolsHandlerInterface interface {
	UploadImage(c fiber.Ctx) error
	ExportApplications(c fiber.Ctx) error
	Dashboard(c fiber.Ctx) error
}

type AdminToolsHandler struct {
	baseHandler
	uploads      businessflow.ImageUploadFlow
	applications businessflow.ServiceApplicationFlow
	dashboard    businessflow.DashboardFlow
}

func NewAdminToolsHandler(uploads businessflow.ImageUploadFlow, applications businessflow.ServiceApplicationFlow, dashboard businessflow.DashboardFlow, requestTimeout time.Duration, logger *zap.Logger) AdminToolsHandlerInterface {
	return &AdminToolsHandler{
		baseHandler:  newBaseHandler(logger, requestTimeout),
		uploads:      uploads,
		applications: applications,
		dashboard:    dashboard,
	}
}

// UploadImage stores an image and returns its public URL
// @Summary Upload image (Admin)
// @Description Upload a jpg/jpeg/png/gif/webp image (<=5MB); images wider than 1920px are downscaled
// @Tags Admin Uploads
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Param folder formData string false "Target folder, e.g. news or facilities"
// @Success 201 {object} dto.APIResponse{data=dto.UploadImageResponse} "Upload successful"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 500 {object} dto.APIResponse "Upload failed"
// @Router /api/v1/admin/uploads/images [post]
func (h *AdminToolsHandler) UploadImage(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "FILE_REQUIRED", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	req := businessflow.UploadImageRequest{
		Folder:   c.FormValue("folder"),
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/uploads/images")
	defer cancel()

	result, err := h.uploads.UploadImage(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Upload image")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Upload successful", result)
}

// ExportApplications downloads all service applications as a workbook
// @Summary Export service applications (Admin)
// @Tags Admin Resources
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "xlsx file"
// @Failure 500 {object} dto.APIResponse "Export failed"
// @Router /api/v1/admin/applications/export [get]
func (h *AdminToolsHandler) ExportApplications(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/applications/export")
	defer cancel()

	filename, data, err := h.applications.Export(ctx)
	if err != nil {
		return h.flowError(c, err, "Export applications")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// Dashboard returns record counts for the admin home page
// @Summary Dashboard summary (Admin)
// @Tags Admin Resources
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardSummary}
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/dashboard [get]
func (h *AdminToolsHandler) Dashboard(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/dashboard")
	defer cancel()

	summary, err := h.dashboard.Summary(ctx)
	if err != nil {
		return h.flowError(c, err, "Load dashboard")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Dashboard retrieved", summary)
}
