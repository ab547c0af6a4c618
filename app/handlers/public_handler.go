package handlers

import (
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// PublicHandlerInterface defines the public endpoints that go beyond plain lists
type PublicHandlerInterface interface {
	NewsDetail(c fiber.Ctx) error
	SubmitApplication(c fiber.Ctx) error
}

type PublicHandler struct {
	baseHandler
	news         businessflow.NewsFlow
	applications businessflow.ServiceApplicationFlow
}

func NewPublicHandler(news businessflow.NewsFlow, applications businessflow.ServiceApplicationFlow, requestTimeout time.Duration, logger *zap.Logger) PublicHandlerInterface {
	return &PublicHandler{
		baseHandler:  newBaseHandler(logger, requestTimeout),
		news:         news,
		applications: applications,
	}
}

// NewsDetail returns a published article with rendered content
// @Summary News detail
// @Description Retrieve a published news article; content_html is the rendered markdown
// @Tags Public
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} dto.APIResponse{data=dto.NewsDetailResponse}
// @Failure 404 {object} dto.APIResponse "Not found or not published"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/public/news/{id} [get]
func (h *PublicHandler) NewsDetail(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/public/news/:id")
	defer cancel()

	detail, err := h.news.PublishedDetail(ctx, c.Params("id"))
	if err != nil {
		return h.flowError(c, err, "Get news")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "News retrieved", detail)
}

// SubmitApplication records a resident's application for a service
// @Summary Submit service application
// @Description Submit an application for an active service; it starts as pending
// @Tags Public
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=models.ServiceApplication}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 422 {object} dto.APIResponse "Service not available"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/public/applications [post]
func (h *PublicHandler) SubmitApplication(c fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/public/applications")
	defer cancel()

	application, err := h.applications.Submit(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Submit application")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Application submitted", application)
}
