package handlers

import (
	"time"

	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ResourceHandlerInterface defines the CRUD endpoints mounted for every entity type
type ResourceHandlerInterface interface {
	List(c fiber.Ctx) error
	ListPublic(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// ResourceHandler exposes one ResourceFlow over HTTP
type ResourceHandler[T models.Entity, C businessflow.CreateRequest[T], U businessflow.UpdateRequest[T]] struct {
	baseHandler
	flow      businessflow.ResourceFlow[T, C, U]
	newCreate func() C
	newUpdate func() U
	label     string
}

// NewResourceHandler creates a handler; newCreate and newUpdate return empty request bodies to bind into
func NewResourceHandler[T models.Entity, C businessflow.CreateRequest[T], U businessflow.UpdateRequest[T]](flow businessflow.ResourceFlow[T, C, U], label string, newCreate func() C, newUpdate func() U, requestTimeout time.Duration, logger *zap.Logger) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{
		baseHandler: newBaseHandler(logger, requestTimeout),
		flow:        flow,
		newCreate:   newCreate,
		newUpdate:   newUpdate,
		label:       label,
	}
}

// List returns every record of the type (admin)
// @Summary List records (Admin)
// @Description Retrieve all records of an entity type in its list order
// @Tags Admin Resources
// @Produce json
// @Param resource path string true "Entity type" Enums(services, news, officials, facilities, programs, kkn, statistics, achievements, applications)
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse "Not authenticated"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/{resource} [get]
func (h *ResourceHandler[T, C, U]) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	items, err := h.flow.List(ctx)
	if err != nil {
		return h.flowError(c, err, "List "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusOK, h.label+" retrieved", items)
}

// ListPublic returns the records visible on the public site
// @Summary List public records
// @Description Retrieve the publicly visible records of an entity type (active or published)
// @Tags Public
// @Produce json
// @Param resource path string true "Entity type" Enums(services, news, officials, facilities, programs, kkn, statistics, achievements)
// @Success 200 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/public/{resource} [get]
func (h *ResourceHandler[T, C, U]) ListPublic(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	items, err := h.flow.ListPublic(ctx)
	if err != nil {
		return h.flowError(c, err, "List "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusOK, h.label+" retrieved", items)
}

// Get returns one record (admin)
// @Summary Get record (Admin)
// @Tags Admin Resources
// @Produce json
// @Param resource path string true "Entity type"
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/{resource}/{id} [get]
func (h *ResourceHandler[T, C, U]) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	item, err := h.flow.Get(ctx, c.Params("id"))
	if err != nil {
		return h.flowError(c, err, "Get "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusOK, h.label+" retrieved", item)
}

// Create adds a record (admin)
// @Summary Create record (Admin)
// @Description Blank required fields are rejected before the store is called
// @Tags Admin Resources
// @Accept json
// @Produce json
// @Param resource path string true "Entity type"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/{resource} [post]
func (h *ResourceHandler[T, C, U]) Create(c fiber.Ctx) error {
	req := h.newCreate()
	if err := c.Bind().JSON(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	item, err := h.flow.Create(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Create "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusCreated, h.label+" created", item)
}

// Update patches a record (admin)
// @Summary Update record (Admin)
// @Description Only the fields present in the body are changed
// @Tags Admin Resources
// @Accept json
// @Produce json
// @Param resource path string true "Entity type"
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/{resource}/{id} [put]
func (h *ResourceHandler[T, C, U]) Update(c fiber.Ctx) error {
	req := h.newUpdate()
	if err := c.Bind().JSON(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	item, err := h.flow.Update(ctx, c.Params("id"), req)
	if err != nil {
		return h.flowError(c, err, "Update "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusOK, h.label+" updated", item)
}

// Delete removes a record (admin); deleting an unknown id succeeds
// @Summary Delete record (Admin)
// @Tags Admin Resources
// @Produce json
// @Param resource path string true "Entity type"
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse{data=object{deleted=bool}}
// @Failure 500 {object} dto.APIResponse "Store error"
// @Router /api/v1/admin/{resource}/{id} [delete]
func (h *ResourceHandler[T, C, U]) Delete(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, c.Path())
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("id")); err != nil {
		return h.flowError(c, err, "Delete "+h.label)
	}
	return h.SuccessResponse(c, fiber.StatusOK, h.label+" deleted", fiber.Map{"deleted": true})
}
