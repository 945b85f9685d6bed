package controller

import (
	"context"
	"net/http"

	"washpro-backend/models"
	"washpro-backend/services"
	"washpro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CatalogController struct {
	ctx            context.Context
	catalogService services.CatalogServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewCatalogController(ctx context.Context, catalogService services.CatalogServiceInterface, log logger.Logger) *CatalogController {
	return &CatalogController{
		ctx:            ctx,
		catalogService: catalogService,
		logger:         log,
		validator:      validator.New(),
	}
}

// CreateService handles POST /api/v1/services
// @Summary Create a catalog service
// @Description Define a service, optionally with a custom lifecycle stage list
// @Tags Service Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateServiceRequest true "Create service request"
// @Success 201 {object} models.APIResponse "Service created"
// @Router /services [post]
func (h *CatalogController) CreateService(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}
	req.OrgID = claims.OrgID

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	service, err := h.catalogService.CreateService(h.ctx, &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to create service", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Service created successfully", service)
}

// GetService handles GET /api/v1/services/:id
// @Summary Get a catalog service
// @Tags Service Catalog
// @Security BearerAuth
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} models.APIResponse "Service details"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /services/{id} [get]
func (h *CatalogController) GetService(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	service, err := h.catalogService.GetService(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get service", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Service retrieved successfully", service)
}

// GetServices handles GET /api/v1/services
// @Summary List catalog services
// @Tags Service Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Services list"
// @Router /services [get]
func (h *CatalogController) GetServices(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	services, err := h.catalogService.GetServices(h.ctx, claims.OrgID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get services", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Services retrieved successfully", services)
}

// UpdateService handles PATCH /api/v1/services/:id
// @Summary Update a catalog service
// @Description Lifecycle changes apply to in-flight jobs on their next stage move
// @Tags Service Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body models.UpdateServiceRequest true "Fields to update"
// @Success 200 {object} models.APIResponse "Service updated"
// @Router /services/{id} [patch]
func (h *CatalogController) UpdateService(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	service, err := h.catalogService.UpdateService(h.ctx, claims.OrgID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to update service", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Service updated successfully", service)
}

// DeleteService handles DELETE /api/v1/services/:id
// @Summary Delete a catalog service
// @Tags Service Catalog
// @Security BearerAuth
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} models.APIResponse "Service deleted"
// @Router /services/{id} [delete]
func (h *CatalogController) DeleteService(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteService(h.ctx, claims.OrgID, c.Param("id")); err != nil {
		respondServiceError(h.logger, c, "Failed to delete service", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Service deleted successfully", nil)
}
