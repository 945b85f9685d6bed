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

type CustomerController struct {
	ctx             context.Context
	customerService services.CustomerServiceInterface
	logger          logger.Logger
	validator       *validator.Validate
}

func NewCustomerController(ctx context.Context, customerService services.CustomerServiceInterface, log logger.Logger) *CustomerController {
	return &CustomerController{
		ctx:             ctx,
		customerService: customerService,
		logger:          log,
		validator:       validator.New(),
	}
}

// CreateCustomer handles POST /api/v1/customers
// @Summary Register a customer
// @Description Phone is the natural key within the org; duplicates are rejected
// @Tags Customer Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateCustomerRequest true "Create customer request"
// @Success 201 {object} models.APIResponse "Customer created"
// @Failure 409 {object} models.APIResponse "Conflict - Phone already registered"
// @Router /customers [post]
func (h *CustomerController) CreateCustomer(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.CreateCustomerRequest
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

	customer, err := h.customerService.CreateCustomer(h.ctx, &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to create customer", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Customer created successfully", customer)
}

// GetCustomer handles GET /api/v1/customers/:id
// @Summary Get a customer
// @Tags Customer Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.APIResponse "Customer details"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /customers/{id} [get]
func (h *CustomerController) GetCustomer(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get customer", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Customer retrieved successfully", customer)
}

// GetCustomers handles GET /api/v1/customers
// @Summary List customers
// @Tags Customer Management
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Customers list"
// @Router /customers [get]
func (h *CustomerController) GetCustomers(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	customers, err := h.customerService.GetCustomers(h.ctx, claims.OrgID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get customers", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Customers retrieved successfully", customers)
}

// AddVehicle handles POST /api/v1/customers/:id/vehicles
// @Summary Add a vehicle
// @Description Attach a vehicle to a customer's fleet, rejecting duplicate plates
// @Tags Customer Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body models.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} models.APIResponse "Vehicle added"
// @Failure 409 {object} models.APIResponse "Conflict - Plate already registered"
// @Router /customers/{id}/vehicles [post]
func (h *CustomerController) AddVehicle(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}
	req.OrgID = claims.OrgID
	req.CustomerID = c.Param("id")

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	vehicle, err := h.customerService.AddVehicle(h.ctx, &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to add vehicle", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Vehicle added successfully", vehicle)
}

// GetVehicles handles GET /api/v1/customers/:id/vehicles
// @Summary List a customer's vehicles
// @Tags Customer Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.APIResponse "Vehicles list"
// @Router /customers/{id}/vehicles [get]
func (h *CustomerController) GetVehicles(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	vehicles, err := h.customerService.GetVehicles(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get vehicles", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}
