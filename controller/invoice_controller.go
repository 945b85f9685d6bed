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

type InvoiceController struct {
	ctx            context.Context
	invoiceService services.InvoiceServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewInvoiceController(ctx context.Context, invoiceService services.InvoiceServiceInterface, log logger.Logger) *InvoiceController {
	return &InvoiceController{
		ctx:            ctx,
		invoiceService: invoiceService,
		logger:         log,
		validator:      validator.New(),
	}
}

// GenerateInvoice handles POST /api/v1/job-cards/:id/invoice
// @Summary Generate an invoice
// @Description Bill a completed job card. Each job card gets at most one invoice.
// @Tags Invoice Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job Card ID"
// @Param request body models.GenerateInvoiceRequest true "Tax and discount"
// @Success 201 {object} models.APIResponse "Invoice generated"
// @Failure 409 {object} models.APIResponse "Conflict - Not completed or already invoiced"
// @Router /job-cards/{id}/invoice [post]
func (h *InvoiceController) GenerateInvoice(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(h.ctx, claims.OrgID, c.Param("id"), &req, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to generate invoice", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Invoice generated successfully", invoice)
}

// GetInvoice handles GET /api/v1/invoices/:id
// @Summary Get an invoice
// @Tags Invoice Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} models.APIResponse "Invoice details"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /invoices/{id} [get]
func (h *InvoiceController) GetInvoice(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get invoice", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Invoice retrieved successfully", invoice)
}

// GetInvoices handles GET /api/v1/invoices
// @Summary List invoices
// @Tags Invoice Management
// @Security BearerAuth
// @Produce json
// @Param customerID query string false "Filter by customer"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200 {object} models.APIResponse "Invoices list"
// @Router /invoices [get]
func (h *InvoiceController) GetInvoices(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	filter := &models.InvoiceFilter{
		OrgID:         claims.OrgID,
		CustomerID:    c.Query("customerID"),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
	}

	invoices, err := h.invoiceService.GetInvoices(h.ctx, filter)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get invoices", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Invoices retrieved successfully", invoices)
}

// UpdateItems handles PUT /api/v1/invoices/:id/items
// @Summary Replace invoice line items
// @Description Totals are recomputed from the invoice's own stored tax and discount
// @Tags Invoice Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body models.UpdateInvoiceItemsRequest true "New line items"
// @Success 200 {object} models.APIResponse "Invoice updated"
// @Router /invoices/{id}/items [put]
func (h *InvoiceController) UpdateItems(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.UpdateInvoiceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	invoice, err := h.invoiceService.UpdateItems(h.ctx, claims.OrgID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to update invoice items", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Invoice items updated successfully", invoice)
}

// RecordPayment handles POST /api/v1/invoices/:id/payment
// @Summary Record a payment
// @Tags Invoice Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body models.RecordPaymentRequest true "Payment method"
// @Success 200 {object} models.APIResponse "Payment recorded"
// @Router /invoices/{id}/payment [post]
func (h *InvoiceController) RecordPayment(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	invoice, err := h.invoiceService.RecordPayment(h.ctx, claims.OrgID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to record payment", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Payment recorded successfully", invoice)
}
