package controller

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"

	"washpro-backend/models"
	"washpro-backend/services"
	"washpro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// WebhookController accepts payloads from external systems: the public
// booking form and the payment provider. Both paths are token-authenticated
// rather than JWT-authenticated, and the tenant comes from the URL.
type WebhookController struct {
	ctx            context.Context
	config         *models.Config
	bookingService services.BookingServiceInterface
	invoiceService services.InvoiceServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewWebhookController(ctx context.Context, cfg *models.Config, bookingService services.BookingServiceInterface, invoiceService services.InvoiceServiceInterface, log logger.Logger) *WebhookController {
	return &WebhookController{
		ctx:            ctx,
		config:         cfg,
		bookingService: bookingService,
		invoiceService: invoiceService,
		logger:         log,
		validator:      validator.New(),
	}
}

// BookingIntake handles POST /webhooks/:orgID/bookings
// @Summary Accept a booking from the public form
// @Description Token-authenticated intake. Customer and vehicle are found or created; the service name is matched against the catalog.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param orgID path string true "Org ID"
// @Param X-Webhook-Token header string true "Shared webhook token"
// @Success 201 {object} models.APIResponse "Booking created"
// @Failure 401 {object} models.APIResponse "Unauthorized - Bad token"
// @Router /webhooks/{orgID}/bookings [post]
func (h *WebhookController) BookingIntake(c *gin.Context) {
	if !h.tokenMatches(c.GetHeader("X-Webhook-Token"), h.config.BookingWebhookToken) {
		h.logger.Warn("Booking webhook rejected: bad token")
		respondError(c, http.StatusUnauthorized, "Invalid webhook token", "AuthenticationError", "X-Webhook-Token header mismatch")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", "unreadable body")
		return
	}
	if !gjson.ValidBytes(body) {
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", "body is not valid JSON")
		return
	}

	intake := parseBookingIntake(body)
	if err := h.validator.Struct(intake); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	booking, err := h.bookingService.IntakeBooking(h.ctx, c.Param("orgID"), intake)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to accept booking", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Booking accepted", booking)
}

// PaymentCallback handles POST /webhooks/:orgID/payments
// @Summary Settle an invoice from a payment provider callback
// @Description The callback references the human-facing invoice number
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param orgID path string true "Org ID"
// @Param X-Webhook-Token header string true "Payment webhook secret"
// @Success 200 {object} models.APIResponse "Invoice settled"
// @Failure 404 {object} models.APIResponse "Not Found - Unknown invoice number"
// @Router /webhooks/{orgID}/payments [post]
func (h *WebhookController) PaymentCallback(c *gin.Context) {
	if !h.tokenMatches(c.GetHeader("X-Webhook-Token"), h.config.PaymentWebhookSecret) {
		h.logger.Warn("Payment webhook rejected: bad token")
		respondError(c, http.StatusUnauthorized, "Invalid webhook token", "AuthenticationError", "X-Webhook-Token header mismatch")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !gjson.ValidBytes(body) {
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", "body is not valid JSON")
		return
	}

	number := firstString(body, "invoiceNumber", "invoice_number", "reference")
	if number == "" {
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", "invoiceNumber is required")
		return
	}

	status := firstString(body, "status", "event")
	if status != "" && status != "paid" && status != "payment.succeeded" && status != "success" {
		h.logger.Infof("Payment webhook for %s ignored, status %q", number, status)
		respondSuccess(c, http.StatusOK, "Event ignored", nil)
		return
	}

	method := firstString(body, "paymentMethod", "payment_method", "method")
	if method == "" {
		method = "online"
	}

	invoice, err := h.invoiceService.MarkPaidByNumber(h.ctx, c.Param("orgID"), number, method)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to settle invoice", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Invoice settled successfully", invoice)
}

func (h *WebhookController) tokenMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// parseBookingIntake tolerates both flat and nested payload shapes, since
// booking form vendors disagree on field layout.
func parseBookingIntake(body []byte) *models.BookingIntake {
	return &models.BookingIntake{
		CustomerName:  firstString(body, "customerName", "customer.name", "name"),
		Phone:         firstString(body, "phone", "customer.phone", "customerPhone"),
		Email:         firstString(body, "email", "customer.email"),
		VehicleNumber: firstString(body, "vehicleNumber", "vehicle.number", "vehicle.plate", "plate"),
		VehicleMake:   firstString(body, "vehicleMake", "vehicle.make"),
		VehicleModel:  firstString(body, "vehicleModel", "vehicle.model"),
		ServiceName:   firstString(body, "serviceName", "service", "booking.service"),
		Date:          firstString(body, "date", "booking.date"),
		Time:          firstString(body, "time", "booking.time"),
		Notes:         firstString(body, "notes", "booking.notes", "message"),
	}
}

func firstString(body []byte, paths ...string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
