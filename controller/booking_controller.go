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

type BookingController struct {
	ctx            context.Context
	bookingService services.BookingServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewBookingController(ctx context.Context, bookingService services.BookingServiceInterface, log logger.Logger) *BookingController {
	return &BookingController{
		ctx:            ctx,
		bookingService: bookingService,
		logger:         log,
		validator:      validator.New(),
	}
}

// CreateBooking handles POST /api/v1/bookings
// @Summary Create a booking
// @Description Create a staff-entered booking in pending status
// @Tags Booking Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Create booking request"
// @Success 201 {object} models.APIResponse "Booking created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid booking data"
// @Failure 404 {object} models.APIResponse "Not Found - Unknown customer or vehicle"
// @Router /bookings [post]
func (h *BookingController) CreateBooking(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
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

	booking, err := h.bookingService.CreateBooking(h.ctx, &req, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to create booking", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking handles GET /api/v1/bookings/:id
// @Summary Get a booking
// @Tags Booking Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.APIResponse "Booking details"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /bookings/{id} [get]
func (h *BookingController) GetBooking(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get booking", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetBookings handles GET /api/v1/bookings
// @Summary List bookings
// @Description List bookings in the caller's org, optionally filtered by customer and status
// @Tags Booking Management
// @Security BearerAuth
// @Produce json
// @Param customerID query string false "Filter by customer"
// @Param status query string false "Filter by status"
// @Success 200 {object} models.APIResponse "Bookings list"
// @Router /bookings [get]
func (h *BookingController) GetBookings(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	filter := &models.BookingFilter{
		OrgID:      claims.OrgID,
		CustomerID: c.Query("customerID"),
		Status:     models.BookingStatus(c.Query("status")),
	}

	bookings, err := h.bookingService.GetBookings(h.ctx, filter)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get bookings", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
// @Summary Confirm a booking
// @Description Confirm a booking and derive its job card. Safe to repeat; the existing card is returned.
// @Tags Booking Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.APIResponse "Job card for the booking"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - Booking cancelled"
// @Router /bookings/{id}/confirm [post]
func (h *BookingController) ConfirmBooking(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	job, err := h.bookingService.ConfirmBooking(h.ctx, claims.OrgID, c.Param("id"), claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to confirm booking", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking confirmed successfully", job)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
// @Summary Cancel a booking
// @Description Cancel a booking that has not produced a job card yet
// @Tags Booking Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.APIResponse "Booking cancelled"
// @Failure 409 {object} models.APIResponse "Conflict - Work already underway"
// @Router /bookings/{id}/cancel [post]
func (h *BookingController) CancelBooking(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	if err := h.bookingService.CancelBooking(h.ctx, claims.OrgID, c.Param("id"), claims.UserID); err != nil {
		respondServiceError(h.logger, c, "Failed to cancel booking", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Booking cancelled successfully", nil)
}
