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

type JobCardController struct {
	ctx            context.Context
	jobCardService services.JobCardServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewJobCardController(ctx context.Context, jobCardService services.JobCardServiceInterface, log logger.Logger) *JobCardController {
	return &JobCardController{
		ctx:            ctx,
		jobCardService: jobCardService,
		logger:         log,
		validator:      validator.New(),
	}
}

// CreateJobCard handles POST /api/v1/job-cards
// @Summary Open a walk-in job card
// @Description Open a job card with no backing booking
// @Tags Job Card Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateJobCardRequest true "Create job card request"
// @Success 201 {object} models.APIResponse "Job card created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid job card data"
// @Router /job-cards [post]
func (h *JobCardController) CreateJobCard(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.CreateJobCardRequest
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

	job, err := h.jobCardService.CreateWalkIn(h.ctx, &req, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to create job card", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Job card created successfully", job)
}

// GetJobCard handles GET /api/v1/job-cards/:id
// @Summary Get a job card
// @Tags Job Card Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job Card ID"
// @Success 200 {object} models.APIResponse "Job card details"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /job-cards/{id} [get]
func (h *JobCardController) GetJobCard(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	job, err := h.jobCardService.GetJobCard(h.ctx, claims.OrgID, c.Param("id"))
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get job card", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job card retrieved successfully", job)
}

// GetJobCards handles GET /api/v1/job-cards
// @Summary List job cards
// @Tags Job Card Management
// @Security BearerAuth
// @Produce json
// @Param customerID query string false "Filter by customer"
// @Param stage query string false "Filter by current stage"
// @Success 200 {object} models.APIResponse "Job cards list"
// @Router /job-cards [get]
func (h *JobCardController) GetJobCards(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	filter := &models.JobCardFilter{
		OrgID:      claims.OrgID,
		CustomerID: c.Query("customerID"),
		Stage:      c.Query("stage"),
	}

	jobs, err := h.jobCardService.GetJobCards(h.ctx, filter)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get job cards", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job cards retrieved successfully", jobs)
}

// CheckIn handles POST /api/v1/job-cards/:id/check-in
// @Summary Check a vehicle in
// @Description Move a not-started job card to the first lifecycle stage. Repeating at the first stage is a no-op.
// @Tags Job Card Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job Card ID"
// @Success 200 {object} models.APIResponse "Job card checked in"
// @Failure 409 {object} models.APIResponse "Conflict - Already past check-in"
// @Router /job-cards/{id}/check-in [post]
func (h *JobCardController) CheckIn(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	job, err := h.jobCardService.BeginCheckIn(h.ctx, claims.OrgID, c.Param("id"), claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to check in job card", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job card checked in successfully", job)
}

// Advance handles POST /api/v1/job-cards/:id/advance
// @Summary Advance to the next stage
// @Description Move the job card one stage forward in its effective lifecycle
// @Tags Job Card Management
// @Security BearerAuth
// @Produce json
// @Param id path string true "Job Card ID"
// @Success 200 {object} models.APIResponse "Job card advanced"
// @Failure 409 {object} models.APIResponse "Conflict - Terminal stage or concurrent update"
// @Router /job-cards/{id}/advance [post]
func (h *JobCardController) Advance(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	job, err := h.jobCardService.Advance(h.ctx, claims.OrgID, c.Param("id"), claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to advance job card", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job card advanced successfully", job)
}

// SetStage handles PUT /api/v1/job-cards/:id/stage
// @Summary Set the stage directly
// @Description Administrative override to any stage in the effective lifecycle, forward or backward
// @Tags Job Card Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job Card ID"
// @Param request body models.SetStageRequest true "Target stage"
// @Success 200 {object} models.APIResponse "Stage set"
// @Failure 400 {object} models.APIResponse "Bad Request - Stage not in lifecycle"
// @Router /job-cards/{id}/stage [put]
func (h *JobCardController) SetStage(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	job, err := h.jobCardService.SetStage(h.ctx, claims.OrgID, c.Param("id"), req.Stage, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to set job card stage", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job card stage set successfully", job)
}

// UpdateJobCard handles PATCH /api/v1/job-cards/:id
// @Summary Update job card details
// @Description Edit assignment, notes and images without touching the stage
// @Tags Job Card Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Job Card ID"
// @Param request body models.UpdateJobCardRequest true "Fields to update"
// @Success 200 {object} models.APIResponse "Job card updated"
// @Router /job-cards/{id} [patch]
func (h *JobCardController) UpdateJobCard(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req models.UpdateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondValidationError(c, formatValidationErrors(err))
		return
	}

	job, err := h.jobCardService.UpdateJobCard(h.ctx, claims.OrgID, c.Param("id"), &req, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to update job card", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Job card updated successfully", job)
}
