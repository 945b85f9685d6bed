package controller

import (
	"context"
	"net/http"

	"washpro-backend/middleware"
	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type StaffController struct {
	ctx        context.Context
	userRepo   repository.UserRepositoryInterface
	jwtManager *middleware.JWTManager
	logger     logger.Logger
	validator  *validator.Validate
}

func NewStaffController(ctx context.Context, userRepo repository.UserRepositoryInterface, log logger.Logger, jwtManager *middleware.JWTManager) *StaffController {
	return &StaffController{
		ctx:        ctx,
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     log,
		validator:  validator.New(),
	}
}

// Register handles POST /api/v1/auth/register
// @Summary Register a staff account
// @Tags Staff Management
// @Accept json
// @Produce json
// @Param request body models.RegisterUser true "Registration request"
// @Success 201 {object} models.APIResponse "Account created"
// @Failure 409 {object} models.APIResponse "Conflict - Username taken"
// @Router /auth/register [post]
func (h *StaffController) Register(c *gin.Context) {
	var req models.RegisterUser
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", err)
		respondError(c, http.StatusInternalServerError, "Failed to register account", "InternalError", "password processing failed")
		return
	}

	user := &models.User{
		OrgID:        req.OrgID,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Department:   req.Department,
		Role:         models.StaffRoleStaff,
		Status:       models.UserStatusActive,
	}

	created, err := h.userRepo.CreateUser(h.ctx, user)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to register account", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Account registered successfully", created)
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Tags Staff Management
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.APIResponse "Token issued"
// @Failure 401 {object} models.APIResponse "Unauthorized - Bad credentials"
// @Router /auth/login [post]
func (h *StaffController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondError(c, http.StatusBadRequest, "Invalid request", "ValidationError", err.Error())
		return
	}

	user, err := h.userRepo.GetUserByUsername(h.ctx, req.Username)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.Username, err)
		respondError(c, http.StatusUnauthorized, "Invalid username or password", "AuthenticationError", "Invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		h.logger.Warnf("Login failed for %s: bad password", req.Username)
		respondError(c, http.StatusUnauthorized, "Invalid username or password", "AuthenticationError", "Invalid username or password")
		return
	}

	if user.Status != models.UserStatusActive {
		respondError(c, http.StatusUnauthorized, "Account is not active", "AuthenticationError", "Account is "+string(user.Status))
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Token generation failed", "TokenError", err.Error())
		return
	}

	if err := h.userRepo.UpdateLastLogin(h.ctx, user.ID); err != nil {
		h.logger.Warnf("Failed to record last login for %s: %v", user.ID, err)
	}

	respondSuccess(c, http.StatusOK, "Login successful", models.LoginResponse{
		Token: token,
		User:  user,
	})
}

// GetProfile handles GET /api/v1/auth/me
// @Summary Get the authenticated staff profile
// @Tags Staff Management
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Profile"
// @Router /auth/me [get]
func (h *StaffController) GetProfile(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetUser(h.ctx, claims.UserID)
	if err != nil {
		respondServiceError(h.logger, c, "Failed to get profile", err)
		return
	}

	respondSuccess(c, http.StatusOK, "Profile retrieved successfully", user)
}
