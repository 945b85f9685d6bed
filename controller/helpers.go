package controller

import (
	"errors"
	"net/http"
	"strings"

	"washpro-backend/models"
	"washpro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "gte":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param())
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

func respondError(c *gin.Context, code int, message, errType, details string) {
	c.JSON(code, models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	})
}

func respondValidationError(c *gin.Context, details string) {
	respondError(c, http.StatusBadRequest, "Validation failed", "ValidationError", details)
}

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
func respondServiceError(log logger.Logger, c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, message, "NotFoundError", err.Error())
	case errors.Is(err, models.ErrInvalidStage):
		respondError(c, http.StatusBadRequest, message, "ValidationError", err.Error())
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrAlreadyInvoiced),
		errors.Is(err, models.ErrConstraintViolation):
		respondError(c, http.StatusConflict, message, "ConflictError", err.Error())
	default:
		log.Error(message, err)
		respondError(c, http.StatusInternalServerError, message, "DatabaseError", err.Error())
	}
}

// requestClaims pulls the authenticated identity set by the auth middleware.
func requestClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims, exists := c.Get("jwt_claims")
	if !exists {
		respondError(c, http.StatusUnauthorized, "Authentication required", "AuthenticationError", "User not authenticated")
		return nil, false
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Invalid token claims", "TokenError", "Invalid token structure")
		return nil, false
	}

	return jwtClaims, true
}
