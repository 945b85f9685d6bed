package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager handles JWT token operations
type JWTManager struct {
	Config   *models.Config
	Logger   logger.Logger
	UserRepo repository.UserRepositoryInterface
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger, userRepo repository.UserRepositoryInterface) *JWTManager {
	return &JWTManager{
		Config:   cfg,
		Logger:   log,
		UserRepo: userRepo,
	}
}

// GenerateToken issues a signed token carrying the staff identity and the
// tenant scope. OrgID in the claims is what scopes every downstream query.
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		OrgID:    user.OrgID,
		Role:     user.Role,
		Status:   user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims with database
// cross-verification of the account status.
func (j *JWTManager) ValidateToken(ctx *gin.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.OrgID == "" {
		return nil, fmt.Errorf("token missing tenant scope")
	}

	if j.UserRepo != nil {
		user, err := j.UserRepo.GetUser(ctx, claims.UserID)
		if err != nil {
			j.Logger.Errorf("Failed to verify user %s in database: %v", claims.UserID, err)
			return nil, fmt.Errorf("user verification failed")
		}
		if user.Status != models.UserStatusActive {
			return nil, fmt.Errorf("user account is %s", user.Status)
		}
	}

	return claims, nil
}

// AuthMiddleware validates the Bearer token and places the claims in the
// request context.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			j.Logger.Error("Missing Authorization header")
			abortUnauthorized(c, "Missing Authorization header", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			j.Logger.Error("Invalid Authorization header format")
			abortUnauthorized(c, "Invalid Authorization header format", "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(c, strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Errorf("Token validation failed: %v", err)
			abortUnauthorized(c, "Invalid or expired token", err.Error())
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("org_id", claims.OrgID)
		c.Set("role", claims.Role)
		c.Set("jwt_claims", claims)
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
func (j *JWTManager) RequireRole(roles ...models.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("jwt_claims")
		if !exists {
			abortUnauthorized(c, "Authentication required", "User not authenticated")
			return
		}

		jwtClaims := claims.(*models.JWTClaims)
		for _, role := range roles {
			if jwtClaims.Role == role {
				c.Next()
				return
			}
		}

		j.Logger.Warnf("User %s with role %s denied, requires one of %v", jwtClaims.UserID, jwtClaims.Role, roles)
		c.JSON(http.StatusForbidden, models.APIResponse{
			Status:  "error",
			Code:    http.StatusForbidden,
			Message: "Insufficient permissions",
			Error: &models.APIError{
				Type:    "AuthorizationError",
				Details: fmt.Sprintf("Required role: %v", roles),
			},
		})
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message, details string) {
	c.JSON(http.StatusUnauthorized, models.APIResponse{
		Status:  "error",
		Code:    http.StatusUnauthorized,
		Message: message,
		Error: &models.APIError{
			Type:    "AuthenticationError",
			Details: details,
		},
	})
	c.Abort()
}
