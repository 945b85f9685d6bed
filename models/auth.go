package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims. OrgID is the tenant scope and is
// passed explicitly into every service operation, never read ambiently.
type JWTClaims struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	OrgID    string     `json:"org_id"`
	Role     StaffRole  `json:"role"`
	Status   UserStatus `json:"status"`

	jwt.RegisteredClaims
}
