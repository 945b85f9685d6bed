package models

import "time"

// StaffRole represents the role of a staff account
type StaffRole string

const (
	StaffRoleStaff   StaffRole = "staff"
	StaffRoleManager StaffRole = "manager"
	StaffRoleAdmin   StaffRole = "admin"
)

// UserStatus represents the status of a staff account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusDisabled UserStatus = "disabled"
)

// User represents a staff account
type User struct {
	ID           string     `json:"id" dynamodbav:"id"`
	OrgID        string     `json:"org_id" dynamodbav:"org_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	Username     string     `json:"username" dynamodbav:"username"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	FullName     string     `json:"full_name" dynamodbav:"full_name"`
	Phone        string     `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Department   string     `json:"department,omitempty" dynamodbav:"department,omitempty"`
	Role         StaffRole  `json:"role" dynamodbav:"role"`
	Status       UserStatus `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" dynamodbav:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
}

// RegisterUser represents the request structure for staff registration
// @Description Staff registration request with account details
type RegisterUser struct {
	OrgID      string `json:"org_id" binding:"required" example:"org-123"`
	Email      string `json:"email" binding:"required,email" example:"staff@example.com"`
	Username   string `json:"username" binding:"required" example:"jane_doe"`
	Password   string `json:"password" binding:"required,min=8" example:"securePassword123"`
	FullName   string `json:"full_name" binding:"required" example:"Jane Doe"`
	Phone      string `json:"phone,omitempty" example:"+911234567890"`
	Department string `json:"department,omitempty" example:"Detailing"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and account snapshot
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
