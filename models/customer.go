package models

import "time"

type Customer struct {
	CustomerID string `json:"customerID" dynamodbav:"customerID" validate:"omitempty,uuid4"`
	OrgID      string `json:"orgID" dynamodbav:"orgID" validate:"required"`
	Name       string `json:"name" dynamodbav:"name" validate:"required,min=2,max=200"`
	Phone      string `json:"phone" dynamodbav:"phone" validate:"required"`
	Email      string `json:"email,omitempty" dynamodbav:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address,omitempty" dynamodbav:"address,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

type Vehicle struct {
	VehicleID     string `json:"vehicleID" dynamodbav:"vehicleID" validate:"omitempty,uuid4"`
	OrgID         string `json:"orgID" dynamodbav:"orgID" validate:"required"`
	CustomerID    string `json:"customerID" dynamodbav:"customerID" validate:"required"`
	VehicleNumber string `json:"vehicleNumber" dynamodbav:"vehicleNumber" validate:"required"`
	Make          string `json:"make,omitempty" dynamodbav:"make,omitempty"`
	Model         string `json:"model,omitempty" dynamodbav:"model,omitempty"`
	Color         string `json:"color,omitempty" dynamodbav:"color,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

type CreateCustomerRequest struct {
	OrgID   string `json:"orgID" validate:"required"`
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
}

type CreateVehicleRequest struct {
	OrgID         string `json:"orgID" validate:"required"`
	CustomerID    string `json:"customerID" validate:"required"`
	VehicleNumber string `json:"vehicleNumber" validate:"required"`
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	Color         string `json:"color,omitempty"`
}
