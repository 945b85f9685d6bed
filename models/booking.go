package models

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ServiceItem is one requested service on a booking or job card. Item order is
// preserved end to end; lifecycle resolution picks the first catalog match.
type ServiceItem struct {
	ServiceID string  `json:"serviceID" dynamodbav:"serviceID"`
	Name      string  `json:"name" dynamodbav:"name" validate:"required"`
	Price     float64 `json:"price" dynamodbav:"price" validate:"gte=0"`
	Duration  int     `json:"duration,omitempty" dynamodbav:"duration,omitempty"`
}

type Booking struct {
	BookingID   string        `json:"bookingID" dynamodbav:"bookingID" validate:"omitempty,uuid4"`
	OrgID       string        `json:"orgID" dynamodbav:"orgID" validate:"required"`
	CustomerID  string        `json:"customerID" dynamodbav:"customerID" validate:"required"`
	VehicleID   string        `json:"vehicleID" dynamodbav:"vehicleID" validate:"required"`
	Date        string        `json:"date" dynamodbav:"date"`
	Time        string        `json:"time" dynamodbav:"time"`
	EndTime     string        `json:"endTime,omitempty" dynamodbav:"endTime,omitempty"`
	Services    []ServiceItem `json:"services" dynamodbav:"services"`
	Status      BookingStatus `json:"status" dynamodbav:"status" validate:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	Notes       string        `json:"notes,omitempty" dynamodbav:"notes,omitempty" validate:"omitempty,max=1000"`

	// JobCardID is the back pointer to the derived job card. It is claimed with
	// a conditional update, which is the at-most-one-job-card guard.
	JobCardID string `json:"jobCardID,omitempty" dynamodbav:"jobCardID,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty" dynamodbav:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateBookingRequest struct {
	OrgID      string        `json:"orgID" validate:"required"`
	CustomerID string        `json:"customerID" validate:"required"`
	VehicleID  string        `json:"vehicleID" validate:"required"`
	Date       string        `json:"date" validate:"required"`
	Time       string        `json:"time" validate:"required"`
	EndTime    string        `json:"endTime,omitempty"`
	Services   []ServiceItem `json:"services" validate:"required,min=1,dive"`
	Notes      string        `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BookingIntake is the loose payload accepted from the public booking
// webhook. Customer and vehicle are resolved or created by phone and plate,
// and the service is matched against the catalog by name.
type BookingIntake struct {
	CustomerName  string `json:"customerName" validate:"required,min=2,max=200"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	VehicleNumber string `json:"vehicleNumber" validate:"required"`
	VehicleMake   string `json:"vehicleMake,omitempty"`
	VehicleModel  string `json:"vehicleModel,omitempty"`
	ServiceName   string `json:"serviceName" validate:"required"`
	Date          string `json:"date" validate:"required"`
	Time          string `json:"time" validate:"required"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type BookingFilter struct {
	OrgID      string        `json:"orgID,omitempty"`
	CustomerID string        `json:"customerID,omitempty"`
	Status     BookingStatus `json:"status,omitempty"`
	FromDate   time.Time     `json:"fromDate,omitempty"`
	ToDate     time.Time     `json:"toDate,omitempty"`
}
