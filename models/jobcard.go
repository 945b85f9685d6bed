package models

import "time"

// JobCard is one physical servicing engagement, optionally derived from a
// booking. Stage is an opaque identifier constrained to the effective
// lifecycle list resolved from the attached services.
type JobCard struct {
	JobCardID  string        `json:"jobCardID" dynamodbav:"jobCardID" validate:"omitempty,uuid4"`
	OrgID      string        `json:"orgID" dynamodbav:"orgID" validate:"required"`
	CustomerID string        `json:"customerID" dynamodbav:"customerID" validate:"required"`
	VehicleID  string        `json:"vehicleID" dynamodbav:"vehicleID" validate:"required"`
	BookingID  string        `json:"bookingID,omitempty" dynamodbav:"bookingID,omitempty"`
	Services   []ServiceItem `json:"services" dynamodbav:"services"`

	// Stage holds the current lifecycle stage, or "" while the job has not
	// been checked in yet (index -1).
	Stage string `json:"stage,omitempty" dynamodbav:"stage,omitempty"`

	CheckInTime  *time.Time `json:"checkInTime,omitempty" dynamodbav:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty" dynamodbav:"checkOutTime,omitempty"`

	// InvoiceID is claimed by invoice generation with a conditional update,
	// which is the at-most-one-invoice guard.
	InvoiceID string `json:"invoiceID,omitempty" dynamodbav:"invoiceID,omitempty"`

	AssignedStaffID string   `json:"assignedStaffID,omitempty" dynamodbav:"assignedStaffID,omitempty"`
	DamageNotes     string   `json:"damageNotes,omitempty" dynamodbav:"damageNotes,omitempty" validate:"omitempty,max=1000"`
	InternalNotes   string   `json:"internalNotes,omitempty" dynamodbav:"internalNotes,omitempty" validate:"omitempty,max=1000"`
	ImagesBefore    []string `json:"imagesBefore" dynamodbav:"imagesBefore"`
	ImagesAfter     []string `json:"imagesAfter" dynamodbav:"imagesAfter"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty" dynamodbav:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

// CreateJobCardRequest opens a walk-in job card with no backing booking.
type CreateJobCardRequest struct {
	OrgID           string        `json:"orgID" validate:"required"`
	CustomerID      string        `json:"customerID" validate:"required"`
	VehicleID       string        `json:"vehicleID" validate:"required"`
	Services        []ServiceItem `json:"services" validate:"required,min=1,dive"`
	AssignedStaffID string        `json:"assignedStaffID,omitempty"`
	DamageNotes     string        `json:"damageNotes,omitempty" validate:"omitempty,max=1000"`
	InternalNotes   string        `json:"internalNotes,omitempty" validate:"omitempty,max=1000"`
	ImagesBefore    []string      `json:"imagesBefore,omitempty"`
}

// UpdateJobCardRequest carries the non-stage fields staff may edit. Pointers
// distinguish "leave unchanged" from "clear".
type UpdateJobCardRequest struct {
	AssignedStaffID *string  `json:"assignedStaffID,omitempty"`
	DamageNotes     *string  `json:"damageNotes,omitempty" validate:"omitempty,max=1000"`
	InternalNotes   *string  `json:"internalNotes,omitempty" validate:"omitempty,max=1000"`
	ImagesBefore    []string `json:"imagesBefore,omitempty"`
	ImagesAfter     []string `json:"imagesAfter,omitempty"`
}

// SetStageRequest is the administrative stage override.
type SetStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type JobCardFilter struct {
	OrgID      string `json:"orgID,omitempty"`
	CustomerID string `json:"customerID,omitempty"`
	BookingID  string `json:"bookingID,omitempty"`
	Stage      string `json:"stage,omitempty"`
}
