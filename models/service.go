package models

import "time"

// Service is a catalog definition. LifecycleStages, when set, overrides the
// default stage pipeline for jobs that include this service.
type Service struct {
	ServiceID       string   `json:"serviceID" dynamodbav:"serviceID" validate:"omitempty,uuid4"`
	OrgID           string   `json:"orgID" dynamodbav:"orgID" validate:"required"`
	Name            string   `json:"name" dynamodbav:"name" validate:"required,min=2,max=200"`
	Price           float64  `json:"price" dynamodbav:"price" validate:"gte=0"`
	Duration        int      `json:"duration,omitempty" dynamodbav:"duration,omitempty"`
	LifecycleStages []string `json:"lifecycleStages,omitempty" dynamodbav:"lifecycleStages,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

type CreateServiceRequest struct {
	OrgID           string   `json:"orgID" validate:"required"`
	Name            string   `json:"name" validate:"required,min=2,max=200"`
	Price           float64  `json:"price" validate:"gte=0"`
	Duration        int      `json:"duration,omitempty"`
	LifecycleStages []string `json:"lifecycleStages,omitempty"`
}

type UpdateServiceRequest struct {
	Name            string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Price           *float64 `json:"price,omitempty"`
	Duration        *int     `json:"duration,omitempty"`
	LifecycleStages []string `json:"lifecycleStages,omitempty"`
}
