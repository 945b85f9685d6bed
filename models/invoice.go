package models

import "time"

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type InvoiceItem struct {
	Name  string  `json:"name" dynamodbav:"name" validate:"required"`
	Price float64 `json:"price" dynamodbav:"price" validate:"gte=0"`
}

// Invoice is the billing document derived from exactly one job card. After
// creation it is the independent source of truth for billing; edits recompute
// totals from its own stored tax and discount, never from the job card.
type Invoice struct {
	InvoiceID     string        `json:"invoiceID" dynamodbav:"invoiceID" validate:"omitempty,uuid4"`
	OrgID         string        `json:"orgID" dynamodbav:"orgID" validate:"required"`
	CustomerID    string        `json:"customerID" dynamodbav:"customerID" validate:"required"`
	BookingID     string        `json:"bookingID,omitempty" dynamodbav:"bookingID,omitempty"`
	JobCardID     string        `json:"jobCardID" dynamodbav:"jobCardID" validate:"required"`
	InvoiceNumber string        `json:"invoiceNumber" dynamodbav:"invoiceNumber"`
	Items         []InvoiceItem `json:"items" dynamodbav:"items"`
	Subtotal      float64       `json:"subtotal" dynamodbav:"subtotal"`
	TaxAmount     float64       `json:"taxAmount" dynamodbav:"taxAmount"`
	Discount      float64       `json:"discount" dynamodbav:"discount"`
	TotalAmount   float64       `json:"totalAmount" dynamodbav:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus" dynamodbav:"paymentStatus" validate:"omitempty,oneof=unpaid partial paid"`
	PaymentMethod string        `json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty" dynamodbav:"paidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty" dynamodbav:"createdBy,omitempty"`
}

type GenerateInvoiceRequest struct {
	TaxAmount float64 `json:"taxAmount,omitempty" validate:"gte=0"`
	Discount  float64 `json:"discount,omitempty" validate:"gte=0"`
}

type UpdateInvoiceItemsRequest struct {
	Items []InvoiceItem `json:"items" validate:"required,min=1,dive"`
}

type RecordPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type InvoiceFilter struct {
	OrgID         string        `json:"orgID,omitempty"`
	CustomerID    string        `json:"customerID,omitempty"`
	JobCardID     string        `json:"jobCardID,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}
