package services

import (
	"context"

	"washpro-backend/models"
)

// BookingServiceInterface defines the contract for booking operations
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest, actor string) (*models.Booking, error)
	GetBooking(ctx context.Context, orgID, id string) (*models.Booking, error)
	GetBookings(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
	ConfirmBooking(ctx context.Context, orgID, id, actor string) (*models.JobCard, error)
	CancelBooking(ctx context.Context, orgID, id, actor string) error
	IntakeBooking(ctx context.Context, orgID string, intake *models.BookingIntake) (*models.Booking, error)
}

// JobCardServiceInterface defines the contract for job card operations
type JobCardServiceInterface interface {
	CreateWalkIn(ctx context.Context, req *models.CreateJobCardRequest, actor string) (*models.JobCard, error)
	GetJobCard(ctx context.Context, orgID, id string) (*models.JobCard, error)
	GetJobCards(ctx context.Context, filter *models.JobCardFilter) ([]*models.JobCard, error)
	BeginCheckIn(ctx context.Context, orgID, id, actor string) (*models.JobCard, error)
	Advance(ctx context.Context, orgID, id, actor string) (*models.JobCard, error)
	SetStage(ctx context.Context, orgID, id, stage, actor string) (*models.JobCard, error)
	UpdateJobCard(ctx context.Context, orgID, id string, req *models.UpdateJobCardRequest, actor string) (*models.JobCard, error)
}

// InvoiceServiceInterface defines the contract for invoice operations
type InvoiceServiceInterface interface {
	GenerateInvoice(ctx context.Context, orgID, jobCardID string, req *models.GenerateInvoiceRequest, actor string) (*models.Invoice, error)
	GetInvoice(ctx context.Context, orgID, id string) (*models.Invoice, error)
	GetInvoices(ctx context.Context, filter *models.InvoiceFilter) ([]*models.Invoice, error)
	UpdateItems(ctx context.Context, orgID, id string, req *models.UpdateInvoiceItemsRequest) (*models.Invoice, error)
	RecordPayment(ctx context.Context, orgID, id string, req *models.RecordPaymentRequest) (*models.Invoice, error)
	MarkPaidByNumber(ctx context.Context, orgID, invoiceNumber, method string) (*models.Invoice, error)
}

// CatalogServiceInterface defines the contract for service catalog operations
type CatalogServiceInterface interface {
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error)
	GetService(ctx context.Context, orgID, id string) (*models.Service, error)
	GetServices(ctx context.Context, orgID string) ([]*models.Service, error)
	UpdateService(ctx context.Context, orgID, id string, req *models.UpdateServiceRequest) (*models.Service, error)
	DeleteService(ctx context.Context, orgID, id string) error
}

// CustomerServiceInterface defines the contract for customer operations
type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, orgID, id string) (*models.Customer, error)
	GetCustomers(ctx context.Context, orgID string) ([]*models.Customer, error)
	AddVehicle(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error)
	GetVehicles(ctx context.Context, orgID, customerID string) ([]*models.Vehicle, error)
}
