package repository

import (
	"context"
	"washpro-backend/models"
)

// BookingRepositoryInterface defines the contract for booking persistence
type BookingRepositoryInterface interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByFilter(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, updatedBy string) error
	ClaimJobCard(ctx context.Context, bookingID, jobCardID string) error
}

// JobCardRepositoryInterface defines the contract for job card persistence
type JobCardRepositoryInterface interface {
	CreateJobCard(ctx context.Context, job *models.JobCard) (*models.JobCard, error)
	GetJobCard(ctx context.Context, id string) (*models.JobCard, error)
	GetJobCardByBooking(ctx context.Context, bookingID string) (*models.JobCard, error)
	GetJobCardsByFilter(ctx context.Context, filter *models.JobCardFilter) ([]*models.JobCard, error)
	UpdateStage(ctx context.Context, id, fromStage string, updates map[string]interface{}) error
	UpdateJobCard(ctx context.Context, id string, updates map[string]interface{}) error
	ClaimInvoice(ctx context.Context, jobCardID, invoiceID string) error
}

// InvoiceRepositoryInterface defines the contract for invoice persistence
type InvoiceRepositoryInterface interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetInvoiceByJobCard(ctx context.Context, jobCardID string) (*models.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
	GetInvoicesByFilter(ctx context.Context, filter *models.InvoiceFilter) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, updates map[string]interface{}) error
}

// CustomerRepositoryInterface defines the contract for customer persistence
type CustomerRepositoryInterface interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetCustomerByPhone(ctx context.Context, orgID, phone string) (*models.Customer, error)
	GetCustomersByOrg(ctx context.Context, orgID string) ([]*models.Customer, error)
}

// VehicleRepositoryInterface defines the contract for vehicle persistence
type VehicleRepositoryInterface interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	GetVehicleByNumber(ctx context.Context, orgID, customerID, vehicleNumber string) (*models.Vehicle, error)
	GetVehiclesByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error)
}

// ServiceRepositoryInterface defines the contract for service catalog persistence
type ServiceRepositoryInterface interface {
	CreateService(ctx context.Context, service *models.Service) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetServicesByOrg(ctx context.Context, orgID string) ([]*models.Service, error)
	UpdateService(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteService(ctx context.Context, id string) error
}

// UserRepositoryInterface defines the contract for staff account persistence
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
