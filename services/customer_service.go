package services

import (
	"context"
	"errors"
	"fmt"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"
)

// CustomerService manages customers and their vehicles.
type CustomerService struct {
	customerRepo repository.CustomerRepositoryInterface
	vehicleRepo  repository.VehicleRepositoryInterface
	logger       logger.Logger
}

func NewCustomerService(customerRepo repository.CustomerRepositoryInterface, vehicleRepo repository.VehicleRepositoryInterface, log logger.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		logger:       log,
	}
}

// CreateCustomer registers a customer. Phone is the natural key within an
// org, so a second registration with the same phone is rejected rather than
// duplicated.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	existing, err := s.customerRepo.GetCustomerByPhone(ctx, req.OrgID, req.Phone)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("customer with phone %s: %w", req.Phone, models.ErrAlreadyExists)
	}

	return s.customerRepo.CreateCustomer(ctx, &models.Customer{
		OrgID:   req.OrgID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
}

func (s *CustomerService) GetCustomer(ctx context.Context, orgID, id string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.OrgID != orgID {
		return nil, fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}
	return customer, nil
}

func (s *CustomerService) GetCustomers(ctx context.Context, orgID string) ([]*models.Customer, error) {
	return s.customerRepo.GetCustomersByOrg(ctx, orgID)
}

// AddVehicle attaches a vehicle to a customer, rejecting duplicate plates
// within the customer's fleet.
func (s *CustomerService) AddVehicle(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error) {
	if _, err := s.GetCustomer(ctx, req.OrgID, req.CustomerID); err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.GetVehicleByNumber(ctx, req.OrgID, req.CustomerID, req.VehicleNumber)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("vehicle %s: %w", req.VehicleNumber, models.ErrAlreadyExists)
	}

	return s.vehicleRepo.CreateVehicle(ctx, &models.Vehicle{
		OrgID:         req.OrgID,
		CustomerID:    req.CustomerID,
		VehicleNumber: req.VehicleNumber,
		Make:          req.Make,
		Model:         req.Model,
		Color:         req.Color,
	})
}

func (s *CustomerService) GetVehicles(ctx context.Context, orgID, customerID string) ([]*models.Vehicle, error) {
	if _, err := s.GetCustomer(ctx, orgID, customerID); err != nil {
		return nil, err
	}
	return s.vehicleRepo.GetVehiclesByCustomer(ctx, customerID)
}
