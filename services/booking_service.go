package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"
)

// BookingService handles the booking side of the lifecycle: creation, the
// staff confirm that spawns a job card, cancellation, and the public webhook
// intake path.
type BookingService struct {
	bookingRepo  repository.BookingRepositoryInterface
	customerRepo repository.CustomerRepositoryInterface
	vehicleRepo  repository.VehicleRepositoryInterface
	serviceRepo  repository.ServiceRepositoryInterface
	sync         *Synchronizer
	logger       logger.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepositoryInterface,
	customerRepo repository.CustomerRepositoryInterface,
	vehicleRepo repository.VehicleRepositoryInterface,
	serviceRepo repository.ServiceRepositoryInterface,
	sync *Synchronizer,
	log logger.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		serviceRepo:  serviceRepo,
		sync:         sync,
		logger:       log,
	}
}

// CreateBooking records a staff-entered booking in pending status. Customer
// and vehicle must already exist within the caller's org.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, actor string) (*models.Booking, error) {
	customer, err := s.customerRepo.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.OrgID != req.OrgID {
		return nil, fmt.Errorf("customer %s: %w", req.CustomerID, models.ErrNotFound)
	}

	vehicle, err := s.vehicleRepo.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OrgID != req.OrgID || vehicle.CustomerID != req.CustomerID {
		return nil, fmt.Errorf("vehicle %s: %w", req.VehicleID, models.ErrNotFound)
	}

	booking := &models.Booking{
		OrgID:      req.OrgID,
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		Date:       req.Date,
		Time:       req.Time,
		EndTime:    req.EndTime,
		Services:   req.Services,
		Notes:      req.Notes,
		Status:     models.BookingStatusPending,
		CreatedBy:  actor,
	}
	return s.bookingRepo.CreateBooking(ctx, booking)
}

func (s *BookingService) GetBooking(ctx context.Context, orgID, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.OrgID != orgID {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	return booking, nil
}

func (s *BookingService) GetBookings(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	return s.bookingRepo.GetBookingsByFilter(ctx, filter)
}

// ConfirmBooking is the staff action that spawns the job card.
func (s *BookingService) ConfirmBooking(ctx context.Context, orgID, id, actor string) (*models.JobCard, error) {
	return s.sync.ConfirmBooking(ctx, orgID, id, actor)
}

// CancelBooking cancels a booking that has not produced a job card yet. Once
// a card exists the work is underway and the booking can no longer be
// cancelled from this side.
func (s *BookingService) CancelBooking(ctx context.Context, orgID, id, actor string) error {
	booking, err := s.GetBooking(ctx, orgID, id)
	if err != nil {
		return err
	}
	if booking.JobCardID != "" {
		return fmt.Errorf("booking %s already has job card %s: %w", id, booking.JobCardID, models.ErrInvalidTransition)
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil
	}

	return s.bookingRepo.UpdateBookingStatus(ctx, id, models.BookingStatusCancelled, actor)
}

// IntakeBooking turns a public webhook payload into a pending booking.
// Customer and vehicle are found or created (phone and plate are the natural
// keys within an org), and the requested service is matched against the
// catalog by name so the booking carries the catalog price and lifecycle.
func (s *BookingService) IntakeBooking(ctx context.Context, orgID string, intake *models.BookingIntake) (*models.Booking, error) {
	customer, err := s.customerRepo.GetCustomerByPhone(ctx, orgID, intake.Phone)
	if errors.Is(err, models.ErrNotFound) {
		customer, err = s.customerRepo.CreateCustomer(ctx, &models.Customer{
			OrgID: orgID,
			Name:  intake.CustomerName,
			Phone: intake.Phone,
			Email: intake.Email,
		})
	}
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetVehicleByNumber(ctx, orgID, customer.CustomerID, intake.VehicleNumber)
	if errors.Is(err, models.ErrNotFound) {
		vehicle, err = s.vehicleRepo.CreateVehicle(ctx, &models.Vehicle{
			OrgID:         orgID,
			CustomerID:    customer.CustomerID,
			VehicleNumber: intake.VehicleNumber,
			Make:          intake.VehicleMake,
			Model:         intake.VehicleModel,
		})
	}
	if err != nil {
		return nil, err
	}

	item, err := s.resolveServiceItem(ctx, orgID, intake.ServiceName)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		OrgID:      orgID,
		CustomerID: customer.CustomerID,
		VehicleID:  vehicle.VehicleID,
		Date:       intake.Date,
		Time:       intake.Time,
		Services:   []models.ServiceItem{item},
		Notes:      intake.Notes,
		Status:     models.BookingStatusPending,
		CreatedBy:  "webhook",
	}
	booking, err = s.bookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Webhook booking %s created for customer %s (%s)", booking.BookingID, customer.CustomerID, intake.Phone)
	return booking, nil
}

// resolveServiceItem matches a free-text service name against the org's
// catalog, exact first then substring, both case-insensitive. An unmatched
// name still books: the item is kept as free text with zero price for staff
// to fix up.
func (s *BookingService) resolveServiceItem(ctx context.Context, orgID, name string) (models.ServiceItem, error) {
	services, err := s.serviceRepo.GetServicesByOrg(ctx, orgID)
	if err != nil {
		return models.ServiceItem{}, err
	}

	wanted := strings.ToLower(strings.TrimSpace(name))
	for _, svc := range services {
		if strings.ToLower(svc.Name) == wanted {
			return serviceItemFrom(svc), nil
		}
	}
	for _, svc := range services {
		catalogName := strings.ToLower(svc.Name)
		if strings.Contains(catalogName, wanted) || strings.Contains(wanted, catalogName) {
			return serviceItemFrom(svc), nil
		}
	}

	s.logger.Warnf("Webhook service %q has no catalog match in org %s", name, orgID)
	return models.ServiceItem{Name: strings.TrimSpace(name)}, nil
}

func serviceItemFrom(svc *models.Service) models.ServiceItem {
	return models.ServiceItem{
		ServiceID: svc.ServiceID,
		Name:      svc.Name,
		Price:     svc.Price,
		Duration:  svc.Duration,
	}
}
