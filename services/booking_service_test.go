package services

import (
	"context"
	"errors"
	"testing"

	"washpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCustomerRepository implements the CustomerRepositoryInterface for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomerByPhone(ctx context.Context, orgID, phone string) (*models.Customer, error) {
	args := m.Called(ctx, orgID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomersByOrg(ctx context.Context, orgID string) ([]*models.Customer, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Customer), args.Error(1)
}

// MockVehicleRepository implements the VehicleRepositoryInterface for testing
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetVehicleByNumber(ctx context.Context, orgID, customerID, vehicleNumber string) (*models.Vehicle, error) {
	args := m.Called(ctx, orgID, customerID, vehicleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetVehiclesByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

// BookingServiceTestSuite defines a test suite for booking operations
type BookingServiceTestSuite struct {
	suite.Suite
	ctx              context.Context
	mockBookingRepo  *MockBookingRepository
	mockCustomerRepo *MockCustomerRepository
	mockVehicleRepo  *MockVehicleRepository
	mockServiceRepo  *MockServiceRepository
	mockJobCardRepo  *MockJobCardRepository
	service          *BookingService
}

// SetupTest runs before each test
func (suite *BookingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockBookingRepo = &MockBookingRepository{}
	suite.mockCustomerRepo = &MockCustomerRepository{}
	suite.mockVehicleRepo = &MockVehicleRepository{}
	suite.mockServiceRepo = &MockServiceRepository{}
	suite.mockJobCardRepo = &MockJobCardRepository{}

	log := newMockLogger()
	sync := NewSynchronizer(suite.mockBookingRepo, suite.mockJobCardRepo, log)
	suite.service = NewBookingService(suite.mockBookingRepo, suite.mockCustomerRepo, suite.mockVehicleRepo, suite.mockServiceRepo, sync, log)
}

// TearDownTest runs after each test
func (suite *BookingServiceTestSuite) TearDownTest() {
	suite.mockBookingRepo.AssertExpectations(suite.T())
	suite.mockCustomerRepo.AssertExpectations(suite.T())
	suite.mockVehicleRepo.AssertExpectations(suite.T())
	suite.mockServiceRepo.AssertExpectations(suite.T())
	suite.mockJobCardRepo.AssertExpectations(suite.T())
}

// TestCreateBooking tests staff booking creation
func (suite *BookingServiceTestSuite) TestCreateBooking() {
	req := &models.CreateBookingRequest{
		OrgID:      "org-1",
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		Date:       "2026-09-01",
		Time:       "10:00",
		Services:   []models.ServiceItem{{Name: "Basic Wash", Price: 25}},
	}

	suite.mockCustomerRepo.On("GetCustomer", suite.ctx, "cust-1").Return(&models.Customer{CustomerID: "cust-1", OrgID: "org-1"}, nil)
	suite.mockVehicleRepo.On("GetVehicle", suite.ctx, "veh-1").Return(&models.Vehicle{VehicleID: "veh-1", OrgID: "org-1", CustomerID: "cust-1"}, nil)
	suite.mockBookingRepo.On("CreateBooking", suite.ctx, mock.MatchedBy(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusPending && b.CreatedBy == "staff-1"
	})).Return(&models.Booking{BookingID: "booking-1", Status: models.BookingStatusPending}, nil)

	booking, err := suite.service.CreateBooking(suite.ctx, req, "staff-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BookingStatusPending, booking.Status)
}

// TestCreateBookingCustomerWrongOrg tests cross-tenant customer references
func (suite *BookingServiceTestSuite) TestCreateBookingCustomerWrongOrg() {
	req := &models.CreateBookingRequest{
		OrgID:      "org-1",
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		Date:       "2026-09-01",
		Time:       "10:00",
		Services:   []models.ServiceItem{{Name: "Basic Wash"}},
	}

	suite.mockCustomerRepo.On("GetCustomer", suite.ctx, "cust-1").Return(&models.Customer{CustomerID: "cust-1", OrgID: "org-2"}, nil)

	booking, err := suite.service.CreateBooking(suite.ctx, req, "staff-1")

	assert.Nil(suite.T(), booking)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

// TestCreateBookingVehicleBelongsToOtherCustomer tests the vehicle ownership check
func (suite *BookingServiceTestSuite) TestCreateBookingVehicleBelongsToOtherCustomer() {
	req := &models.CreateBookingRequest{
		OrgID:      "org-1",
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		Date:       "2026-09-01",
		Time:       "10:00",
		Services:   []models.ServiceItem{{Name: "Basic Wash"}},
	}

	suite.mockCustomerRepo.On("GetCustomer", suite.ctx, "cust-1").Return(&models.Customer{CustomerID: "cust-1", OrgID: "org-1"}, nil)
	suite.mockVehicleRepo.On("GetVehicle", suite.ctx, "veh-1").Return(&models.Vehicle{VehicleID: "veh-1", OrgID: "org-1", CustomerID: "cust-other"}, nil)

	booking, err := suite.service.CreateBooking(suite.ctx, req, "staff-1")

	assert.Nil(suite.T(), booking)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

// TestCancelBooking tests cancellation before a job card exists
func (suite *BookingServiceTestSuite) TestCancelBooking() {
	suite.mockBookingRepo.On("GetBooking", suite.ctx, "booking-1").Return(&models.Booking{
		BookingID: "booking-1",
		OrgID:     "org-1",
		Status:    models.BookingStatusPending,
	}, nil)
	suite.mockBookingRepo.On("UpdateBookingStatus", suite.ctx, "booking-1", models.BookingStatusCancelled, "staff-1").Return(nil)

	err := suite.service.CancelBooking(suite.ctx, "org-1", "booking-1", "staff-1")

	assert.NoError(suite.T(), err)
}

// TestCancelBookingWithJobCard tests that work underway blocks cancellation
func (suite *BookingServiceTestSuite) TestCancelBookingWithJobCard() {
	suite.mockBookingRepo.On("GetBooking", suite.ctx, "booking-1").Return(&models.Booking{
		BookingID: "booking-1",
		OrgID:     "org-1",
		Status:    models.BookingStatusConfirmed,
		JobCardID: "job-1",
	}, nil)

	err := suite.service.CancelBooking(suite.ctx, "org-1", "booking-1", "staff-1")

	assert.ErrorIs(suite.T(), err, models.ErrInvalidTransition)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCancelBookingAlreadyCancelled tests cancel idempotency
func (suite *BookingServiceTestSuite) TestCancelBookingAlreadyCancelled() {
	suite.mockBookingRepo.On("GetBooking", suite.ctx, "booking-1").Return(&models.Booking{
		BookingID: "booking-1",
		OrgID:     "org-1",
		Status:    models.BookingStatusCancelled,
	}, nil)

	err := suite.service.CancelBooking(suite.ctx, "org-1", "booking-1", "staff-1")

	assert.NoError(suite.T(), err)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestIntakeBookingExistingCustomer tests webhook intake with known customer and vehicle
func (suite *BookingServiceTestSuite) TestIntakeBookingExistingCustomer() {
	intake := &models.BookingIntake{
		CustomerName:  "Asha Rao",
		Phone:         "+911234567890",
		VehicleNumber: "KA01AB1234",
		ServiceName:   "Basic Wash",
		Date:          "2026-09-01",
		Time:          "10:00",
	}

	suite.mockCustomerRepo.On("GetCustomerByPhone", suite.ctx, "org-1", "+911234567890").Return(&models.Customer{CustomerID: "cust-1", OrgID: "org-1"}, nil)
	suite.mockVehicleRepo.On("GetVehicleByNumber", suite.ctx, "org-1", "cust-1", "KA01AB1234").Return(&models.Vehicle{VehicleID: "veh-1"}, nil)
	suite.mockServiceRepo.On("GetServicesByOrg", suite.ctx, "org-1").Return([]*models.Service{
		{ServiceID: "svc-1", Name: "Basic Wash", Price: 25},
	}, nil)
	suite.mockBookingRepo.On("CreateBooking", suite.ctx, mock.MatchedBy(func(b *models.Booking) bool {
		return b.CreatedBy == "webhook" &&
			b.Status == models.BookingStatusPending &&
			len(b.Services) == 1 &&
			b.Services[0].ServiceID == "svc-1" &&
			b.Services[0].Price == 25
	})).Return(&models.Booking{BookingID: "booking-1"}, nil)

	booking, err := suite.service.IntakeBooking(suite.ctx, "org-1", intake)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), booking)
}

// TestIntakeBookingCreatesCustomerAndVehicle tests first-contact intake
func (suite *BookingServiceTestSuite) TestIntakeBookingCreatesCustomerAndVehicle() {
	intake := &models.BookingIntake{
		CustomerName:  "Asha Rao",
		Phone:         "+911234567890",
		VehicleNumber: "KA01AB1234",
		VehicleMake:   "Honda",
		ServiceName:   "Basic Wash",
		Date:          "2026-09-01",
		Time:          "10:00",
	}

	suite.mockCustomerRepo.On("GetCustomerByPhone", suite.ctx, "org-1", "+911234567890").Return(nil, models.ErrNotFound)
	suite.mockCustomerRepo.On("CreateCustomer", suite.ctx, mock.MatchedBy(func(c *models.Customer) bool {
		return c.OrgID == "org-1" && c.Name == "Asha Rao" && c.Phone == "+911234567890"
	})).Return(&models.Customer{CustomerID: "cust-new", OrgID: "org-1"}, nil)
	suite.mockVehicleRepo.On("GetVehicleByNumber", suite.ctx, "org-1", "cust-new", "KA01AB1234").Return(nil, models.ErrNotFound)
	suite.mockVehicleRepo.On("CreateVehicle", suite.ctx, mock.MatchedBy(func(v *models.Vehicle) bool {
		return v.CustomerID == "cust-new" && v.VehicleNumber == "KA01AB1234" && v.Make == "Honda"
	})).Return(&models.Vehicle{VehicleID: "veh-new"}, nil)
	suite.mockServiceRepo.On("GetServicesByOrg", suite.ctx, "org-1").Return([]*models.Service{}, nil)
	suite.mockBookingRepo.On("CreateBooking", suite.ctx, mock.MatchedBy(func(b *models.Booking) bool {
		// Unmatched service name still books as a free-text zero-price item.
		return b.Services[0].ServiceID == "" && b.Services[0].Name == "Basic Wash" && b.Services[0].Price == 0
	})).Return(&models.Booking{BookingID: "booking-1"}, nil)

	booking, err := suite.service.IntakeBooking(suite.ctx, "org-1", intake)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), booking)
}

// TestIntakeBookingCustomerLookupError tests that hard lookup failures abort intake
func (suite *BookingServiceTestSuite) TestIntakeBookingCustomerLookupError() {
	intake := &models.BookingIntake{
		CustomerName:  "Asha Rao",
		Phone:         "+911234567890",
		VehicleNumber: "KA01AB1234",
		ServiceName:   "Basic Wash",
		Date:          "2026-09-01",
		Time:          "10:00",
	}

	suite.mockCustomerRepo.On("GetCustomerByPhone", suite.ctx, "org-1", "+911234567890").Return(nil, errors.New("throttled"))

	booking, err := suite.service.IntakeBooking(suite.ctx, "org-1", intake)

	assert.Nil(suite.T(), booking)
	assert.Error(suite.T(), err)
}

// TestResolveServiceItemSubstringMatch tests fuzzy catalog matching
func (suite *BookingServiceTestSuite) TestResolveServiceItemSubstringMatch() {
	suite.mockServiceRepo.On("GetServicesByOrg", suite.ctx, "org-1").Return([]*models.Service{
		{ServiceID: "svc-1", Name: "Premium Foam Wash", Price: 45},
	}, nil)

	item, err := suite.service.resolveServiceItem(suite.ctx, "org-1", "foam wash")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "svc-1", item.ServiceID)
	assert.Equal(suite.T(), 45.0, item.Price)
}

// TestResolveServiceItemExactBeatsSubstring tests match precedence
func (suite *BookingServiceTestSuite) TestResolveServiceItemExactBeatsSubstring() {
	suite.mockServiceRepo.On("GetServicesByOrg", suite.ctx, "org-1").Return([]*models.Service{
		{ServiceID: "svc-1", Name: "Wash Plus", Price: 45},
		{ServiceID: "svc-2", Name: "Wash", Price: 25},
	}, nil)

	item, err := suite.service.resolveServiceItem(suite.ctx, "org-1", "WASH")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "svc-2", item.ServiceID)
}

// Run the test suite
func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}
