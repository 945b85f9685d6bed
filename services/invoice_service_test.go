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

// MockInvoiceRepository implements the InvoiceRepositoryInterface for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoiceByJobCard(ctx context.Context, jobCardID string) (*models.Invoice, error) {
	args := m.Called(ctx, jobCardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetInvoicesByFilter(ctx context.Context, filter *models.InvoiceFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, id string, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

// InvoiceServiceTestSuite defines a test suite for invoice generation
type InvoiceServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	mockInvoiceRepo *MockInvoiceRepository
	mockJobCardRepo *MockJobCardRepository
	mockServiceRepo *MockServiceRepository
	service         *InvoiceService
}

// SetupTest runs before each test
func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockInvoiceRepo = &MockInvoiceRepository{}
	suite.mockJobCardRepo = &MockJobCardRepository{}
	suite.mockServiceRepo = &MockServiceRepository{}

	log := newMockLogger()
	catalog := NewLifecycleCatalog(suite.mockServiceRepo, log)
	suite.service = NewInvoiceService(suite.mockInvoiceRepo, suite.mockJobCardRepo, catalog, log)
}

// TearDownTest runs after each test
func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockJobCardRepo.AssertExpectations(suite.T())
	suite.mockServiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) completedJob() *models.JobCard {
	return &models.JobCard{
		JobCardID:  "job-1",
		OrgID:      "org-1",
		CustomerID: "cust-1",
		BookingID:  "booking-1",
		Stage:      "completed",
		Services: []models.ServiceItem{
			{Name: "Basic Wash", Price: 25},
			{Name: "Interior Detail", Price: 75},
		},
	}
}

// TestGenerateInvoice tests the happy path with snapshot and totals
func (suite *InvoiceServiceTestSuite) TestGenerateInvoice() {
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(suite.completedJob(), nil)
	suite.mockJobCardRepo.On("ClaimInvoice", suite.ctx, "job-1", mock.AnythingOfType("string")).Return(nil)
	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, mock.AnythingOfType("string")).Return(nil, models.ErrNotFound)
	suite.mockInvoiceRepo.On("CreateInvoice", suite.ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.InvoiceID != "" &&
			inv.JobCardID == "job-1" &&
			inv.BookingID == "booking-1" &&
			len(inv.Items) == 2 &&
			inv.Subtotal == 100 &&
			inv.TotalAmount == 108 // 100 - 10 discount + 18 tax
	})).Return(&models.Invoice{InvoiceID: "inv-1"}, nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{
		TaxAmount: 18,
		Discount:  10,
	}, "staff-1")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), invoice)
	assert.Equal(suite.T(), 100.0, invoice.Subtotal)
	assert.Equal(suite.T(), 108.0, invoice.TotalAmount)
	assert.Contains(suite.T(), invoice.InvoiceNumber, "INV-")
}

// TestGenerateInvoiceNotCompleted tests rejection before the completed stage
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceNotCompleted() {
	job := suite.completedJob()
	job.Stage = "qc"
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(job, nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidTransition)
	suite.mockJobCardRepo.AssertNotCalled(suite.T(), "ClaimInvoice", mock.Anything, mock.Anything, mock.Anything)
}

// TestGenerateInvoiceAlreadyInvoiced tests the duplicate exit when the
// claimed invoice row exists
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceAlreadyInvoiced() {
	job := suite.completedJob()
	job.InvoiceID = "inv-existing"
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(job, nil)
	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-existing").Return(&models.Invoice{InvoiceID: "inv-existing", OrgID: "org-1"}, nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrAlreadyInvoiced)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything)
}

// TestGenerateInvoiceResumesOrphanedClaim tests recovery when a previous
// generation claimed the invoice id but crashed before writing the invoice
// row. The retry must create the invoice under the claimed id instead of
// treating the job as already invoiced.
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceResumesOrphanedClaim() {
	job := suite.completedJob()
	job.InvoiceID = "inv-claimed"
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(job, nil)
	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-claimed").Return(nil, models.ErrNotFound)
	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, mock.AnythingOfType("string")).Return(nil, models.ErrNotFound)
	suite.mockInvoiceRepo.On("CreateInvoice", suite.ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.InvoiceID == "inv-claimed" &&
			inv.JobCardID == "job-1" &&
			inv.Subtotal == 100 &&
			inv.TotalAmount == 108
	})).Return(&models.Invoice{InvoiceID: "inv-claimed"}, nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{
		TaxAmount: 18,
		Discount:  10,
	}, "staff-1")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), invoice)
	assert.Equal(suite.T(), "inv-claimed", invoice.InvoiceID)
	suite.mockJobCardRepo.AssertNotCalled(suite.T(), "ClaimInvoice", mock.Anything, mock.Anything, mock.Anything)
}

// TestGenerateInvoiceClaimLookupError tests that a store failure during the
// claimed-invoice lookup surfaces instead of masquerading as a duplicate
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceClaimLookupError() {
	job := suite.completedJob()
	job.InvoiceID = "inv-claimed"
	storeErr := errors.New("dynamodb unavailable")
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(job, nil)
	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-claimed").Return(nil, storeErr)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, storeErr)
	assert.NotErrorIs(suite.T(), err, models.ErrAlreadyInvoiced)
}

// TestGenerateInvoiceLostClaim tests that losing the conditional claim surfaces
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceLostClaim() {
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(suite.completedJob(), nil)
	suite.mockJobCardRepo.On("ClaimInvoice", suite.ctx, "job-1", mock.AnythingOfType("string")).Return(models.ErrAlreadyInvoiced)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrAlreadyInvoiced)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything)
}

// TestGenerateInvoiceWrongOrg tests cross-tenant generation looks like not found
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceWrongOrg() {
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(suite.completedJob(), nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-2", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

// TestGenerateInvoiceNumberCollision tests the single regeneration retry
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceNumberCollision() {
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(suite.completedJob(), nil)
	suite.mockJobCardRepo.On("ClaimInvoice", suite.ctx, "job-1", mock.AnythingOfType("string")).Return(nil)
	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, mock.AnythingOfType("string")).Return(&models.Invoice{InvoiceID: "inv-other"}, nil).Once()
	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, mock.AnythingOfType("string")).Return(nil, models.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", suite.ctx, mock.Anything).Return(&models.Invoice{InvoiceID: "inv-1"}, nil)

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), invoice)
}

// TestGenerateInvoiceNumberExhausted tests two collisions in a row failing hard
func (suite *InvoiceServiceTestSuite) TestGenerateInvoiceNumberExhausted() {
	suite.mockJobCardRepo.On("GetJobCard", suite.ctx, "job-1").Return(suite.completedJob(), nil)
	suite.mockJobCardRepo.On("ClaimInvoice", suite.ctx, "job-1", mock.AnythingOfType("string")).Return(nil)
	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, mock.AnythingOfType("string")).Return(&models.Invoice{InvoiceID: "inv-other"}, nil).Twice()

	invoice, err := suite.service.GenerateInvoice(suite.ctx, "org-1", "job-1", &models.GenerateInvoiceRequest{}, "staff-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrConstraintViolation)
}

// TestUpdateItems tests recomputation from the invoice's own stored tax and discount
func (suite *InvoiceServiceTestSuite) TestUpdateItems() {
	stored := &models.Invoice{
		InvoiceID: "inv-1",
		OrgID:     "org-1",
		Items:     []models.InvoiceItem{{Name: "Basic Wash", Price: 25}},
		Subtotal:  25,
		TaxAmount: 5,
		Discount:  2,
	}

	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-1").Return(stored, nil)
	suite.mockInvoiceRepo.On("UpdateInvoice", suite.ctx, "inv-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["subtotal"] == 120.0 && u["totalAmount"] == 123.0 // 120 - 2 + 5
	})).Return(nil)

	invoice, err := suite.service.UpdateItems(suite.ctx, "org-1", "inv-1", &models.UpdateInvoiceItemsRequest{
		Items: []models.InvoiceItem{
			{Name: "Basic Wash", Price: 25},
			{Name: "Ceramic Coat", Price: 95},
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, invoice.Subtotal)
	assert.Equal(suite.T(), 123.0, invoice.TotalAmount)
	assert.Len(suite.T(), invoice.Items, 2)
}

// TestRecordPayment tests settling an invoice
func (suite *InvoiceServiceTestSuite) TestRecordPayment() {
	stored := &models.Invoice{InvoiceID: "inv-1", OrgID: "org-1"}

	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-1").Return(stored, nil)
	suite.mockInvoiceRepo.On("UpdateInvoice", suite.ctx, "inv-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasPaidAt := u["paidAt"]
		return u["paymentStatus"] == "paid" && u["paymentMethod"] == "card" && hasPaidAt
	})).Return(nil)

	invoice, err := suite.service.RecordPayment(suite.ctx, "org-1", "inv-1", &models.RecordPaymentRequest{PaymentMethod: "card"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PaymentStatusPaid, invoice.PaymentStatus)
	assert.Equal(suite.T(), "card", invoice.PaymentMethod)
	assert.NotNil(suite.T(), invoice.PaidAt)
}

// TestMarkPaidByNumber tests settlement from the payment webhook path
func (suite *InvoiceServiceTestSuite) TestMarkPaidByNumber() {
	stored := &models.Invoice{InvoiceID: "inv-1", OrgID: "org-1", InvoiceNumber: "INV-2026-000123"}

	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, "INV-2026-000123").Return(stored, nil)
	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-1").Return(stored, nil)
	suite.mockInvoiceRepo.On("UpdateInvoice", suite.ctx, "inv-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["paymentMethod"] == "online"
	})).Return(nil)

	invoice, err := suite.service.MarkPaidByNumber(suite.ctx, "org-1", "INV-2026-000123", "online")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PaymentStatusPaid, invoice.PaymentStatus)
}

// TestMarkPaidByNumberWrongOrg tests that an invoice number belonging to
// another org reads as not found and the invoice row is never written
func (suite *InvoiceServiceTestSuite) TestMarkPaidByNumberWrongOrg() {
	stored := &models.Invoice{InvoiceID: "inv-1", OrgID: "org-other", InvoiceNumber: "INV-2026-000123"}

	suite.mockInvoiceRepo.On("GetInvoiceByNumber", suite.ctx, "INV-2026-000123").Return(stored, nil)

	invoice, err := suite.service.MarkPaidByNumber(suite.ctx, "org-1", "INV-2026-000123", "online")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetInvoiceWrongOrg tests tenant scoping on reads
func (suite *InvoiceServiceTestSuite) TestGetInvoiceWrongOrg() {
	suite.mockInvoiceRepo.On("GetInvoice", suite.ctx, "inv-1").Return(&models.Invoice{InvoiceID: "inv-1", OrgID: "org-2"}, nil)

	invoice, err := suite.service.GetInvoice(suite.ctx, "org-1", "inv-1")

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

// Run the test suite
func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

// Standalone tests for the eligibility rule

func TestInvoiceEligible(t *testing.T) {
	renamed := []string{"intake", "wash", "handover"}
	extended := []string{"intake", "wash", "completed", "pickup", "archived"}

	testCases := []struct {
		name     string
		stages   []string
		stage    string
		expected bool
	}{
		{"Not checked in", DefaultLifecycleStages, "", false},
		{"Mid pipeline", DefaultLifecycleStages, "qc", false},
		{"Literal completed", DefaultLifecycleStages, "completed", true},
		{"Literal delivered", DefaultLifecycleStages, "delivered", true},
		{"Renamed list before terminal", renamed, "wash", false},
		{"Renamed list terminal", renamed, "handover", true},
		{"Stage after completed", extended, "pickup", true},
		{"Stage before completed", extended, "wash", false},
		{"Unknown stage", renamed, "polishing", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, invoiceEligible(tc.stages, tc.stage))
		})
	}
}
