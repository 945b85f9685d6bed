package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"
)

// InvoiceService generates and maintains billing documents. A job card gets
// at most one invoice, enforced by the conditional invoiceID claim on the job
// card row; everything before the claim is an early exit, not the guard.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepositoryInterface
	jobCardRepo repository.JobCardRepositoryInterface
	catalog     *LifecycleCatalog
	logger      logger.Logger
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepositoryInterface, jobCardRepo repository.JobCardRepositoryInterface, catalog *LifecycleCatalog, log logger.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		jobCardRepo: jobCardRepo,
		catalog:     catalog,
		logger:      log,
	}
}

// GenerateInvoice bills a finished job card. The job must have reached the
// stage named "completed" or a later one; line items are snapshotted from the
// job's services at this moment and never re-read afterwards.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, orgID, jobCardID string, req *models.GenerateInvoiceRequest, actor string) (*models.Invoice, error) {
	job, err := s.jobCardRepo.GetJobCard(ctx, jobCardID)
	if err != nil {
		return nil, err
	}
	if job.OrgID != orgID {
		return nil, fmt.Errorf("job card %s: %w", jobCardID, models.ErrNotFound)
	}

	stages := s.catalog.EffectiveStages(ctx, job.Services)
	if !invoiceEligible(stages, job.Stage) {
		return nil, fmt.Errorf("job card %s at stage %q has not completed: %w", jobCardID, job.Stage, models.ErrInvalidTransition)
	}

	if job.InvoiceID != "" {
		return s.resumeClaimedInvoice(ctx, job, req, actor)
	}

	invoiceID := utils.GenerateUUID()
	if err := s.jobCardRepo.ClaimInvoice(ctx, jobCardID, invoiceID); err != nil {
		return nil, err
	}

	return s.writeInvoice(ctx, job, req, invoiceID, actor)
}

// resumeClaimedInvoice handles a job card whose invoiceID is already set. A
// claimed id with a present invoice row is a genuine duplicate; a claimed id
// with a missing row means a previous generation crashed between the claim
// and the invoice write, so the invoice is created under the claimed id,
// mirroring how booking confirmation recreates a missing job card.
func (s *InvoiceService) resumeClaimedInvoice(ctx context.Context, job *models.JobCard, req *models.GenerateInvoiceRequest, actor string) (*models.Invoice, error) {
	_, err := s.invoiceRepo.GetInvoice(ctx, job.InvoiceID)
	if err == nil {
		return nil, fmt.Errorf("job card %s: %w", job.JobCardID, models.ErrAlreadyInvoiced)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	s.logger.Warnf("Job card %s claims missing invoice %s, recreating", job.JobCardID, job.InvoiceID)
	return s.writeInvoice(ctx, job, req, job.InvoiceID, actor)
}

// writeInvoice snapshots the job's services into a new invoice row under the
// given id, which the caller has already claimed onto the job card.
func (s *InvoiceService) writeInvoice(ctx context.Context, job *models.JobCard, req *models.GenerateInvoiceRequest, invoiceID, actor string) (*models.Invoice, error) {
	number, err := s.uniqueInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.InvoiceItem, 0, len(job.Services))
	subtotal := 0.0
	for _, svc := range job.Services {
		items = append(items, models.InvoiceItem{Name: svc.Name, Price: svc.Price})
		subtotal += svc.Price
	}

	invoice := &models.Invoice{
		InvoiceID:     invoiceID,
		OrgID:         job.OrgID,
		CustomerID:    job.CustomerID,
		BookingID:     job.BookingID,
		JobCardID:     job.JobCardID,
		InvoiceNumber: number,
		Items:         items,
		Subtotal:      subtotal,
		TaxAmount:     req.TaxAmount,
		Discount:      req.Discount,
		TotalAmount:   subtotal - req.Discount + req.TaxAmount,
		CreatedBy:     actor,
	}
	if _, err := s.invoiceRepo.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Infof("Invoice %s generated for job card %s, total %.2f", number, job.JobCardID, invoice.TotalAmount)
	return invoice, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, orgID, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.OrgID != orgID {
		return nil, fmt.Errorf("invoice %s: %w", id, models.ErrNotFound)
	}
	return invoice, nil
}

func (s *InvoiceService) GetInvoices(ctx context.Context, filter *models.InvoiceFilter) ([]*models.Invoice, error) {
	return s.invoiceRepo.GetInvoicesByFilter(ctx, filter)
}

// UpdateItems replaces the invoice line items and recomputes totals from the
// invoice's own stored tax and discount. The job card is not consulted; the
// invoice is its own source of truth after generation.
func (s *InvoiceService) UpdateItems(ctx context.Context, orgID, id string, req *models.UpdateInvoiceItemsRequest) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, item := range req.Items {
		subtotal += item.Price
	}

	updates := map[string]interface{}{
		"items":       req.Items,
		"subtotal":    subtotal,
		"totalAmount": subtotal - invoice.Discount + invoice.TaxAmount,
	}
	if err := s.invoiceRepo.UpdateInvoice(ctx, id, updates); err != nil {
		return nil, err
	}

	invoice.Items = req.Items
	invoice.Subtotal = subtotal
	invoice.TotalAmount = subtotal - invoice.Discount + invoice.TaxAmount
	return invoice, nil
}

// RecordPayment marks the invoice paid with the given method.
func (s *InvoiceService) RecordPayment(ctx context.Context, orgID, id string, req *models.RecordPaymentRequest) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"paymentStatus": string(models.PaymentStatusPaid),
		"paymentMethod": req.PaymentMethod,
		"paidAt":        now,
	}
	if err := s.invoiceRepo.UpdateInvoice(ctx, id, updates); err != nil {
		return nil, err
	}

	invoice.PaymentStatus = models.PaymentStatusPaid
	invoice.PaymentMethod = req.PaymentMethod
	invoice.PaidAt = &now
	return invoice, nil
}

// MarkPaidByNumber settles an invoice from a payment provider callback, which
// references the human-facing invoice number rather than the id. The invoice
// is resolved and tenant-checked before anything is written, so a number
// belonging to another org reads as not found without touching the row.
func (s *InvoiceService) MarkPaidByNumber(ctx context.Context, orgID, invoiceNumber, method string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice.OrgID != orgID {
		return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, models.ErrNotFound)
	}
	return s.RecordPayment(ctx, orgID, invoice.InvoiceID, &models.RecordPaymentRequest{PaymentMethod: method})
}

// uniqueInvoiceNumber draws a timestamp-derived number and verifies it is
// unused, retrying once on collision. Two collisions in a row means the
// clock-derived space is exhausted for this instant and the operation fails.
func (s *InvoiceService) uniqueInvoiceNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		number := utils.GenerateInvoiceNumber(time.Now())
		_, err := s.invoiceRepo.GetInvoiceByNumber(ctx, number)
		if errors.Is(err, models.ErrNotFound) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
		s.logger.Warnf("Invoice number collision on %s, regenerating", number)
	}
	return "", fmt.Errorf("could not allocate a unique invoice number: %w", models.ErrConstraintViolation)
}

// invoiceEligible reports whether a stage counts as finished work: the stage
// literally named "completed", anything positioned after it, or the terminal
// stage of a list that renamed its completion stage.
func invoiceEligible(stages []string, stage string) bool {
	if stage == "" {
		return false
	}
	if stage == StageCompleted || stage == StageDelivered {
		return true
	}

	idx := StageIndex(stages, stage)
	if idx == -1 {
		return false
	}
	if completedIdx := StageIndex(stages, StageCompleted); completedIdx >= 0 {
		return idx > completedIdx
	}
	return idx == len(stages)-1
}
