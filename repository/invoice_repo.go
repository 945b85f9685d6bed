package repository

import (
	"context"
	"fmt"
	"time"
	"washpro-backend/dal"
	"washpro-backend/models"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"
)

type InvoiceRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewInvoiceRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *InvoiceRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_invoices"
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	now := time.Now()
	if invoice.InvoiceID == "" {
		invoice.InvoiceID = utils.GenerateUUID()
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	if invoice.PaymentStatus == "" {
		invoice.PaymentStatus = models.PaymentStatusUnpaid
	}

	err := r.db.PutItemIfAbsent(ctx, r.tableName(), "invoiceID", invoice)
	if err != nil {
		r.logger.Errorf("Failed to create invoice: %v", err)
		return nil, err
	}

	r.logger.Infof("Invoice created: %s (%s)", invoice.InvoiceID, invoice.InvoiceNumber)
	return invoice, nil
}

func (r *InvoiceRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("invoice id is required: %w", models.ErrNotFound)
	}

	invoice := models.Invoice{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "invoiceID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &invoice)
	if err != nil {
		r.logger.Errorf("Failed to get invoice %s: %v", id, err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.InvoiceID == "" {
		return nil, fmt.Errorf("invoice %s: %w", id, models.ErrNotFound)
	}

	return &invoice, nil
}

func (r *InvoiceRepository) GetInvoiceByJobCard(ctx context.Context, jobCardID string) (*models.Invoice, error) {
	invoice := models.Invoice{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "jobCardID-index",
		KeyName:   "jobCardID",
		KeyValue:  jobCardID,
		KeyType:   models.StringType,
	}, &invoice)
	if err != nil {
		r.logger.Errorf("Failed to get invoice by job card %s: %v", jobCardID, err)
		return nil, fmt.Errorf("failed to get invoice by job card: %w", err)
	}

	if invoice.InvoiceID == "" {
		return nil, fmt.Errorf("invoice for job card %s: %w", jobCardID, models.ErrNotFound)
	}

	return &invoice, nil
}

func (r *InvoiceRepository) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	invoice := models.Invoice{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "invoiceNumber-index",
		KeyName:   "invoiceNumber",
		KeyValue:  invoiceNumber,
		KeyType:   models.StringType,
	}, &invoice)
	if err != nil {
		r.logger.Errorf("Failed to get invoice by number %s: %v", invoiceNumber, err)
		return nil, fmt.Errorf("failed to get invoice by number: %w", err)
	}

	if invoice.InvoiceID == "" {
		return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, models.ErrNotFound)
	}

	return &invoice, nil
}

func (r *InvoiceRepository) GetInvoicesByFilter(ctx context.Context, filter *models.InvoiceFilter) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	var err error

	if filter.OrgID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "orgID-index", "orgID", filter.OrgID, &invoices)
	} else if filter.CustomerID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "customerID-index", "customerID", filter.CustomerID, &invoices)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &invoices)
	}

	if err != nil {
		r.logger.Errorf("Failed to get invoices: %v", err)
		return nil, err
	}

	var filtered []*models.Invoice
	for _, inv := range invoices {
		if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
			continue
		}
		if filter.JobCardID != "" && inv.JobCardID != filter.JobCardID {
			continue
		}
		if filter.PaymentStatus != "" && inv.PaymentStatus != filter.PaymentStatus {
			continue
		}
		filtered = append(filtered, inv)
	}

	return filtered, nil
}

func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	if err := r.db.UpdateItem(ctx, r.tableName(), "invoiceID", id, updates); err != nil {
		r.logger.Errorf("Failed to update invoice %s: %v", id, err)
		return err
	}

	return nil
}
