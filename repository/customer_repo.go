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

type CustomerRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewCustomerRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *CustomerRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_customers"
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	now := time.Now()
	customer.CustomerID = utils.GenerateUUID()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := r.db.PutItemIfAbsent(ctx, r.tableName(), "customerID", customer); err != nil {
		r.logger.Errorf("Failed to create customer: %v", err)
		return nil, err
	}

	return customer, nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer := models.Customer{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "customerID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &customer)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer.CustomerID == "" {
		return nil, fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}

	return &customer, nil
}

// GetCustomerByPhone is the find-or-create lookup used by the booking
// webhook. Phone is only unique per tenant, so the GSI hit is re-checked
// against orgID.
func (r *CustomerRepository) GetCustomerByPhone(ctx context.Context, orgID, phone string) (*models.Customer, error) {
	var customers []*models.Customer
	err := r.db.QueryByIndex(ctx, r.tableName(), "phone-index", "phone", phone, &customers)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}

	for _, c := range customers {
		if c.OrgID == orgID {
			return c, nil
		}
	}

	return nil, fmt.Errorf("customer with phone %s: %w", phone, models.ErrNotFound)
}

func (r *CustomerRepository) GetCustomersByOrg(ctx context.Context, orgID string) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := r.db.QueryByIndex(ctx, r.tableName(), "orgID-index", "orgID", orgID, &customers)
	if err != nil {
		r.logger.Errorf("Failed to get customers for org %s: %v", orgID, err)
		return nil, err
	}
	return customers, nil
}
