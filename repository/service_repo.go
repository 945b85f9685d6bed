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

type ServiceRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewServiceRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ServiceRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_services"
}

func (r *ServiceRepository) CreateService(ctx context.Context, service *models.Service) (*models.Service, error) {
	now := time.Now()
	service.ServiceID = utils.GenerateUUID()
	service.CreatedAt = now
	service.UpdatedAt = now

	if err := r.db.PutItemIfAbsent(ctx, r.tableName(), "serviceID", service); err != nil {
		r.logger.Errorf("Failed to create service: %v", err)
		return nil, err
	}

	return service, nil
}

func (r *ServiceRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	service := models.Service{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "serviceID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &service)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ServiceID == "" {
		return nil, fmt.Errorf("service %s: %w", id, models.ErrNotFound)
	}

	return &service, nil
}

func (r *ServiceRepository) GetServicesByOrg(ctx context.Context, orgID string) ([]*models.Service, error) {
	var services []*models.Service
	err := r.db.QueryByIndex(ctx, r.tableName(), "orgID-index", "orgID", orgID, &services)
	if err != nil {
		r.logger.Errorf("Failed to get services for org %s: %v", orgID, err)
		return nil, err
	}
	return services, nil
}

func (r *ServiceRepository) UpdateService(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	if err := r.db.UpdateItem(ctx, r.tableName(), "serviceID", id, updates); err != nil {
		r.logger.Errorf("Failed to update service %s: %v", id, err)
		return err
	}

	return nil
}

func (r *ServiceRepository) DeleteService(ctx context.Context, id string) error {
	if err := r.db.DeleteItem(ctx, r.tableName(), "serviceID", id); err != nil {
		r.logger.Errorf("Failed to delete service %s: %v", id, err)
		return err
	}
	return nil
}
