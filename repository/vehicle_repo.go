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

type VehicleRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewVehicleRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *VehicleRepository {
	return &VehicleRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *VehicleRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_vehicles"
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	now := time.Now()
	vehicle.VehicleID = utils.GenerateUUID()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if err := r.db.PutItemIfAbsent(ctx, r.tableName(), "vehicleID", vehicle); err != nil {
		r.logger.Errorf("Failed to create vehicle: %v", err)
		return nil, err
	}

	return vehicle, nil
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle := models.Vehicle{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "vehicleID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &vehicle)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.VehicleID == "" {
		return nil, fmt.Errorf("vehicle %s: %w", id, models.ErrNotFound)
	}

	return &vehicle, nil
}

// GetVehicleByNumber resolves a plate within one customer's fleet for the
// webhook find-or-create path.
func (r *VehicleRepository) GetVehicleByNumber(ctx context.Context, orgID, customerID, vehicleNumber string) (*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	err := r.db.QueryByIndex(ctx, r.tableName(), "vehicleNumber-index", "vehicleNumber", vehicleNumber, &vehicles)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle by number: %w", err)
	}

	for _, v := range vehicles {
		if v.OrgID == orgID && v.CustomerID == customerID {
			return v, nil
		}
	}

	return nil, fmt.Errorf("vehicle %s: %w", vehicleNumber, models.ErrNotFound)
}

func (r *VehicleRepository) GetVehiclesByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	err := r.db.QueryByIndex(ctx, r.tableName(), "customerID-index", "customerID", customerID, &vehicles)
	if err != nil {
		r.logger.Errorf("Failed to get vehicles for customer %s: %v", customerID, err)
		return nil, err
	}
	return vehicles, nil
}
