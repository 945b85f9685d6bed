package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"washpro-backend/dal"
	"washpro-backend/models"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"
)

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_users"
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := r.GetUserByUsername(ctx, user.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s: %w", user.Username, models.ErrAlreadyExists)
	}

	now := time.Now()
	user.ID = utils.GenerateUUID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if err := r.db.PutItemIfAbsent(ctx, r.tableName(), "id", user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("Staff account created: %s", user.ID)
	return user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}

	return &user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "username-index",
		KeyName:   "username",
		KeyValue:  username,
		KeyType:   models.StringType,
	}, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	if user.ID == "" {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}

	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at": now,
		"updated_at":    now,
	}
	return r.db.UpdateItem(ctx, r.tableName(), "id", id, updates)
}
