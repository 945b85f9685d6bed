package worker

import (
	"context"
	"fmt"
	"time"

	"washpro-backend/dal"
	"washpro-backend/infrastructure"
	"washpro-backend/models"
	"washpro-backend/utils/logger"
)

// TableSetup creates the DynamoDB tables the application needs. It is safe to
// run on every boot; existing tables are left alone.
type TableSetup struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewTableSetup(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TableSetup {
	return &TableSetup{
		db:     db,
		config: cfg,
		logger: log,
	}
}

// EnsureTables creates every configured table that does not exist yet,
// retrying transient failures per table.
func (s *TableSetup) EnsureTables(ctx context.Context, wc *models.WorkerConfig) error {
	for _, base := range s.config.Tables {
		tableName := s.config.DynamoDBTablePrefix + "_" + base

		if _, err := s.db.DescribeTable(ctx, tableName); err == nil {
			s.logger.Debugf("Table %s already exists", tableName)
			continue
		}

		if err := s.createTableWithRetry(ctx, tableName, wc); err != nil {
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}

	s.logger.Infof("All %d tables are ready", len(s.config.Tables))
	return nil
}

func (s *TableSetup) createTableWithRetry(ctx context.Context, tableName string, wc *models.WorkerConfig) error {
	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= wc.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wc.RetryDelay * time.Duration(attempt)):
			}
		}

		if lastErr = s.db.CreateTable(ctx, input); lastErr == nil {
			s.logger.Infof("Created table %s", tableName)
			return nil
		}

		// Another instance may have created it between describe and create.
		if _, err := s.db.DescribeTable(ctx, tableName); err == nil {
			s.logger.Infof("Table %s created concurrently", tableName)
			return nil
		}

		s.logger.Warnf("Create table %s attempt %d failed: %v", tableName, attempt+1, lastErr)
	}

	return lastErr
}
