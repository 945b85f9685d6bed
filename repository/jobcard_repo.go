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

type JobCardRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewJobCardRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *JobCardRepository {
	return &JobCardRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *JobCardRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_job_cards"
}

func (r *JobCardRepository) CreateJobCard(ctx context.Context, job *models.JobCard) (*models.JobCard, error) {
	now := time.Now()
	if job.JobCardID == "" {
		job.JobCardID = utils.GenerateUUID()
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.ImagesBefore == nil {
		job.ImagesBefore = []string{}
	}
	if job.ImagesAfter == nil {
		job.ImagesAfter = []string{}
	}

	err := r.db.PutItemIfAbsent(ctx, r.tableName(), "jobCardID", job)
	if err != nil {
		r.logger.Errorf("Failed to create job card: %v", err)
		return nil, err
	}

	r.logger.Infof("Job card created: %s", job.JobCardID)
	return job, nil
}

func (r *JobCardRepository) GetJobCard(ctx context.Context, id string) (*models.JobCard, error) {
	if id == "" {
		return nil, fmt.Errorf("job card id is required: %w", models.ErrNotFound)
	}

	job := models.JobCard{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "jobCardID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &job)
	if err != nil {
		r.logger.Errorf("Failed to get job card %s: %v", id, err)
		return nil, fmt.Errorf("failed to get job card: %w", err)
	}

	if job.JobCardID == "" {
		return nil, fmt.Errorf("job card %s: %w", id, models.ErrNotFound)
	}

	return &job, nil
}

// GetJobCardByBooking is the existence lookup used for the idempotent
// confirm-booking guard. A missing row returns ErrNotFound.
func (r *JobCardRepository) GetJobCardByBooking(ctx context.Context, bookingID string) (*models.JobCard, error) {
	job := models.JobCard{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "bookingID-index",
		KeyName:   "bookingID",
		KeyValue:  bookingID,
		KeyType:   models.StringType,
	}, &job)
	if err != nil {
		r.logger.Errorf("Failed to get job card by booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("failed to get job card by booking: %w", err)
	}

	if job.JobCardID == "" {
		return nil, fmt.Errorf("job card for booking %s: %w", bookingID, models.ErrNotFound)
	}

	return &job, nil
}

func (r *JobCardRepository) GetJobCardsByFilter(ctx context.Context, filter *models.JobCardFilter) ([]*models.JobCard, error) {
	var jobs []*models.JobCard
	var err error

	if filter.OrgID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "orgID-index", "orgID", filter.OrgID, &jobs)
	} else if filter.CustomerID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "customerID-index", "customerID", filter.CustomerID, &jobs)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &jobs)
	}

	if err != nil {
		r.logger.Errorf("Failed to get job cards: %v", err)
		return nil, err
	}

	var filtered []*models.JobCard
	for _, j := range jobs {
		if filter.CustomerID != "" && j.CustomerID != filter.CustomerID {
			continue
		}
		if filter.BookingID != "" && j.BookingID != filter.BookingID {
			continue
		}
		if filter.Stage != "" && j.Stage != filter.Stage {
			continue
		}
		filtered = append(filtered, j)
	}

	return filtered, nil
}

// UpdateStage moves the job card from fromStage in a single conditional
// update. An empty fromStage means the job has not been checked in yet, so the
// condition requires the stage attribute to be absent. Two racing writers can
// never both win; the loser gets ErrInvalidTransition and must re-read.
func (r *JobCardRepository) UpdateStage(ctx context.Context, id, fromStage string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	cond := &dal.Condition{Field: "stage", Equals: fromStage}
	if fromStage == "" {
		cond = &dal.Condition{Field: "stage", Absent: true}
	}

	err := r.db.ConditionalUpdateItem(ctx, r.tableName(), "jobCardID", id, updates, cond)
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			return fmt.Errorf("job card %s stage changed concurrently: %w", id, models.ErrInvalidTransition)
		}
		r.logger.Errorf("Failed to update stage for job card %s: %v", id, err)
		return err
	}

	return nil
}

// UpdateJobCard applies non-stage field updates (notes, images, assignment).
func (r *JobCardRepository) UpdateJobCard(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	if err := r.db.UpdateItem(ctx, r.tableName(), "jobCardID", id, updates); err != nil {
		r.logger.Errorf("Failed to update job card %s: %v", id, err)
		return err
	}

	return nil
}

// ClaimInvoice stamps the invoice id onto the job card exactly once. The
// conditional update on invoiceID is the authoritative at-most-one-invoice
// guard; losing it is a hard ErrAlreadyInvoiced.
func (r *JobCardRepository) ClaimInvoice(ctx context.Context, jobCardID, invoiceID string) error {
	updates := map[string]interface{}{
		"invoiceID": invoiceID,
		"updatedAt": time.Now(),
	}

	err := r.db.ConditionalUpdateItem(ctx, r.tableName(), "jobCardID", jobCardID, updates,
		&dal.Condition{Field: "invoiceID", Absent: true})
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			return fmt.Errorf("job card %s: %w", jobCardID, models.ErrAlreadyInvoiced)
		}
		r.logger.Errorf("Failed to claim invoice for job card %s: %v", jobCardID, err)
		return err
	}

	return nil
}
