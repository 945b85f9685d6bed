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

type BookingRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewBookingRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *BookingRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_bookings"
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	now := time.Now()
	booking.BookingID = utils.GenerateUUID()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}

	err := r.db.PutItemIfAbsent(ctx, r.tableName(), "bookingID", booking)
	if err != nil {
		r.logger.Errorf("Failed to create booking: %v", err)
		return nil, err
	}

	r.logger.Infof("Booking created: %s", booking.BookingID)
	return booking, nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("booking id is required: %w", models.ErrNotFound)
	}

	booking := models.Booking{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "bookingID",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &booking)
	if err != nil {
		r.logger.Errorf("Failed to get booking %s: %v", id, err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.BookingID == "" {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}

	return &booking, nil
}

func (r *BookingRepository) GetBookingsByFilter(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	var bookings []*models.Booking
	var err error

	if filter.OrgID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "orgID-index", "orgID", filter.OrgID, &bookings)
	} else if filter.CustomerID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "customerID-index", "customerID", filter.CustomerID, &bookings)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &bookings)
	}

	if err != nil {
		r.logger.Errorf("Failed to get bookings: %v", err)
		return nil, err
	}

	return r.applyAdditionalFilters(bookings, filter), nil
}

// UpdateBookingStatus writes the derived status. It never touches the job
// card pointer, keeping the synchronizer loop-free.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, updatedBy string) error {
	updates := map[string]interface{}{
		"status":    string(status),
		"updatedAt": time.Now(),
		"updatedBy": updatedBy,
	}

	if err := r.db.UpdateItem(ctx, r.tableName(), "bookingID", id, updates); err != nil {
		r.logger.Errorf("Failed to update booking %s status: %v", id, err)
		return err
	}

	return nil
}

// ClaimJobCard links a job card to a booking exactly once. The conditional
// update on jobCardID is the authoritative at-most-one-job-card guard; a lost
// claim surfaces as ErrAlreadyExists so the caller can short-circuit.
func (r *BookingRepository) ClaimJobCard(ctx context.Context, bookingID, jobCardID string) error {
	updates := map[string]interface{}{
		"jobCardID": jobCardID,
		"updatedAt": time.Now(),
	}

	err := r.db.ConditionalUpdateItem(ctx, r.tableName(), "bookingID", bookingID, updates,
		&dal.Condition{Field: "jobCardID", Absent: true})
	if err != nil {
		if errors.Is(err, dal.ErrConditionalCheckFailed) {
			return fmt.Errorf("booking %s already has a job card: %w", bookingID, models.ErrAlreadyExists)
		}
		r.logger.Errorf("Failed to claim job card for booking %s: %v", bookingID, err)
		return err
	}

	return nil
}

func (r *BookingRepository) applyAdditionalFilters(bookings []*models.Booking, filter *models.BookingFilter) []*models.Booking {
	if filter == nil {
		return bookings
	}

	var filtered []*models.Booking
	for _, b := range bookings {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.FromDate.IsZero() && b.CreatedAt.Before(filter.FromDate) {
			continue
		}
		if !filter.ToDate.IsZero() && b.CreatedAt.After(filter.ToDate) {
			continue
		}
		filtered = append(filtered, b)
	}

	return filtered
}
