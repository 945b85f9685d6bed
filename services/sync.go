package services

import (
	"context"
	"errors"
	"fmt"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils"
	"washpro-backend/utils/logger"
)

// BookingStatusForStage maps a job card stage onto the coarser booking status.
// The mapping is pure: "completed" and "delivered" are matched by literal
// name, the terminal stage of any custom list also maps to completed, and
// every other non-empty stage is in_progress. An empty stage means the job
// has not been checked in, which keeps the booking at confirmed.
func BookingStatusForStage(stages []string, stage string) models.BookingStatus {
	if stage == "" {
		return models.BookingStatusConfirmed
	}
	if stage == StageCompleted || stage == StageDelivered {
		return models.BookingStatusCompleted
	}
	if idx := StageIndex(stages, stage); idx >= 0 && idx == len(stages)-1 {
		return models.BookingStatusCompleted
	}
	return models.BookingStatusInProgress
}

// Synchronizer keeps a booking's status in lockstep with its job card. The
// flow is one-directional after the initial confirm: job card mutations push
// status onto the booking, and the booking never writes back.
type Synchronizer struct {
	bookingRepo repository.BookingRepositoryInterface
	jobCardRepo repository.JobCardRepositoryInterface
	logger      logger.Logger
}

func NewSynchronizer(bookingRepo repository.BookingRepositoryInterface, jobCardRepo repository.JobCardRepositoryInterface, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		bookingRepo: bookingRepo,
		jobCardRepo: jobCardRepo,
		logger:      log,
	}
}

// SyncBookingForJob pushes the status derived from the job's current stage
// onto its backing booking. Walk-in jobs have no booking and are a no-op.
func (s *Synchronizer) SyncBookingForJob(ctx context.Context, job *models.JobCard, stages []string, actor string) error {
	if job.BookingID == "" {
		return nil
	}

	status := BookingStatusForStage(stages, job.Stage)
	if err := s.bookingRepo.UpdateBookingStatus(ctx, job.BookingID, status, actor); err != nil {
		s.logger.Errorf("Failed to sync booking %s to %s: %v", job.BookingID, status, err)
		return err
	}

	s.logger.Infof("Booking %s synced to %s (job %s stage %q)", job.BookingID, status, job.JobCardID, job.Stage)
	return nil
}

// ConfirmBooking derives a job card from a booking exactly once. The job card
// id is claimed onto the booking row first; only the claim winner creates the
// card, so two racing confirms converge on a single card and the loser gets
// the winner's card back. The new card starts not checked in, leaving the
// booking at confirmed until check-in begins.
func (s *Synchronizer) ConfirmBooking(ctx context.Context, orgID, bookingID, actor string) (*models.JobCard, error) {
	booking, err := s.bookingRepo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OrgID != orgID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %s is cancelled: %w", bookingID, models.ErrInvalidTransition)
	}

	if booking.JobCardID != "" {
		return s.existingJobCard(ctx, booking)
	}

	jobCardID := utils.GenerateUUID()
	if err := s.bookingRepo.ClaimJobCard(ctx, bookingID, jobCardID); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			booking, err = s.bookingRepo.GetBooking(ctx, bookingID)
			if err != nil {
				return nil, err
			}
			return s.existingJobCard(ctx, booking)
		}
		return nil, err
	}

	job := &models.JobCard{
		JobCardID:  jobCardID,
		OrgID:      booking.OrgID,
		CustomerID: booking.CustomerID,
		VehicleID:  booking.VehicleID,
		BookingID:  booking.BookingID,
		Services:   booking.Services,
		CreatedBy:  actor,
	}
	if _, err := s.jobCardRepo.CreateJobCard(ctx, job); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed, actor); err != nil {
		return nil, err
	}

	s.logger.Infof("Booking %s confirmed, job card %s created", bookingID, jobCardID)
	return job, nil
}

// existingJobCard resolves the card already linked to a confirmed booking. A
// claimed pointer with a missing card row means a previous confirm crashed
// between claim and create, so the card is recreated under the claimed id.
func (s *Synchronizer) existingJobCard(ctx context.Context, booking *models.Booking) (*models.JobCard, error) {
	job, err := s.jobCardRepo.GetJobCard(ctx, booking.JobCardID)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	s.logger.Warnf("Booking %s claims missing job card %s, recreating", booking.BookingID, booking.JobCardID)
	job = &models.JobCard{
		JobCardID:  booking.JobCardID,
		OrgID:      booking.OrgID,
		CustomerID: booking.CustomerID,
		VehicleID:  booking.VehicleID,
		BookingID:  booking.BookingID,
		Services:   booking.Services,
	}
	return s.jobCardRepo.CreateJobCard(ctx, job)
}
