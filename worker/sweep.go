package worker

import (
	"context"
	"time"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/services"
	"washpro-backend/utils/logger"
)

// ConsistencySweep walks every job card with a backing booking and checks
// that the booking status matches what the stage mapping says it should be.
// The sweep is detection only: divergence is logged for operators, never
// auto-repaired, since a repair racing a live stage move could undo a valid
// write.
type ConsistencySweep struct {
	bookingRepo repository.BookingRepositoryInterface
	jobCardRepo repository.JobCardRepositoryInterface
	catalog     *services.LifecycleCatalog
	logger      logger.Logger
}

func NewConsistencySweep(bookingRepo repository.BookingRepositoryInterface, jobCardRepo repository.JobCardRepositoryInterface, catalog *services.LifecycleCatalog, log logger.Logger) *ConsistencySweep {
	return &ConsistencySweep{
		bookingRepo: bookingRepo,
		jobCardRepo: jobCardRepo,
		catalog:     catalog,
		logger:      log,
	}
}

// Run performs one sweep over all job cards.
func (s *ConsistencySweep) Run(ctx context.Context) *models.SweepResult {
	result := &models.SweepResult{StartTime: time.Now()}
	defer func() {
		result.Duration = time.Since(result.StartTime)
	}()

	jobs, err := s.jobCardRepo.GetJobCardsByFilter(ctx, &models.JobCardFilter{})
	if err != nil {
		s.logger.Errorf("Consistency sweep failed to list job cards: %v", err)
		result.ErrorMessage = err.Error()
		return result
	}

	for _, job := range jobs {
		if job.BookingID == "" {
			continue
		}
		result.JobCardsChecked++

		booking, err := s.bookingRepo.GetBooking(ctx, job.BookingID)
		if err != nil {
			s.logger.Warnf("Sweep: job card %s references unreadable booking %s: %v", job.JobCardID, job.BookingID, err)
			result.Divergent = append(result.Divergent, job.BookingID)
			continue
		}

		// Cancelled bookings are outside the sync flow.
		if booking.Status == models.BookingStatusCancelled {
			continue
		}

		stages := s.catalog.EffectiveStages(ctx, job.Services)
		expected := services.BookingStatusForStage(stages, job.Stage)
		if booking.Status != expected {
			s.logger.Warnf("Sweep: booking %s has status %s, expected %s from job card %s stage %q",
				booking.BookingID, booking.Status, expected, job.JobCardID, job.Stage)
			result.Divergent = append(result.Divergent, booking.BookingID)
		}
	}

	s.logger.Infof("Consistency sweep finished: %d job cards checked, %d divergent, took %s",
		result.JobCardsChecked, len(result.Divergent), time.Since(result.StartTime))
	return result
}
