package services

import (
	"context"
	"fmt"
	"time"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"
)

// JobCardService drives the job card state machine. Every stage write goes
// through a compare-and-swap on the observed stage, so concurrent writers
// cannot skip or repeat a stage.
type JobCardService struct {
	jobCardRepo repository.JobCardRepositoryInterface
	catalog     *LifecycleCatalog
	sync        *Synchronizer
	logger      logger.Logger
}

func NewJobCardService(jobCardRepo repository.JobCardRepositoryInterface, catalog *LifecycleCatalog, sync *Synchronizer, log logger.Logger) *JobCardService {
	return &JobCardService{
		jobCardRepo: jobCardRepo,
		catalog:     catalog,
		sync:        sync,
		logger:      log,
	}
}

// CreateWalkIn opens a job card with no backing booking. The card starts not
// checked in; check-in is a separate step so the vehicle can be recorded
// before work begins.
func (s *JobCardService) CreateWalkIn(ctx context.Context, req *models.CreateJobCardRequest, actor string) (*models.JobCard, error) {
	job := &models.JobCard{
		OrgID:           req.OrgID,
		CustomerID:      req.CustomerID,
		VehicleID:       req.VehicleID,
		Services:        req.Services,
		AssignedStaffID: req.AssignedStaffID,
		DamageNotes:     req.DamageNotes,
		InternalNotes:   req.InternalNotes,
		ImagesBefore:    req.ImagesBefore,
		CreatedBy:       actor,
	}
	return s.jobCardRepo.CreateJobCard(ctx, job)
}

func (s *JobCardService) GetJobCard(ctx context.Context, orgID, id string) (*models.JobCard, error) {
	job, err := s.jobCardRepo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.OrgID != orgID {
		return nil, fmt.Errorf("job card %s: %w", id, models.ErrNotFound)
	}
	return job, nil
}

func (s *JobCardService) GetJobCards(ctx context.Context, filter *models.JobCardFilter) ([]*models.JobCard, error) {
	return s.jobCardRepo.GetJobCardsByFilter(ctx, filter)
}

// BeginCheckIn moves a not-started job to the first stage and stamps the
// check-in time. Calling it again while the job sits at the first stage is a
// no-op, not an error; once work has moved past check-in it fails.
func (s *JobCardService) BeginCheckIn(ctx context.Context, orgID, id, actor string) (*models.JobCard, error) {
	job, err := s.GetJobCard(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	stages := s.catalog.EffectiveStages(ctx, job.Services)
	idx := StageIndex(stages, job.Stage)

	if idx == 0 {
		return job, nil
	}
	if job.Stage != "" && idx > 0 {
		return nil, fmt.Errorf("job card %s already past check-in: %w", id, models.ErrInvalidTransition)
	}

	return s.enterStage(ctx, job, stages, 0, actor)
}

// Advance moves the job to the next stage in its effective list. A stage not
// found in the list (a lifecycle edited mid-job) counts as before the start,
// so the next advance lands on the first stage. Advancing past the terminal
// stage is rejected.
func (s *JobCardService) Advance(ctx context.Context, orgID, id, actor string) (*models.JobCard, error) {
	job, err := s.GetJobCard(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	stages := s.catalog.EffectiveStages(ctx, job.Services)
	idx := StageIndex(stages, job.Stage)

	if idx == len(stages)-1 {
		return nil, fmt.Errorf("job card %s is at terminal stage %q: %w", id, job.Stage, models.ErrInvalidTransition)
	}
	if job.Stage != "" && idx == -1 {
		s.logger.Warnf("Job card %s stage %q not in effective lifecycle, restarting from %q", id, job.Stage, stages[0])
	}

	return s.enterStage(ctx, job, stages, idx+1, actor)
}

// SetStage is the administrative override. The target must belong to the
// effective list but may sit anywhere in it, including behind the current
// stage. Check-in and check-out side effects still fire based on the entered
// position.
func (s *JobCardService) SetStage(ctx context.Context, orgID, id, stage, actor string) (*models.JobCard, error) {
	job, err := s.GetJobCard(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	stages := s.catalog.EffectiveStages(ctx, job.Services)
	target := StageIndex(stages, stage)
	if target == -1 {
		return nil, fmt.Errorf("stage %q not in lifecycle %v: %w", stage, stages, models.ErrInvalidStage)
	}

	s.logger.Warnf("Job card %s stage override %q -> %q by %s", id, job.Stage, stage, actor)
	return s.enterStage(ctx, job, stages, target, actor)
}

// UpdateJobCard applies non-stage edits (assignment, notes, images).
func (s *JobCardService) UpdateJobCard(ctx context.Context, orgID, id string, req *models.UpdateJobCardRequest, actor string) (*models.JobCard, error) {
	job, err := s.GetJobCard(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updatedBy": actor}
	if req.AssignedStaffID != nil {
		updates["assignedStaffID"] = *req.AssignedStaffID
	}
	if req.DamageNotes != nil {
		updates["damageNotes"] = *req.DamageNotes
	}
	if req.InternalNotes != nil {
		updates["internalNotes"] = *req.InternalNotes
	}
	if req.ImagesBefore != nil {
		updates["imagesBefore"] = req.ImagesBefore
	}
	if req.ImagesAfter != nil {
		updates["imagesAfter"] = req.ImagesAfter
	}

	if err := s.jobCardRepo.UpdateJobCard(ctx, job.JobCardID, updates); err != nil {
		return nil, err
	}
	return s.jobCardRepo.GetJobCard(ctx, id)
}

// enterStage performs the conditional stage write, stamps check-in and
// check-out times when the entered position warrants them, and pushes the
// resulting status onto the backing booking.
func (s *JobCardService) enterStage(ctx context.Context, job *models.JobCard, stages []string, target int, actor string) (*models.JobCard, error) {
	now := time.Now()
	stage := stages[target]

	updates := map[string]interface{}{
		"stage":     stage,
		"updatedBy": actor,
	}
	if target == 0 && job.CheckInTime == nil {
		updates["checkInTime"] = now
	}
	if target == len(stages)-1 && job.CheckOutTime == nil {
		updates["checkOutTime"] = now
	}

	if err := s.jobCardRepo.UpdateStage(ctx, job.JobCardID, job.Stage, updates); err != nil {
		return nil, err
	}

	job.Stage = stage
	job.UpdatedAt = now
	job.UpdatedBy = actor
	if target == 0 && job.CheckInTime == nil {
		job.CheckInTime = &now
	}
	if target == len(stages)-1 && job.CheckOutTime == nil {
		job.CheckOutTime = &now
	}

	if err := s.sync.SyncBookingForJob(ctx, job, stages, actor); err != nil {
		return nil, err
	}

	s.logger.Infof("Job card %s entered stage %q (%d/%d)", job.JobCardID, stage, target+1, len(stages))
	return job, nil
}
