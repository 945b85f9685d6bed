package services

import (
	"context"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"
)

// DefaultLifecycleStages is the stage pipeline used when none of a job's
// services carries a custom one. Order is significant; the last entry is the
// terminal stage.
var DefaultLifecycleStages = []string{
	"check_in",
	"pre_wash",
	"foam_wash",
	"interior",
	"polishing",
	"qc",
	"completed",
	"delivered",
}

// Stage names with behavior attached to the literal name, independent of
// their position in the effective list.
const (
	StageCompleted = "completed"
	StageDelivered = "delivered"
)

// LifecycleCatalog resolves the effective stage list for a job card from its
// attached services.
type LifecycleCatalog struct {
	serviceRepo repository.ServiceRepositoryInterface
	logger      logger.Logger
}

func NewLifecycleCatalog(serviceRepo repository.ServiceRepositoryInterface, log logger.Logger) *LifecycleCatalog {
	return &LifecycleCatalog{
		serviceRepo: serviceRepo,
		logger:      log,
	}
}

// EffectiveStages returns the stage list governing a job with the given
// service items: the lifecycle of the first attached service that defines a
// non-empty one, in item order, falling back to DefaultLifecycleStages.
// Items without a catalog reference (free-text webhook services) and lookup
// failures are skipped rather than failing the whole resolution.
func (c *LifecycleCatalog) EffectiveStages(ctx context.Context, items []models.ServiceItem) []string {
	for _, item := range items {
		if item.ServiceID == "" {
			continue
		}

		service, err := c.serviceRepo.GetService(ctx, item.ServiceID)
		if err != nil {
			c.logger.Warnf("Lifecycle lookup skipped service %s: %v", item.ServiceID, err)
			continue
		}

		if len(service.LifecycleStages) > 0 {
			stages := make([]string, len(service.LifecycleStages))
			copy(stages, service.LifecycleStages)
			return stages
		}
	}

	stages := make([]string, len(DefaultLifecycleStages))
	copy(stages, DefaultLifecycleStages)
	return stages
}

// StageIndex returns the position of stage in stages, or -1 when the stage is
// empty or not in the list. -1 is the not-started position: the next advance
// goes to index 0.
func StageIndex(stages []string, stage string) int {
	if stage == "" {
		return -1
	}
	for i, s := range stages {
		if s == stage {
			return i
		}
	}
	return -1
}
