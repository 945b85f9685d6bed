package services

import (
	"context"
	"fmt"
	"strings"

	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/utils/logger"
)

// CatalogService manages the per-org service catalog, including the custom
// lifecycle lists that override the default stage pipeline.
type CatalogService struct {
	serviceRepo repository.ServiceRepositoryInterface
	logger      logger.Logger
}

func NewCatalogService(serviceRepo repository.ServiceRepositoryInterface, log logger.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		logger:      log,
	}
}

func (s *CatalogService) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error) {
	stages, err := normalizeStages(req.LifecycleStages)
	if err != nil {
		return nil, err
	}

	service := &models.Service{
		OrgID:           req.OrgID,
		Name:            strings.TrimSpace(req.Name),
		Price:           req.Price,
		Duration:        req.Duration,
		LifecycleStages: stages,
	}
	return s.serviceRepo.CreateService(ctx, service)
}

func (s *CatalogService) GetService(ctx context.Context, orgID, id string) (*models.Service, error) {
	service, err := s.serviceRepo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if service.OrgID != orgID {
		return nil, fmt.Errorf("service %s: %w", id, models.ErrNotFound)
	}
	return service, nil
}

func (s *CatalogService) GetServices(ctx context.Context, orgID string) ([]*models.Service, error) {
	return s.serviceRepo.GetServicesByOrg(ctx, orgID)
}

// UpdateService edits a catalog entry. Changing LifecycleStages does not
// touch jobs already in flight; they resolve the new list on their next stage
// move, and a now-unknown current stage restarts from the first stage.
func (s *CatalogService) UpdateService(ctx context.Context, orgID, id string, req *models.UpdateServiceRequest) (*models.Service, error) {
	if _, err := s.GetService(ctx, orgID, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.LifecycleStages != nil {
		stages, err := normalizeStages(req.LifecycleStages)
		if err != nil {
			return nil, err
		}
		updates["lifecycleStages"] = stages
		s.logger.Warnf("Service %s lifecycle changed to %v, in-flight jobs resolve it on next move", id, stages)
	}

	if err := s.serviceRepo.UpdateService(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.serviceRepo.GetService(ctx, id)
}

func (s *CatalogService) DeleteService(ctx context.Context, orgID, id string) error {
	if _, err := s.GetService(ctx, orgID, id); err != nil {
		return err
	}
	return s.serviceRepo.DeleteService(ctx, id)
}

// normalizeStages trims entries and rejects blanks and duplicates. An empty
// list is valid and means "use the default pipeline".
func normalizeStages(stages []string) ([]string, error) {
	if len(stages) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(stages))
	out := make([]string, 0, len(stages))
	for _, raw := range stages {
		stage := strings.TrimSpace(raw)
		if stage == "" {
			return nil, fmt.Errorf("lifecycle stage names must not be blank: %w", models.ErrInvalidStage)
		}
		if seen[stage] {
			return nil, fmt.Errorf("duplicate lifecycle stage %q: %w", stage, models.ErrInvalidStage)
		}
		seen[stage] = true
		out = append(out, stage)
	}
	return out, nil
}
