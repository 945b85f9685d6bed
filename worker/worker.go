package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"washpro-backend/dal"
	"washpro-backend/models"
	"washpro-backend/repository"
	"washpro-backend/services"
	"washpro-backend/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Service is the background worker: it creates missing DynamoDB tables on
// boot (file-lock guarded so parallel instances do not race) and then runs
// the booking consistency sweep on a cron schedule.
type Service struct {
	config  *models.Config
	logger  logger.Logger
	wc      *models.WorkerConfig
	lock    *LockManager
	setup   *TableSetup
	sweep   *ConsistencySweep
	cronJob *cron.Cron
	ownerID string

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewService creates a new worker service
func NewService(ctx context.Context, cfg *models.Config, log logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	wc := &models.WorkerConfig{
		SweepSchedule:  cfg.SweepSchedule,
		LockTimeout:    30 * time.Minute,
		LockFilePath:   fmt.Sprintf("/tmp/washpro-setup-%s.lock", cfg.AppEnv),
		MaxRetries:     5,
		RetryDelay:     2 * time.Second,
		Environment:    cfg.AppEnv,
		RequiredTables: cfg.Tables,
	}
	if err := validateWorkerConfig(wc); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	bookingRepo := repository.NewBookingRepository(dbclient, cfg, log)
	jobCardRepo := repository.NewJobCardRepository(dbclient, cfg, log)
	serviceRepo := repository.NewServiceRepository(dbclient, cfg, log)
	catalog := services.NewLifecycleCatalog(serviceRepo, log)

	return &Service{
		config:  cfg,
		logger:  log,
		wc:      wc,
		lock:    NewLockManager(wc.LockFilePath, wc.LockTimeout, wc.Environment),
		setup:   NewTableSetup(dbclient, cfg, log),
		sweep:   NewConsistencySweep(bookingRepo, jobCardRepo, catalog, log),
		cronJob: cron.New(),
		ownerID: ownerID,
	}, nil
}

// StartInBackground runs table setup and schedules the consistency sweep.
func (s *Service) StartInBackground() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("worker is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.runSetup(ctx)

	if err := s.cronJob.AddFunc(s.wc.SweepSchedule, func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 10*time.Minute)
		defer sweepCancel()
		s.sweep.Run(sweepCtx)
	}); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule consistency sweep: %w", err)
	}

	s.cronJob.Start()
	s.isRunning = true
	s.logger.Infof("Worker started, sweep schedule %q, owner %s", s.wc.SweepSchedule, s.ownerID)
	return nil
}

// runSetup acquires the setup lock and creates missing tables. Losing the
// lock means another instance is doing the same work, which is fine.
func (s *Service) runSetup(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Table setup panicked: %v", r)
		}
	}()

	lockInfo, err := s.lock.AcquireLock(s.ownerID)
	if err != nil {
		s.logger.Warnf("Skipping table setup, lock not acquired: %v", err)
		return
	}
	defer func() {
		if err := s.lock.ReleaseLock(lockInfo); err != nil {
			s.logger.Errorf("Failed to release setup lock: %v", err)
		}
	}()

	setupCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	if err := s.setup.EnsureTables(setupCtx, s.wc); err != nil {
		s.logger.Errorf("Table setup failed: %v", err)
		return
	}
}

// Stop stops the worker service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.logger.Info("Stopping worker service")
	if s.cancel != nil {
		s.cancel()
	}
	s.cronJob.Stop()
	s.isRunning = false
	return nil
}

// IsRunning returns whether the worker is currently running
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunSweepNow triggers one consistency sweep outside the schedule.
func (s *Service) RunSweepNow(ctx context.Context) *models.SweepResult {
	return s.sweep.Run(ctx)
}

func validateWorkerConfig(config *models.WorkerConfig) error {
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}

	cronParser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := cronParser.Parse(config.SweepSchedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", config.SweepSchedule, err)
	}

	return nil
}
