package models

import (
	"time"
)

// LockManager handles file-based locking so only one instance runs table
// setup per environment.
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// LockInfo represents lock ownership information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerConfig holds configuration for the background worker
type WorkerConfig struct {
	// Cron schedule for the consistency sweep
	SweepSchedule string `json:"sweep_schedule"`

	// Lock settings for table setup
	LockTimeout  time.Duration `json:"lock_timeout"`
	LockFilePath string        `json:"lock_file_path"`

	// Retry settings for table setup
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`
}

// SweepResult holds the outcome of one consistency sweep run. The sweep is
// detection only; it never mutates bookings or job cards.
type SweepResult struct {
	StartTime       time.Time     `json:"start_time"`
	Duration        time.Duration `json:"duration"`
	JobCardsChecked int           `json:"job_cards_checked"`
	Divergent       []string      `json:"divergent,omitempty"` // booking ids whose status disagrees with the mapping
	ErrorMessage    string        `json:"error_message,omitempty"`
}
