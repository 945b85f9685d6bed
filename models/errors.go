package models

import "errors"

// Domain error taxonomy. Services return these (possibly wrapped); controllers
// match with errors.Is to pick the HTTP status.
var (
	// ErrNotFound is returned when a referenced booking, job card, invoice,
	// customer, vehicle or service does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a stage advance is requested at
	// the terminal stage, or the current stage cannot be resolved against the
	// effective lifecycle list, or a concurrent writer won the stage update.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInvalidStage is returned when an explicit stage target is not a
	// member of the job's effective lifecycle list.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrAlreadyExists is the benign duplicate guard: a job card already
	// exists for the booking. Callers treat it as an idempotent no-op.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadyInvoiced is the hard duplicate guard: an invoice already
	// references the job card.
	ErrAlreadyInvoiced = errors.New("job card already invoiced")

	// ErrConstraintViolation is a unique-key clash from the store, e.g. an
	// invoice number collision that survived one regeneration retry.
	ErrConstraintViolation = errors.New("constraint violation")
)
