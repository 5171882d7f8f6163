package service

import "errors"

// Failure taxonomy surfaced to the transport layer. The gate deliberately
// collapses every credential failure into ErrUnauthorized, and an
// other-owner task is indistinguishable from a missing one.
var (
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDueDateInPast      = errors.New("due date cannot be in the past")

	// Status transition failures.
	ErrSameStatus     = errors.New("task is already in the same status")
	ErrTaskCompleted  = errors.New("task is already completed")
	ErrTaskInProgress = errors.New("task is already in progress")
)
