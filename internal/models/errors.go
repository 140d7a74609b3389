package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	// ErrTrainingInProgress signals that a training run is already executing;
	// concurrent requests are rejected, not queued.
	ErrTrainingInProgress = errors.New("training already in progress")
	// ErrNoModel signals that no trained model snapshot exists yet.
	ErrNoModel = errors.New("no trained model available")
	// ErrSuggestionResolved signals that a classification suggestion was
	// already accepted or rejected.
	ErrSuggestionResolved = errors.New("classification suggestion already resolved")
)
