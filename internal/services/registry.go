package services

import (
	"sync"
	"sync/atomic"

	"minerva/internal/models"
	"minerva/pkg/classifier"
)

// ModelState tracks the lifecycle of the resident model.
type ModelState int32

const (
	// StateUnloaded means no model has been loaded yet.
	StateUnloaded ModelState = iota
	// StateLoading means a load or training publish is in flight.
	StateLoading
	// StateResident means a model is loaded and serving classifications.
	StateResident
)

func (s ModelState) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateResident:
		return "RESIDENT"
	default:
		return "UNLOADED"
	}
}

// ModelRegistry holds the resident model behind an atomic pointer. Readers
// get a consistent immutable snapshot with a single atomic load; Swap
// publishes a new model without blocking in-flight classifications.
type ModelRegistry struct {
	current  atomic.Pointer[classifier.Model]
	state    atomic.Int32
	training sync.Mutex
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{}
}

// Current returns the resident model, or nil when none is loaded.
func (r *ModelRegistry) Current() *classifier.Model {
	return r.current.Load()
}

// State reports the registry lifecycle state.
func (r *ModelRegistry) State() ModelState {
	return ModelState(r.state.Load())
}

// BeginLoading marks the registry as loading. Classifications against the
// previous model keep working throughout.
func (r *ModelRegistry) BeginLoading() {
	if r.current.Load() == nil {
		r.state.Store(int32(StateLoading))
	}
}

// Swap atomically publishes a new resident model.
func (r *ModelRegistry) Swap(m *classifier.Model) {
	r.current.Store(m)
	if m != nil {
		r.state.Store(int32(StateResident))
	} else {
		r.state.Store(int32(StateUnloaded))
	}
}

// AcquireTraining claims the single training slot. A second caller while a
// run is active gets ErrTrainingInProgress instead of queueing.
func (r *ModelRegistry) AcquireTraining() error {
	if !r.training.TryLock() {
		return models.ErrTrainingInProgress
	}
	return nil
}

// ReleaseTraining frees the training slot.
func (r *ModelRegistry) ReleaseTraining() {
	r.training.Unlock()
}
