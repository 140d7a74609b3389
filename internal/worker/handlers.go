// Package worker holds the Asynq task handlers run by the background worker
// process.
package worker

import (
	"context"
	"errors"
	"fmt"

	"minerva/internal/models"
	"minerva/internal/services"
	"minerva/internal/store"
	"minerva/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// TrainingDeps bundles what the training handler needs.
type TrainingDeps struct {
	Classification *services.ClassificationService
	JobStore       store.JobStore
}

// RegisterHandlers attaches every task handler to the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps TrainingDeps) {
	mux.HandleFunc(tasks.TypeTrainingRun, HandleTrainingRun(deps))
}

// HandleTrainingRun executes one classifier training run and records the
// outcome against the job row. A run that is rejected (in progress, too few
// samples, accuracy below the gate) completes the task without retry; only
// infrastructure failures are returned as task errors.
func HandleTrainingRun(deps TrainingDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := tasks.ParseTrainingRunPayload(t.Payload())
		if err != nil {
			return fmt.Errorf("parse training payload: %v: %w", err, asynq.SkipRetry)
		}
		jobID := taskUUID(t)

		updateStatus(ctx, deps.JobStore, jobID, "running")
		log.WithFields(log.Fields{
			"job_id":       jobID,
			"requested_by": payload.RequestedBy,
		}).Info("Training run started")

		report, err := deps.Classification.TrainClassifier(ctx)
		switch {
		case errors.Is(err, models.ErrTrainingInProgress):
			updateStatus(ctx, deps.JobStore, jobID, "skipped")
			log.WithField("job_id", jobID).Warn("Training run skipped: another run is active")
			return nil
		case err != nil:
			updateStatus(ctx, deps.JobStore, jobID, "failed")
			return fmt.Errorf("training run: %w", err)
		}

		if !report.Success {
			updateStatus(ctx, deps.JobStore, jobID, "rejected")
			log.WithFields(log.Fields{
				"job_id":  jobID,
				"message": report.Message,
			}).Warn("Training run did not produce a model")
			return nil
		}

		updateStatus(ctx, deps.JobStore, jobID, "completed")
		log.WithFields(log.Fields{
			"job_id":   jobID,
			"accuracy": report.Accuracy,
			"samples":  report.SampleCount,
		}).Info("Training run completed")
		return nil
	}
}

func taskUUID(t *asynq.Task) uuid.UUID {
	if rw := t.ResultWriter(); rw != nil {
		if id, err := uuid.Parse(rw.TaskID()); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func updateStatus(ctx context.Context, js store.JobStore, jobID uuid.UUID, status string) {
	if jobID == uuid.Nil {
		return
	}
	if err := js.UpdateJobStatus(ctx, jobID, status); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"job_id": jobID,
			"status": status,
		}).Warn("Failed to update job status")
	}
}
