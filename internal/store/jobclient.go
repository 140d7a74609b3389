package store

import (
	"context"
	"fmt"

	"minerva/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// AsynqJobClient enqueues background tasks over Redis and records each
// enqueue to the JobStore so `job list` can show history without Redis.
type AsynqJobClient struct {
	client   *asynq.Client
	jobStore JobStore
}

var _ JobClient = (*AsynqJobClient)(nil)

func NewAsynqJobClient(redisAddr, redisPassword string, redisDB int, js JobStore) (*AsynqJobClient, error) {
	if js == nil {
		return nil, fmt.Errorf("JobStore cannot be nil for AsynqJobClient")
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqJobClient{client: cli, jobStore: js}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue submits a task and records the event. A failed DB record does not
// fail the enqueue; the job is already queued at that point.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("asynq client is not initialized")
	}
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	jobUUID, err := uuid.Parse(info.ID)
	if err != nil {
		log.WithError(err).WithField("task_id", info.ID).Warn("Asynq task ID is not a UUID; job record will be incomplete")
	}
	params := JobRecordParams{
		JobID:    jobUUID,
		TaskType: task.Type(),
		Payload:  task.Payload(),
		Queue:    info.Queue,
		Status:   "enqueued",
	}
	if err := jc.jobStore.RecordJobEnqueue(ctx, params); err != nil {
		log.WithError(err).WithField("task_id", info.ID).Error("Failed to record job enqueue event")
	}
	return info, nil
}

// EnqueueTrainingRun queues a full classifier training run. Duplicate runs
// are collapsed by the worker's training lock, not the queue.
func (jc *AsynqJobClient) EnqueueTrainingRun(ctx context.Context, requestedBy string) (uuid.UUID, error) {
	task, err := tasks.NewTrainingRunTask(requestedBy)
	if err != nil {
		return uuid.Nil, err
	}
	info, err := jc.Enqueue(ctx, task, asynq.Queue(tasks.QueueTraining), asynq.MaxRetry(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("enqueue training run: %w", err)
	}
	jobID, err := uuid.Parse(info.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse task id %q: %w", info.ID, err)
	}
	return jobID, nil
}
