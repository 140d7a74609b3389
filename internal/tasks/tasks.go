package tasks

// Defines constants and payloads for task types used in Asynq.

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TypeTrainingRun is the task type for a full classifier training run.
	TypeTrainingRun = "training:run"

	// QueueTraining is the queue training runs are submitted to.
	QueueTraining = "training"
)

// TrainingRunPayload carries the parameters of one training run request.
type TrainingRunPayload struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

// NewTrainingRunTask builds an asynq task for a training run.
func NewTrainingRunTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(TrainingRunPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTrainingRun, payload), nil
}

// ParseTrainingRunPayload decodes a training run task payload.
func ParseTrainingRunPayload(data []byte) (TrainingRunPayload, error) {
	var p TrainingRunPayload
	if len(data) == 0 {
		return p, nil
	}
	err := json.Unmarshal(data, &p)
	return p, err
}
