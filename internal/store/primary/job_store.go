package primary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"minerva/internal/models"
	"minerva/internal/store"

	"github.com/google/uuid"
)

// --- Job Store Implementation ---

// RecordJobEnqueue inserts a record into the background_jobs table. Recording
// the same job twice is a no-op.
func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	payload := json.RawMessage("{}")
	if params.Payload != nil {
		payload = json.RawMessage(params.Payload)
	}
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO background_jobs (job_id, task_type, payload, queue, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (job_id) DO NOTHING`,
		params.JobID.String(), params.TaskType, string(payload), params.Queue, params.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record job enqueue event for job %s: %w", params.JobID, err)
	}
	return nil
}

// UpdateJobStatus updates the status of a job given its Asynq task UUID.
func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE background_jobs SET status = ?, updated_at = ? WHERE job_id = ?`,
		status, time.Now(), jobID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", jobID, models.ErrNotFound)
	}
	return nil
}

func (s *StoreImpl) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error) {
	job, err := scanJob(s.db.QueryRowContext(ctx,
		`SELECT id, job_id, task_type, payload, queue, status, created_at, updated_at
		 FROM background_jobs WHERE job_id = ?`, jobID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}
	return job, nil
}

func (s *StoreImpl) ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, task_type, payload, queue, status, created_at, updated_at
		 FROM background_jobs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.BackgroundJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}
	return jobs, nil
}

func scanJob(row rowScanner) (*models.BackgroundJob, error) {
	job := &models.BackgroundJob{}
	var rawID, payload string
	if err := row.Scan(&job.ID, &rawID, &job.TaskType, &payload, &job.Queue, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid job uuid %q: %w", rawID, err)
	}
	job.JobID = id
	job.Payload = json.RawMessage(payload)
	return job, nil
}

// Ensure StoreImpl satisfies the JobStore interface
var _ store.JobStore = (*StoreImpl)(nil)
