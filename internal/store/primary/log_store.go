package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"minerva/internal/models"
	"minerva/internal/store"
)

// --- Classification Log Implementation ---

func (s *StoreImpl) RecordSuggestion(ctx context.Context, log *models.ClassificationLog) error {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO classification_logs (content_id, suggested_category_id, confidence, tier, accepted, created_at)
		 VALUES (?, ?, ?, ?, NULL, ?)`,
		log.ContentID, log.SuggestedCategoryID, log.Confidence, log.Tier, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record suggestion for content %d: %w", log.ContentID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted suggestion id: %w", err)
	}
	log.ID = id
	log.CreatedAt = now
	return nil
}

func (s *StoreImpl) GetSuggestion(ctx context.Context, id int64) (*models.ClassificationLog, error) {
	l := &models.ClassificationLog{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content_id, suggested_category_id, confidence, tier, accepted, created_at
		 FROM classification_logs WHERE id = ?`, id,
	).Scan(&l.ID, &l.ContentID, &l.SuggestedCategoryID, &l.Confidence, &l.Tier, &l.Accepted, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get suggestion %d: %w", id, err)
	}
	return l, nil
}

// ResolveSuggestion records the teacher's verdict. The WHERE clause only
// matches unresolved rows, so a second resolution attempt affects zero rows.
func (s *StoreImpl) ResolveSuggestion(ctx context.Context, id int64, accepted bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE classification_logs SET accepted = ? WHERE id = ? AND accepted IS NULL`,
		accepted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve suggestion %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetSuggestion(ctx, id); err != nil {
			return err
		}
		return models.ErrSuggestionResolved
	}
	return nil
}

func (s *StoreImpl) ListSuggestions(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]*models.ClassificationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, content_id, suggested_category_id, confidence, tier, accepted, created_at
	          FROM classification_logs`
	if unresolvedOnly {
		query += ` WHERE accepted IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var logs []*models.ClassificationLog
	for rows.Next() {
		l := &models.ClassificationLog{}
		if err := rows.Scan(&l.ID, &l.ContentID, &l.SuggestedCategoryID, &l.Confidence, &l.Tier, &l.Accepted, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestion rows: %w", err)
	}
	return logs, nil
}

// Ensure StoreImpl satisfies the LogStore interface
var _ store.LogStore = (*StoreImpl)(nil)
