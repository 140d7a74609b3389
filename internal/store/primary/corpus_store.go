package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"minerva/internal/models"
	"minerva/internal/store"
	"minerva/pkg/classifier"
)

// --- Corpus Store Implementation ---

func (s *StoreImpl) CreateContent(ctx context.Context, content *models.LabeledContent) error {
	query := `
		INSERT INTO content (kind, text, category_id, auto_classified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now()
	res, err := s.db.ExecContext(ctx, query,
		content.Kind, content.Text, content.CategoryID, content.AutoClassified, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted content id: %w", err)
	}
	content.ID = id
	content.CreatedAt = now
	content.UpdatedAt = now
	return nil
}

func (s *StoreImpl) GetContent(ctx context.Context, id int64) (*models.LabeledContent, error) {
	query := `SELECT id, kind, text, category_id, auto_classified, created_at, updated_at
	          FROM content WHERE id = ?`
	c := &models.LabeledContent{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Kind, &c.Text, &c.CategoryID, &c.AutoClassified, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content %d: %w", id, err)
	}
	return c, nil
}

// UpdateContentCategory sets or clears the category label of a content row. A
// nil categoryID clears the label and drops the row from the training corpus.
func (s *StoreImpl) UpdateContentCategory(ctx context.Context, contentID int64, categoryID *int64, autoClassified bool) error {
	query := `UPDATE content SET category_id = ?, auto_classified = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, categoryID, autoClassified, time.Now(), contentID)
	if err != nil {
		return fmt.Errorf("failed to update category for content %d: %w", contentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) DeleteContent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListContent(ctx context.Context, limit, offset int) ([]*models.LabeledContent, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, kind, text, category_id, auto_classified, created_at, updated_at
	          FROM content ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer rows.Close()
	return scanContentRows(rows)
}

func (s *StoreImpl) ListLabeledContent(ctx context.Context) ([]*models.LabeledContent, error) {
	query := `SELECT id, kind, text, category_id, auto_classified, created_at, updated_at
	          FROM content WHERE category_id IS NOT NULL ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list labeled content: %w", err)
	}
	defer rows.Close()
	return scanContentRows(rows)
}

func scanContentRows(rows *sql.Rows) ([]*models.LabeledContent, error) {
	var items []*models.LabeledContent
	for rows.Next() {
		c := &models.LabeledContent{}
		if err := rows.Scan(&c.ID, &c.Kind, &c.Text, &c.CategoryID, &c.AutoClassified, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}
	return items, nil
}

// ReplaceContentKeywords swaps the cached keyword set of a content item in a
// single transaction.
func (s *StoreImpl) ReplaceContentKeywords(ctx context.Context, contentID int64, keywords []classifier.KeywordResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_keywords WHERE content_id = ?`, contentID); err != nil {
		return fmt.Errorf("failed to clear keywords for content %d: %w", contentID, err)
	}
	now := time.Now()
	for _, kw := range keywords {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO content_keywords (content_id, term, weight, created_at) VALUES (?, ?, ?, ?)`,
			contentID, kw.Term, kw.Weight, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert keyword %q for content %d: %w", kw.Term, contentID, err)
		}
	}
	return tx.Commit()
}

func (s *StoreImpl) GetContentKeywords(ctx context.Context, contentID int64) ([]*models.ContentKeyword, error) {
	query := `SELECT id, content_id, term, weight, created_at
	          FROM content_keywords WHERE content_id = ? ORDER BY weight DESC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get keywords for content %d: %w", contentID, err)
	}
	defer rows.Close()

	var out []*models.ContentKeyword
	for rows.Next() {
		kw := &models.ContentKeyword{}
		if err := rows.Scan(&kw.ID, &kw.ContentID, &kw.Term, &kw.Weight, &kw.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		out = append(out, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}
	return out, nil
}

// Ensure StoreImpl satisfies the CorpusStore interface
var _ store.CorpusStore = (*StoreImpl)(nil)
