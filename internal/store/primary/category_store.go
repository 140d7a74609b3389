package primary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"minerva/internal/models"
	"minerva/internal/store"

	"github.com/mattn/go-sqlite3"
)

// --- Category Management ---

// Seed keywords are stored as a JSON array in a TEXT column.

func (s *StoreImpl) CreateCategory(ctx context.Context, category *models.Category) error {
	seeds, err := encodeSeedKeywords(category.SeedKeywords)
	if err != nil {
		return err
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, seed_keywords, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		category.Name, seeds, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists: %w", category.Name, models.ErrConflict)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted category id: %w", err)
	}
	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now
	return nil
}

func (s *StoreImpl) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, seed_keywords, created_at, updated_at FROM categories WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return cat, nil
}

func (s *StoreImpl) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, seed_keywords, created_at, updated_at FROM categories WHERE LOWER(name) = LOWER(?)`,
		strings.TrimSpace(name))
	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %q: %w", name, err)
	}
	return cat, nil
}

func (s *StoreImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, seed_keywords, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return cats, nil
}

func (s *StoreImpl) UpdateCategory(ctx context.Context, category *models.Category) error {
	seeds, err := encodeSeedKeywords(category.SeedKeywords)
	if err != nil {
		return err
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, seed_keywords = ?, updated_at = ? WHERE id = ?`,
		category.Name, seeds, now, category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists: %w", category.Name, models.ErrConflict)
		}
		return fmt.Errorf("failed to update category %d: %w", category.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	category.UpdatedAt = now
	return nil
}

func (s *StoreImpl) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	cat := &models.Category{}
	var seeds string
	if err := row.Scan(&cat.ID, &cat.Name, &seeds, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
		return nil, err
	}
	if seeds != "" {
		if err := json.Unmarshal([]byte(seeds), &cat.SeedKeywords); err != nil {
			return nil, fmt.Errorf("failed to decode seed keywords for category %d: %w", cat.ID, err)
		}
	}
	return cat, nil
}

func encodeSeedKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode seed keywords: %w", err)
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Ensure StoreImpl satisfies the CategoryStore interface
var _ store.CategoryStore = (*StoreImpl)(nil)
