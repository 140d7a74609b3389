package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"minerva/internal/models"
	"minerva/internal/store"
)

// --- Tag Management ---

func (s *StoreImpl) CreateTag(ctx context.Context, tag *models.Tag) error {
	if tag.Slug == "" {
		tag.Slug = Slugify(tag.Name)
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		tag.Name, tag.Slug, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tag with name or slug already exists: %w", models.ErrConflict)
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted tag id: %w", err)
	}
	tag.ID = id
	tag.CreatedAt = now
	tag.UpdatedAt = now
	return nil
}

func (s *StoreImpl) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM tags WHERE slug = ?`, slug,
	).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag by slug %q: %w", slug, err)
	}
	return tag, nil
}

func (s *StoreImpl) GetOrCreateTagsByName(ctx context.Context, names []string) ([]*models.Tag, error) {
	if len(names) == 0 {
		return []*models.Tag{}, nil
	}
	var tags []*models.Tag
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag := &models.Tag{}
		err := s.db.QueryRowContext(ctx,
			`SELECT id, name, slug, created_at, updated_at FROM tags WHERE LOWER(name) = LOWER(?)`, name,
		).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("failed to get tag %q: %w", name, err)
			}
			tag = &models.Tag{Name: name}
			if err := s.CreateTag(ctx, tag); err != nil {
				return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *StoreImpl) ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM tags ORDER BY name ASC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

// ListTagNames returns every tag name; the recommender uses this as the known
// tag vocabulary.
func (s *StoreImpl) ListTagNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tag names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag names: %w", err)
	}
	return names, nil
}

// Slugify lowercases a tag name and replaces spaces with hyphens. CJK names
// pass through unchanged apart from whitespace.
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(name)), "-"))
}

// Ensure StoreImpl satisfies the TagStore interface
var _ store.TagStore = (*StoreImpl)(nil)
