package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentKind distinguishes the two labeled content sources the corpus is
// built from.
type ContentKind string

const (
	KindQuestion ContentKind = "question"
	KindMaterial ContentKind = "material"
)

// Category is an administrator-managed classification target. SeedKeywords
// optionally bootstrap training when the labeled corpus for the category is
// thin; each category contributes its seed keywords as one synthetic sample.
type Category struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	SeedKeywords []string  `db:"seed_keywords"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// LabeledContent is one stored submission (question or material passage).
// Rows with a non-nil CategoryID form the training corpus.
type LabeledContent struct {
	ID             int64       `db:"id"`
	Kind           ContentKind `db:"kind"`
	Text           string      `db:"text"`
	CategoryID     *int64      `db:"category_id"`
	AutoClassified bool        `db:"auto_classified"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// Tag is one entry of the known tag vocabulary.
type Tag struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ClassificationLog records a non-LOW suggestion made for a stored content
// item. Accepted stays nil until a teacher resolves the suggestion; it can be
// resolved exactly once.
type ClassificationLog struct {
	ID                  int64     `db:"id"`
	ContentID           int64     `db:"content_id"`
	SuggestedCategoryID int64     `db:"suggested_category_id"`
	Confidence          float64   `db:"confidence"`
	Tier                string    `db:"tier"`
	Accepted            *bool     `db:"accepted"`
	CreatedAt           time.Time `db:"created_at"`
}

// ContentKeyword caches one extracted keyword for a content item.
type ContentKeyword struct {
	ID        int64     `db:"id"`
	ContentID int64     `db:"content_id"`
	Term      string    `db:"term"`
	Weight    float64   `db:"weight"`
	CreatedAt time.Time `db:"created_at"`
}

// BackgroundJob mirrors the background_jobs table.
type BackgroundJob struct {
	ID        int64           `db:"id"`
	JobID     uuid.UUID       `db:"job_id"`
	TaskType  string          `db:"task_type"`
	Payload   json.RawMessage `db:"payload"`
	Queue     string          `db:"queue"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
