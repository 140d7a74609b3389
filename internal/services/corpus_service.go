package services

import (
	"context"
	"fmt"
	"strings"

	"minerva/internal/chunking"
	"minerva/internal/models"
	"minerva/internal/parsing"
	"minerva/internal/store"

	log "github.com/sirupsen/logrus"
)

// CorpusService manages the labeled corpus. Long course materials are split
// into sentence-aligned passages on ingest; questions are stored whole.
type CorpusService struct {
	corpus   store.CorpusStore
	cats     store.CategoryStore
	splitter *chunking.Splitter
}

func NewCorpusService(corpus store.CorpusStore, cats store.CategoryStore, splitter *chunking.Splitter) *CorpusService {
	return &CorpusService{corpus: corpus, cats: cats, splitter: splitter}
}

// AddContent stores text under the given kind, optionally pre-labeled with a
// category name. Materials are chunked into passages, each stored as its own
// row; the returned slice holds every created row in order.
func (s *CorpusService) AddContent(ctx context.Context, kind models.ContentKind, text, categoryName string) ([]*models.LabeledContent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: content text is empty", models.ErrValidation)
	}

	var categoryID *int64
	if categoryName != "" {
		cat, err := s.cats.GetCategoryByName(ctx, categoryName)
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", categoryName, err)
		}
		categoryID = &cat.ID
	}

	passages := []string{text}
	if kind == models.KindMaterial {
		passages = s.splitter.Split(text)
	}

	created := make([]*models.LabeledContent, 0, len(passages))
	for _, passage := range passages {
		row := &models.LabeledContent{
			Kind:       kind,
			Text:       passage,
			CategoryID: categoryID,
		}
		if err := s.corpus.CreateContent(ctx, row); err != nil {
			return created, fmt.Errorf("store passage: %w", err)
		}
		created = append(created, row)
	}
	if len(created) > 1 {
		log.WithFields(log.Fields{"kind": kind, "passages": len(created)}).Info("Split material into passages")
	}
	return created, nil
}

// AddContentFromFile extracts the text of a document (PDF, Word, or plain
// text variants) and stores it like AddContent. A document with no
// extractable text is a validation error.
func (s *CorpusService) AddContentFromFile(ctx context.Context, kind models.ContentKind, path, categoryName string) ([]*models.LabeledContent, error) {
	text, err := parsing.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "bytes": len(text)}).Debug("Extracted document text")
	return s.AddContent(ctx, kind, text, categoryName)
}

// LabelContent assigns a category to an existing content row by name, or
// clears the label when categoryName is empty.
func (s *CorpusService) LabelContent(ctx context.Context, contentID int64, categoryName string) error {
	if categoryName == "" {
		return s.corpus.UpdateContentCategory(ctx, contentID, nil, false)
	}
	cat, err := s.cats.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return fmt.Errorf("resolve category %q: %w", categoryName, err)
	}
	return s.corpus.UpdateContentCategory(ctx, contentID, &cat.ID, false)
}
