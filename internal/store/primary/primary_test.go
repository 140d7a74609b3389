package primary

import (
	"context"
	"errors"
	"testing"

	"minerva/internal/models"
	"minerva/internal/store"
	"minerva/pkg/classifier"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *StoreImpl {
	t.Helper()
	s, err := NewPrimaryStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContentLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	content := &models.LabeledContent{Kind: models.KindQuestion, Text: "why is the sky blue"}
	require.NoError(t, s.CreateContent(ctx, content))
	assert.NotZero(t, content.ID)

	got, err := s.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "why is the sky blue", got.Text)
	assert.Nil(t, got.CategoryID)

	cat := &models.Category{Name: "physics"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	require.NoError(t, s.UpdateContentCategory(ctx, content.ID, &cat.ID, true))

	got, err = s.GetContent(ctx, content.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	assert.True(t, got.AutoClassified)

	labeled, err := s.ListLabeledContent(ctx)
	require.NoError(t, err)
	assert.Len(t, labeled, 1)

	require.NoError(t, s.UpdateContentCategory(ctx, content.ID, nil, false))
	labeled, err = s.ListLabeledContent(ctx)
	require.NoError(t, err)
	assert.Empty(t, labeled)

	require.NoError(t, s.DeleteContent(ctx, content.ID))
	_, err = s.GetContent(ctx, content.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteContent(ctx, content.ID), models.ErrNotFound))
}

func TestCategorySeedKeywordsRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	cat := &models.Category{Name: "chemistry", SeedKeywords: []string{"element", "reaction", "分子"}}
	require.NoError(t, s.CreateCategory(ctx, cat))

	got, err := s.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.SeedKeywords, got.SeedKeywords)

	got, err = s.GetCategoryByName(ctx, "CHEMISTRY")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
}

func TestCategoryNameConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "math"}))
	err := s.CreateCategory(ctx, &models.Category{Name: "math"})
	assert.True(t, errors.Is(err, models.ErrConflict))
}

func TestTagGetOrCreate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tags, err := s.GetOrCreateTagsByName(ctx, []string{"教学", " algebra ", ""})
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// Second call reuses the rows.
	again, err := s.GetOrCreateTagsByName(ctx, []string{"教学", "Algebra"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, tags[0].ID, again[0].ID)
	assert.Equal(t, tags[1].ID, again[1].ID)

	names, err := s.ListTagNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestSuggestionResolvesOnce(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	cat := &models.Category{Name: "biology"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	content := &models.LabeledContent{Kind: models.KindQuestion, Text: "what is a cell"}
	require.NoError(t, s.CreateContent(ctx, content))

	entry := &models.ClassificationLog{
		ContentID:           content.ID,
		SuggestedCategoryID: cat.ID,
		Confidence:          0.42,
		Tier:                string(classifier.TierMedium),
	}
	require.NoError(t, s.RecordSuggestion(ctx, entry))

	require.NoError(t, s.ResolveSuggestion(ctx, entry.ID, true))

	got, err := s.GetSuggestion(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Accepted)
	assert.True(t, *got.Accepted)

	// A second resolution attempt fails, in either direction.
	assert.True(t, errors.Is(s.ResolveSuggestion(ctx, entry.ID, false), models.ErrSuggestionResolved))
	assert.True(t, errors.Is(s.ResolveSuggestion(ctx, entry.ID, true), models.ErrSuggestionResolved))

	// Resolving a missing suggestion reports not found.
	assert.True(t, errors.Is(s.ResolveSuggestion(ctx, 9999, true), models.ErrNotFound))
}

func TestListSuggestionsUnresolvedFilter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	cat := &models.Category{Name: "math"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	content := &models.LabeledContent{Kind: models.KindQuestion, Text: "solve for x"}
	require.NoError(t, s.CreateContent(ctx, content))

	for i := 0; i < 3; i++ {
		entry := &models.ClassificationLog{
			ContentID:           content.ID,
			SuggestedCategoryID: cat.ID,
			Confidence:          0.6,
			Tier:                string(classifier.TierHigh),
		}
		require.NoError(t, s.RecordSuggestion(ctx, entry))
		if i == 0 {
			require.NoError(t, s.ResolveSuggestion(ctx, entry.ID, false))
		}
	}

	all, err := s.ListSuggestions(ctx, 10, 0, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := s.ListSuggestions(ctx, 10, 0, true)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestContentKeywordsReplace(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	content := &models.LabeledContent{Kind: models.KindMaterial, Text: "photosynthesis basics"}
	require.NoError(t, s.CreateContent(ctx, content))

	first := []classifier.KeywordResult{{Term: "photosynthesis", Weight: 1.0}, {Term: "basics", Weight: 0.5}}
	require.NoError(t, s.ReplaceContentKeywords(ctx, content.ID, first))

	second := []classifier.KeywordResult{{Term: "chlorophyll", Weight: 1.0}}
	require.NoError(t, s.ReplaceContentKeywords(ctx, content.ID, second))

	got, err := s.GetContentKeywords(ctx, content.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chlorophyll", got[0].Term)
}

func TestJobRecordAndStatus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	jobID := uuid.New()
	params := store.JobRecordParams{
		JobID:    jobID,
		TaskType: "training:run",
		Payload:  []byte(`{"requested_by":"test"}`),
		Queue:    "training",
		Status:   "enqueued",
	}
	require.NoError(t, s.RecordJobEnqueue(ctx, params))
	// Duplicate records are ignored.
	require.NoError(t, s.RecordJobEnqueue(ctx, params))

	require.NoError(t, s.UpdateJobStatus(ctx, jobID, "completed"))

	job, err := s.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "completed", job.Status)
	assert.Equal(t, "training:run", job.TaskType)

	jobs, err := s.ListJobs(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	assert.True(t, errors.Is(s.UpdateJobStatus(ctx, uuid.New(), "x"), models.ErrNotFound))
}
