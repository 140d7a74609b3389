package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"minerva/internal/config"
	"minerva/internal/models"
	"minerva/internal/store"
	"minerva/internal/store/modelstore"
	"minerva/internal/store/primary"
	"minerva/pkg/classifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Path = ":memory:"
	cfg.Model.Dir = t.TempDir()
	cfg.Model.HighThreshold = 0.5
	cfg.Model.MediumThreshold = 0.3
	cfg.Model.MinSamplesPerCategory = 5
	cfg.Model.AcceptanceAccuracy = 0.6
	cfg.Model.TrainSplit = 0.8
	cfg.Model.MaxFeatures = 5000
	cfg.Model.MinDocFreq = 1
	cfg.Keywords.TopN = 10
	cfg.Keywords.MaxTags = 5
	return cfg
}

func setupService(t *testing.T) (*ClassificationService, *primary.StoreImpl) {
	t.Helper()
	ctx := context.Background()

	ps, err := primary.NewPrimaryStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })

	cfg := testConfig(t)
	ms, err := modelstore.NewFileStore(cfg.Model.Dir)
	require.NoError(t, err)

	svc := NewClassificationService(cfg, ps, ps, ps, ps, ms, classifier.NewTokenizer())
	return svc, ps
}

func seedCorpus(t *testing.T, ps *primary.StoreImpl) (mathID, bioID int64) {
	t.Helper()
	ctx := context.Background()

	math := &models.Category{Name: "math"}
	bio := &models.Category{Name: "biology"}
	require.NoError(t, ps.CreateCategory(ctx, math))
	require.NoError(t, ps.CreateCategory(ctx, bio))

	mathTexts := []string{
		"solve the quadratic equation using the formula",
		"the derivative measures the rate of change",
		"integrate the polynomial over the interval",
		"the matrix determinant and its eigenvalues",
		"prove the theorem using geometry and algebra",
		"vector spaces and linear transformations",
		"calculus limits and continuity of functions",
		"factor the polynomial into linear terms",
	}
	bioTexts := []string{
		"the cell membrane controls what enters the cell",
		"photosynthesis converts light into chemical energy",
		"enzymes catalyze reactions inside the organism",
		"chromosomes carry genes made of protein and dna",
		"bacteria reproduce through binary fission",
		"mitochondria produce energy for the cell",
		"evolution selects organisms suited to the environment",
		"proteins fold into complex structures",
	}
	for _, text := range mathTexts {
		c := &models.LabeledContent{Kind: models.KindQuestion, Text: text, CategoryID: &math.ID}
		require.NoError(t, ps.CreateContent(ctx, c))
	}
	for _, text := range bioTexts {
		c := &models.LabeledContent{Kind: models.KindQuestion, Text: text, CategoryID: &bio.ID}
		require.NoError(t, ps.CreateContent(ctx, c))
	}
	return math.ID, bio.ID
}

func TestTrainClassifierEndToEnd(t *testing.T) {
	svc, ps := setupService(t)
	seedCorpus(t, ps)
	ctx := context.Background()

	assert.Equal(t, StateUnloaded, svc.Registry().State())

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	require.True(t, report.Success, report.Message)

	assert.Equal(t, StateResident, svc.Registry().State())
	require.NotNil(t, svc.Registry().Current())
	assert.Equal(t, int64(1), svc.Registry().Current().Version)

	res := svc.ClassifyText(ctx, "differentiate the polynomial equation")
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, "math", res.Label)
}

func TestTrainClassifierTooFewSamples(t *testing.T) {
	svc, ps := setupService(t)
	ctx := context.Background()

	cat := &models.Category{Name: "lonely"}
	require.NoError(t, ps.CreateCategory(ctx, cat))
	c := &models.LabeledContent{Kind: models.KindQuestion, Text: "single sample text here", CategoryID: &cat.ID}
	require.NoError(t, ps.CreateContent(ctx, c))

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.Contains(t, report.Message, "lonely")
	assert.Equal(t, StateUnloaded, svc.Registry().State())
}

func TestSeedKeywordsJoinTraining(t *testing.T) {
	svc, ps := setupService(t)
	ctx := context.Background()

	// Seed keywords alone give each category one sample; still below the
	// per-category minimum, so training reports the shortfall rather than
	// fitting a junk model.
	require.NoError(t, ps.CreateCategory(ctx, &models.Category{
		Name: "music", SeedKeywords: []string{"melody", "rhythm", "harmony"},
	}))
	require.NoError(t, ps.CreateCategory(ctx, &models.Category{
		Name: "sport", SeedKeywords: []string{"athlete", "stadium", "tournament"},
	}))

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.Equal(t, 2, report.SampleCount)
}

func TestClassifyTextWithoutModel(t *testing.T) {
	svc, _ := setupService(t)

	res := svc.ClassifyText(context.Background(), "anything at all")
	assert.Nil(t, res.CategoryID)
	assert.Equal(t, classifier.TierLow, res.Tier)
	assert.Equal(t, classifier.LabelUncategorized, res.Label)
}

func TestClassifyContentRecordsSuggestion(t *testing.T) {
	svc, ps := setupService(t)
	mathID, _ := seedCorpus(t, ps)
	ctx := context.Background()

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	require.True(t, report.Success, report.Message)

	content := &models.LabeledContent{Kind: models.KindQuestion, Text: "solve the equation for the matrix eigenvalues"}
	require.NoError(t, ps.CreateContent(ctx, content))

	res, entry, err := svc.ClassifyContent(ctx, content.ID)
	require.NoError(t, err)
	require.NotNil(t, res.CategoryID)
	require.NotNil(t, entry)
	assert.Equal(t, mathID, entry.SuggestedCategoryID)

	if res.Tier == classifier.TierHigh {
		// HIGH predictions auto-apply and resolve their own suggestion.
		got, err := ps.GetContent(ctx, content.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, mathID, *got.CategoryID)
		assert.True(t, got.AutoClassified)
		require.NotNil(t, entry.Accepted)
		assert.True(t, *entry.Accepted)
	}

	// Keywords are cached alongside.
	keywords, err := ps.GetContentKeywords(ctx, content.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, keywords)
}

func TestAcceptAndRejectSuggestion(t *testing.T) {
	svc, ps := setupService(t)
	mathID, bioID := seedCorpus(t, ps)
	ctx := context.Background()

	content := &models.LabeledContent{Kind: models.KindQuestion, Text: "pending review"}
	require.NoError(t, ps.CreateContent(ctx, content))

	entry := &models.ClassificationLog{
		ContentID:           content.ID,
		SuggestedCategoryID: mathID,
		Confidence:          0.45,
		Tier:                string(classifier.TierMedium),
	}
	require.NoError(t, ps.RecordSuggestion(ctx, entry))

	require.NoError(t, svc.AcceptSuggestion(ctx, entry.ID))
	got, err := ps.GetContent(ctx, content.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, mathID, *got.CategoryID)
	assert.False(t, got.AutoClassified)

	// Accepted suggestions cannot be re-resolved.
	assert.True(t, errors.Is(svc.AcceptSuggestion(ctx, entry.ID), models.ErrSuggestionResolved))
	assert.True(t, errors.Is(svc.RejectSuggestion(ctx, entry.ID), models.ErrSuggestionResolved))

	second := &models.ClassificationLog{
		ContentID:           content.ID,
		SuggestedCategoryID: bioID,
		Confidence:          0.35,
		Tier:                string(classifier.TierMedium),
	}
	require.NoError(t, ps.RecordSuggestion(ctx, second))
	require.NoError(t, svc.RejectSuggestion(ctx, second.ID))

	// Rejection leaves the content label untouched.
	got, err = ps.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, mathID, *got.CategoryID)
}

func TestSuggestTagsUsesKnownVocabulary(t *testing.T) {
	svc, ps := setupService(t)
	ctx := context.Background()

	_, err := ps.GetOrCreateTagsByName(ctx, []string{"equation", "membrane"})
	require.NoError(t, err)

	suggestions, err := svc.SuggestTags(ctx, "solve the equation equation equation carefully")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	found := false
	for _, s := range suggestions {
		if s.Tag == "equation" {
			found = true
			assert.True(t, s.Known)
		}
	}
	assert.True(t, found)
}

func TestEvaluateModelRequiresModel(t *testing.T) {
	svc, _ := setupService(t)

	_, _, err := svc.EvaluateModel(context.Background())
	assert.True(t, errors.Is(err, models.ErrNoModel))
}

func TestConcurrentTrainingRejected(t *testing.T) {
	svc, ps := setupService(t)
	seedCorpus(t, ps)
	ctx := context.Background()

	require.NoError(t, svc.Registry().AcquireTraining())
	_, err := svc.TrainClassifier(ctx)
	assert.True(t, errors.Is(err, models.ErrTrainingInProgress))
	svc.Registry().ReleaseTraining()

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	assert.True(t, report.Success, report.Message)
}

func TestClassifyDuringTraining(t *testing.T) {
	svc, ps := setupService(t)
	seedCorpus(t, ps)
	ctx := context.Background()

	report, err := svc.TrainClassifier(ctx)
	require.NoError(t, err)
	require.True(t, report.Success, report.Message)

	text := "the derivative of the polynomial equation"
	want := svc.ClassifyText(ctx, text)

	var wg sync.WaitGroup
	results := make([]classifier.ClassificationResult, 16)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.ClassifyText(ctx, text)
		}(i)
	}
	// Retrain concurrently; readers must see a complete model throughout.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.TrainClassifier(ctx); err != nil && !errors.Is(err, models.ErrTrainingInProgress) {
			t.Error(fmt.Errorf("concurrent training: %w", err))
		}
	}()
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res.CategoryID)
		assert.Equal(t, want.Label, res.Label)
	}
}

// failingSnapshotStore persists nothing; Save always reports a full disk.
type failingSnapshotStore struct{ store.ModelStore }

func (failingSnapshotStore) Save(*classifier.Model) (int64, error) {
	return 0, errors.New("disk full")
}

func TestTrainClassifierSnapshotSaveFailureFailsReport(t *testing.T) {
	ctx := context.Background()
	ps, err := primary.NewPrimaryStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })

	cfg := testConfig(t)
	ms, err := modelstore.NewFileStore(cfg.Model.Dir)
	require.NoError(t, err)

	svc := NewClassificationService(cfg, ps, ps, ps, ps, failingSnapshotStore{ms}, classifier.NewTokenizer())
	seedCorpus(t, ps)

	report, err := svc.TrainClassifier(ctx)
	require.Error(t, err)
	assert.False(t, report.Success, "a run that was not persisted must not read as published")
	assert.Contains(t, report.Message, "persist")

	// The unpersisted model must not be swapped in either.
	assert.Equal(t, StateUnloaded, svc.Registry().State())
	assert.Nil(t, svc.Registry().Current())
}
