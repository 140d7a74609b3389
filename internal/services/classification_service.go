package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minerva/internal/config"
	"minerva/internal/models"
	"minerva/internal/store"
	"minerva/pkg/classifier"

	log "github.com/sirupsen/logrus"
)

// ClassificationService orchestrates training, classification, keyword
// extraction and tag recommendation over the stored corpus. Classification is
// safe to call concurrently with training: readers always see either the
// previous resident model or the newly published one, never a partial state.
type ClassificationService struct {
	cfg      *config.Config
	corpus   store.CorpusStore
	cats     store.CategoryStore
	tags     store.TagStore
	logs     store.LogStore
	modelDir store.ModelStore

	registry  *ModelRegistry
	clf       *classifier.CategoryClassifier
	extractor *classifier.KeywordExtractor
	reco      *classifier.TagRecommender
}

func NewClassificationService(
	cfg *config.Config,
	corpus store.CorpusStore,
	cats store.CategoryStore,
	tags store.TagStore,
	logs store.LogStore,
	modelStore store.ModelStore,
	tok classifier.Tokenizer,
) *ClassificationService {
	clf := classifier.NewCategoryClassifier(tok, classifier.TrainOptions{
		MinSamplesPerCategory: cfg.Model.MinSamplesPerCategory,
		TrainSplit:            cfg.Model.TrainSplit,
		MaxFeatures:           cfg.Model.MaxFeatures,
		MinDocFreq:            cfg.Model.MinDocFreq,
		HighThreshold:         cfg.Model.HighThreshold,
		MediumThreshold:       cfg.Model.MediumThreshold,
	})
	extractor := classifier.NewKeywordExtractor(tok)
	return &ClassificationService{
		cfg:       cfg,
		corpus:    corpus,
		cats:      cats,
		tags:      tags,
		logs:      logs,
		modelDir:  modelStore,
		registry:  NewModelRegistry(),
		clf:       clf,
		extractor: extractor,
		reco:      classifier.NewTagRecommender(extractor, cfg.Keywords.MaxTags),
	}
}

// Registry exposes the model registry, mainly for status reporting.
func (s *ClassificationService) Registry() *ModelRegistry { return s.registry }

// LoadModel loads the latest persisted snapshot into the registry. A missing
// snapshot leaves the registry unloaded and is not an error.
func (s *ClassificationService) LoadModel(ctx context.Context) error {
	s.registry.BeginLoading()
	m, err := s.modelDir.LoadLatest()
	if err != nil {
		s.registry.Swap(nil)
		if errors.Is(err, models.ErrNoModel) {
			log.Info("No trained model snapshot found; classifier starts unloaded")
			return nil
		}
		return fmt.Errorf("load latest model: %w", err)
	}
	s.registry.Swap(m)
	log.WithFields(log.Fields{
		"version":    m.Version,
		"categories": len(m.CategoryIDs),
		"vocabulary": len(m.Vocabulary),
	}).Info("Loaded model snapshot")
	return nil
}

// TrainClassifier runs one full training pass: gather the labeled corpus
// (plus per-category seed-keyword samples), fit a model, gate it on held-out
// accuracy, persist it and atomically swap it in. Concurrent calls are
// rejected with ErrTrainingInProgress rather than queued; the previous model
// keeps serving until the new one is published.
func (s *ClassificationService) TrainClassifier(ctx context.Context) (classifier.TrainingReport, error) {
	if err := s.registry.AcquireTraining(); err != nil {
		return classifier.TrainingReport{}, err
	}
	defer s.registry.ReleaseTraining()

	items, names, err := s.gatherTrainingItems(ctx)
	if err != nil {
		return classifier.TrainingReport{}, err
	}

	log.WithField("samples", len(items)).Info("Starting training run")
	model, report := s.clf.Train(items, names)
	if !report.Success {
		log.WithField("message", report.Message).Warn("Training run failed")
		return report, nil
	}
	if report.Accuracy < s.cfg.Model.AcceptanceAccuracy {
		report.Success = false
		report.Message = fmt.Sprintf("held-out accuracy %.2f below acceptance floor %.2f; keeping previous model",
			report.Accuracy, s.cfg.Model.AcceptanceAccuracy)
		log.WithFields(log.Fields{
			"accuracy": report.Accuracy,
			"floor":    s.cfg.Model.AcceptanceAccuracy,
		}).Warn("Training run rejected by acceptance gate")
		return report, nil
	}

	version, err := s.modelDir.Save(model)
	if err != nil {
		report.Success = false
		report.Message = fmt.Sprintf("failed to persist model snapshot: %v; keeping previous model", err)
		log.WithError(err).Error("Model snapshot save failed")
		return report, fmt.Errorf("persist model snapshot: %w", err)
	}
	s.registry.Swap(model)
	log.WithFields(log.Fields{
		"version":  version,
		"accuracy": report.Accuracy,
		"samples":  report.SampleCount,
	}).Info("Published new model")
	return report, nil
}

// gatherTrainingItems assembles the labeled corpus plus one synthetic sample
// per category built from its seed keywords, so a freshly seeded category can
// participate before it has organic samples.
func (s *ClassificationService) gatherTrainingItems(ctx context.Context) ([]classifier.TrainingItem, map[int64]string, error) {
	labeled, err := s.corpus.ListLabeledContent(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list labeled content: %w", err)
	}
	cats, err := s.cats.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}

	names := make(map[int64]string, len(cats))
	items := make([]classifier.TrainingItem, 0, len(labeled)+len(cats))
	for _, c := range labeled {
		if c.CategoryID == nil {
			continue
		}
		items = append(items, classifier.TrainingItem{Text: c.Text, CategoryID: *c.CategoryID})
	}
	for _, cat := range cats {
		names[cat.ID] = cat.Name
		if len(cat.SeedKeywords) > 0 {
			items = append(items, classifier.TrainingItem{
				Text:       strings.Join(cat.SeedKeywords, " "),
				CategoryID: cat.ID,
			})
		}
	}
	return items, names, nil
}

// ClassifyText classifies ad-hoc text against the resident model. With no
// model resident the result degrades to uncategorized rather than failing.
func (s *ClassificationService) ClassifyText(ctx context.Context, text string) classifier.ClassificationResult {
	return s.clf.Classify(s.registry.Current(), text)
}

// ClassifyContent classifies a stored content item. Non-LOW predictions are
// recorded as suggestions; HIGH-confidence predictions are additionally
// applied to the content row right away. Extracted keywords are cached
// alongside. The returned log is nil for LOW results.
func (s *ClassificationService) ClassifyContent(ctx context.Context, contentID int64) (classifier.ClassificationResult, *models.ClassificationLog, error) {
	content, err := s.corpus.GetContent(ctx, contentID)
	if err != nil {
		return classifier.ClassificationResult{}, nil, err
	}
	result := s.clf.Classify(s.registry.Current(), content.Text)

	if keywords := s.extractor.Extract(content.Text, s.cfg.Keywords.TopN, s.idfSource()); len(keywords) > 0 {
		if err := s.corpus.ReplaceContentKeywords(ctx, contentID, keywords); err != nil {
			log.WithError(err).WithField("content_id", contentID).Warn("Failed to cache content keywords")
		}
	}

	if result.CategoryID == nil {
		return result, nil, nil
	}

	entry := &models.ClassificationLog{
		ContentID:           contentID,
		SuggestedCategoryID: *result.CategoryID,
		Confidence:          result.Confidence,
		Tier:                string(result.Tier),
	}
	if err := s.logs.RecordSuggestion(ctx, entry); err != nil {
		return result, nil, fmt.Errorf("record suggestion: %w", err)
	}

	if result.Tier == classifier.TierHigh {
		if err := s.corpus.UpdateContentCategory(ctx, contentID, result.CategoryID, true); err != nil {
			return result, entry, fmt.Errorf("auto-apply category: %w", err)
		}
		if err := s.logs.ResolveSuggestion(ctx, entry.ID, true); err != nil {
			return result, entry, fmt.Errorf("resolve auto-applied suggestion: %w", err)
		}
		accepted := true
		entry.Accepted = &accepted
	}
	return result, entry, nil
}

// AcceptSuggestion applies a recorded suggestion to its content item and
// marks it accepted. A resolved suggestion cannot be accepted again.
func (s *ClassificationService) AcceptSuggestion(ctx context.Context, logID int64) error {
	entry, err := s.logs.GetSuggestion(ctx, logID)
	if err != nil {
		return err
	}
	if entry.Accepted != nil {
		return models.ErrSuggestionResolved
	}
	catID := entry.SuggestedCategoryID
	if err := s.corpus.UpdateContentCategory(ctx, entry.ContentID, &catID, false); err != nil {
		return fmt.Errorf("apply accepted category: %w", err)
	}
	return s.logs.ResolveSuggestion(ctx, logID, true)
}

// RejectSuggestion marks a suggestion rejected without touching the content.
func (s *ClassificationService) RejectSuggestion(ctx context.Context, logID int64) error {
	return s.logs.ResolveSuggestion(ctx, logID, false)
}

// ExtractKeywords scores the top keywords of the given text, using the
// resident model's IDF table as background when one is loaded.
func (s *ClassificationService) ExtractKeywords(ctx context.Context, text string, topN int) []classifier.KeywordResult {
	if topN <= 0 {
		topN = s.cfg.Keywords.TopN
	}
	return s.extractor.Extract(text, topN, s.idfSource())
}

// SuggestTags recommends tags for the text against the stored tag vocabulary.
func (s *ClassificationService) SuggestTags(ctx context.Context, text string) ([]classifier.TagSuggestion, error) {
	known, err := s.tags.ListTagNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tag names: %w", err)
	}
	return s.reco.Recommend(text, known, s.idfSource()), nil
}

// EvaluateModel measures resident-model accuracy over the full labeled corpus.
func (s *ClassificationService) EvaluateModel(ctx context.Context) (float64, int, error) {
	m := s.registry.Current()
	if m == nil {
		return 0, 0, models.ErrNoModel
	}
	labeled, err := s.corpus.ListLabeledContent(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list labeled content: %w", err)
	}
	items := make([]classifier.TrainingItem, 0, len(labeled))
	for _, c := range labeled {
		if c.CategoryID == nil {
			continue
		}
		items = append(items, classifier.TrainingItem{Text: c.Text, CategoryID: *c.CategoryID})
	}
	if len(items) == 0 {
		return 0, 0, nil
	}
	return s.clf.Evaluate(m, items), len(items), nil
}

// idfSource returns the resident model as keyword background, or nil (the
// frequency-only fallback) when no model is loaded. The interface value must
// be built from a non-nil pointer only.
func (s *ClassificationService) idfSource() classifier.IDFSource {
	if m := s.registry.Current(); m != nil {
		return m
	}
	return nil
}
