package classifier

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mathWords = []string{
	"equation", "algebra", "derivative", "integral", "polynomial",
	"theorem", "geometry", "matrix", "vector", "calculus",
}

var biologyWords = []string{
	"cell", "photosynthesis", "mitochondria", "enzyme", "protein",
	"organism", "chromosome", "membrane", "bacteria", "evolution",
}

// buildCorpus synthesizes n labeled samples per category from disjoint word
// pools, deterministic in the seed.
func buildCorpus(n int, seed int64) []TrainingItem {
	rng := rand.New(rand.NewSource(seed))
	var items []TrainingItem
	for i := 0; i < n; i++ {
		items = append(items, TrainingItem{Text: sampleText(rng, mathWords), CategoryID: 1})
		items = append(items, TrainingItem{Text: sampleText(rng, biologyWords), CategoryID: 2})
	}
	return items
}

func sampleText(rng *rand.Rand, pool []string) string {
	words := make([]string, 6+rng.Intn(5))
	for i := range words {
		words[i] = pool[rng.Intn(len(pool))]
	}
	text := ""
	for i, w := range words {
		if i > 0 {
			text += " "
		}
		text += w
	}
	return text
}

var testNames = map[int64]string{1: "math", 2: "biology"}

func newTestClassifier() *CategoryClassifier {
	return NewCategoryClassifier(NewTokenizer(), TrainOptions{})
}

func TestTrainAndClassifyCleanCorpus(t *testing.T) {
	c := newTestClassifier()
	model, report := c.Train(buildCorpus(50, 7), testNames)

	require.True(t, report.Success, report.Message)
	require.NotNil(t, model)
	assert.GreaterOrEqual(t, report.Accuracy, 0.8, "held-out accuracy on disjoint vocabularies")
	assert.Equal(t, 100, report.SampleCount)

	res := c.Classify(model, "the derivative of a polynomial equation")
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, "math", res.Label)
	assert.Equal(t, TierHigh, res.Tier)

	res = c.Classify(model, "photosynthesis happens in the cell membrane")
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, "biology", res.Label)
}

func TestTrainExcludesThinCategories(t *testing.T) {
	items := buildCorpus(10, 3)
	items = append(items, TrainingItem{Text: "lonely historical artifact description", CategoryID: 3})
	names := map[int64]string{1: "math", 2: "biology", 3: "history"}

	c := newTestClassifier()
	model, report := c.Train(items, names)

	require.True(t, report.Success, report.Message)
	assert.Contains(t, report.Message, "history")
	assert.NotContains(t, model.CategoryIDs, int64(3))
}

func TestTrainFailsWithOneCategory(t *testing.T) {
	var items []TrainingItem
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		items = append(items, TrainingItem{Text: sampleText(rng, mathWords), CategoryID: 1})
	}

	c := newTestClassifier()
	model, report := c.Train(items, testNames)

	assert.False(t, report.Success)
	assert.Nil(t, model)
}

func TestTrainFailsOnEmptyInput(t *testing.T) {
	c := newTestClassifier()

	model, report := c.Train(nil, nil)
	assert.False(t, report.Success)
	assert.Nil(t, model)

	// Samples that tokenize to nothing count as no samples.
	model, report = c.Train([]TrainingItem{{Text: "   ", CategoryID: 1}}, nil)
	assert.False(t, report.Success)
	assert.Nil(t, model)
}

func TestTrainIsReproducible(t *testing.T) {
	items := buildCorpus(20, 5)
	c := newTestClassifier()

	_, first := c.Train(items, testNames)
	_, second := c.Train(items, testNames)

	require.True(t, first.Success)
	assert.Equal(t, first.Accuracy, second.Accuracy)
	assert.Equal(t, first.SampleCount, second.SampleCount)
}

func TestClassifyDegradesToUncategorized(t *testing.T) {
	c := newTestClassifier()
	model, report := c.Train(buildCorpus(10, 9), testNames)
	require.True(t, report.Success, report.Message)

	for name, text := range map[string]string{
		"empty":             "",
		"whitespace":        "   \n\t ",
		"out of vocabulary": "zzyzx qwfp xkcd",
	} {
		res := c.Classify(model, text)
		assert.Nil(t, res.CategoryID, name)
		assert.Equal(t, LabelUncategorized, res.Label, name)
		assert.Equal(t, TierLow, res.Tier, name)
	}

	res := c.Classify(nil, "any text at all")
	assert.Nil(t, res.CategoryID)
	assert.Equal(t, TierLow, res.Tier)
}

func TestClassifyTierMatchesConfidence(t *testing.T) {
	c := newTestClassifier()
	model, report := c.Train(buildCorpus(30, 13), testNames)
	require.True(t, report.Success, report.Message)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		pool := mathWords
		if i%2 == 0 {
			pool = biologyWords
		}
		res := c.Classify(model, sampleText(rng, pool))
		assert.Equal(t, TierFor(res.Confidence, DefaultMediumThreshold, DefaultHighThreshold), res.Tier)
		if res.Tier == TierLow {
			assert.Nil(t, res.CategoryID)
		} else {
			assert.NotNil(t, res.CategoryID)
		}
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 1.0)
	}
}

func TestClassifyAlternativesSortedAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	var items []TrainingItem
	names := make(map[int64]string)
	pools := [][]string{mathWords, biologyWords,
		{"sonata", "melody", "rhythm", "harmony", "chord", "tempo", "octave", "scale"},
		{"goal", "stadium", "athlete", "tournament", "referee", "score", "league", "coach"},
		{"canvas", "palette", "brush", "sketch", "gallery", "portrait", "sculpture", "mural"},
	}
	for ci, pool := range pools {
		id := int64(ci + 1)
		names[id] = fmt.Sprintf("cat-%d", id)
		for i := 0; i < 12; i++ {
			items = append(items, TrainingItem{Text: sampleText(rng, pool), CategoryID: id})
		}
	}

	c := newTestClassifier()
	model, report := c.Train(items, names)
	require.True(t, report.Success, report.Message)

	res := c.Classify(model, sampleText(rng, pools[0]))
	assert.LessOrEqual(t, len(res.Alternatives), MaxAlternatives)
	for i := 1; i < len(res.Alternatives); i++ {
		assert.GreaterOrEqual(t, res.Alternatives[i-1].Confidence, res.Alternatives[i].Confidence)
	}
	for _, alt := range res.Alternatives {
		if res.CategoryID != nil {
			assert.NotEqual(t, *res.CategoryID, alt.CategoryID)
		}
	}
}

func TestEvaluateOnTrainingCorpus(t *testing.T) {
	items := buildCorpus(30, 17)
	c := newTestClassifier()
	model, report := c.Train(items, testNames)
	require.True(t, report.Success, report.Message)

	accuracy := c.Evaluate(model, items)
	assert.GreaterOrEqual(t, accuracy, 0.8)

	assert.Zero(t, c.Evaluate(nil, items))
	assert.Zero(t, c.Evaluate(model, nil))
}

func TestTierForBoundaries(t *testing.T) {
	assert.Equal(t, TierHigh, TierFor(0.5, 0.3, 0.5))
	assert.Equal(t, TierHigh, TierFor(1.0, 0.3, 0.5))
	assert.Equal(t, TierMedium, TierFor(0.49999, 0.3, 0.5))
	assert.Equal(t, TierMedium, TierFor(0.3, 0.3, 0.5))
	assert.Equal(t, TierLow, TierFor(0.29999, 0.3, 0.5))
	assert.Equal(t, TierLow, TierFor(0.0, 0.3, 0.5))
}
