// Package classifier implements the content-intelligence core of the
// platform: a trainable naive-Bayes category classifier over TF-IDF features,
// a keyword extractor, and a tag recommender, all built on one deterministic
// tokenizer. The package has no knowledge of storage or transport; callers
// hand it labeled samples and raw text.
package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// TrainOptions tunes a training run. Zero values fall back to the defaults
// noted per field.
type TrainOptions struct {
	// MinSamplesPerCategory excludes categories with fewer labeled samples
	// from the run instead of failing it. Default 5, floor 2 (a category
	// needs at least one training and one held-out sample).
	MinSamplesPerCategory int
	// TrainSplit is the per-category share of samples used for fitting; the
	// remainder is held out for honest accuracy. Default 0.8.
	TrainSplit float64
	// MinDocFreq drops terms seen in fewer documents. Default 1.
	MinDocFreq int
	// MaxFeatures caps the vocabulary size. Default 5000.
	MaxFeatures int
	// MaxDocFreqRatio drops terms present in more than this share of the
	// training documents. Default 0.95.
	MaxDocFreqRatio float64
	// Alpha is the Lidstone smoothing constant. Default 0.1.
	Alpha float64
	// HighThreshold / MediumThreshold delimit the confidence tiers.
	// Defaults 0.5 / 0.3; 0 <= medium < high <= 1 must hold.
	HighThreshold   float64
	MediumThreshold float64
	// MaxAlternatives bounds the runner-up list. Default MaxAlternatives.
	MaxAlternatives int
	// Seed drives the stratified-split shuffle so runs are reproducible.
	// Default 42.
	Seed int64
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.MinSamplesPerCategory <= 0 {
		o.MinSamplesPerCategory = 5
	}
	if o.MinSamplesPerCategory < 2 {
		o.MinSamplesPerCategory = 2
	}
	if o.TrainSplit <= 0 || o.TrainSplit >= 1 {
		o.TrainSplit = 0.8
	}
	if o.MinDocFreq <= 0 {
		o.MinDocFreq = 1
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = 5000
	}
	if o.MaxDocFreqRatio <= 0 || o.MaxDocFreqRatio > 1 {
		o.MaxDocFreqRatio = 0.95
	}
	if o.Alpha <= 0 {
		o.Alpha = 0.1
	}
	if o.HighThreshold <= 0 {
		o.HighThreshold = DefaultHighThreshold
	}
	if o.MediumThreshold <= 0 {
		o.MediumThreshold = DefaultMediumThreshold
	}
	if o.MaxAlternatives <= 0 {
		o.MaxAlternatives = MaxAlternatives
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// CategoryClassifier trains models and classifies text against them. The
// classifier itself is stateless between calls; all trained state lives in
// the immutable Model values it produces.
type CategoryClassifier struct {
	tok  Tokenizer
	opts TrainOptions
}

// NewCategoryClassifier builds a classifier around the given tokenizer.
func NewCategoryClassifier(tok Tokenizer, opts TrainOptions) *CategoryClassifier {
	return &CategoryClassifier{tok: tok, opts: opts.withDefaults()}
}

// Options returns the effective (default-filled) options.
func (c *CategoryClassifier) Options() TrainOptions { return c.opts }

// Train fits a new model on the labeled samples. Categories below the
// per-category minimum are excluded from the run and named in the report
// message; the run fails only when fewer than two categories qualify or the
// held-out partition ends up empty. The returned model is nil on failure.
func (c *CategoryClassifier) Train(items []TrainingItem, names map[int64]string) (*Model, TrainingReport) {
	type sample struct {
		tokens []Token
		label  int64
	}

	var samples []sample
	for _, it := range items {
		toks := c.tok.Tokenize(it.Text)
		if len(toks) == 0 {
			continue
		}
		samples = append(samples, sample{tokens: toks, label: it.CategoryID})
	}
	if len(samples) == 0 {
		return nil, TrainingReport{Message: "no usable training samples: every text tokenized to nothing"}
	}

	byCat := make(map[int64][]int)
	for i, s := range samples {
		byCat[s.label] = append(byCat[s.label], i)
	}

	var catIDs []int64
	for id := range byCat {
		catIDs = append(catIDs, id)
	}
	sort.Slice(catIDs, func(i, j int) bool { return catIDs[i] < catIDs[j] })

	var qualified []int64
	var excluded []string
	for _, id := range catIDs {
		if len(byCat[id]) < c.opts.MinSamplesPerCategory {
			excluded = append(excluded, categoryLabel(id, names))
			continue
		}
		qualified = append(qualified, id)
	}

	exclNote := ""
	if len(excluded) > 0 {
		exclNote = fmt.Sprintf("; excluded categories with fewer than %d samples: %s",
			c.opts.MinSamplesPerCategory, strings.Join(excluded, ", "))
	}

	if len(qualified) < 2 {
		return nil, TrainingReport{
			Message:     fmt.Sprintf("need at least 2 categories with %d+ samples, have %d%s", c.opts.MinSamplesPerCategory, len(qualified), exclNote),
			SampleCount: len(samples),
		}
	}

	// Stratified split: shuffle inside each category, then cut at the split
	// ratio. The seeded shuffle keeps successive runs reproducible.
	rng := rand.New(rand.NewSource(c.opts.Seed))
	var trainIdx, heldIdx []int
	for _, id := range qualified {
		idx := append([]int(nil), byCat[id]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		cut := int(float64(len(idx)) * c.opts.TrainSplit)
		if cut < 1 {
			cut = 1
		}
		if cut >= len(idx) {
			cut = len(idx) - 1
		}
		trainIdx = append(trainIdx, idx[:cut]...)
		heldIdx = append(heldIdx, idx[cut:]...)
	}
	used := len(trainIdx) + len(heldIdx)
	if len(heldIdx) == 0 {
		return nil, TrainingReport{
			Message:     "held-out partition is empty; cannot measure accuracy" + exclNote,
			SampleCount: used,
		}
	}

	trainDocs := make([][]Token, len(trainIdx))
	for i, si := range trainIdx {
		trainDocs[i] = samples[si].tokens
	}
	terms, docFreq := fitVocabulary(trainDocs, c.opts.MinDocFreq, c.opts.MaxFeatures, c.opts.MaxDocFreqRatio)
	if len(terms) == 0 {
		return nil, TrainingReport{
			Message:     "vocabulary is empty after document-frequency filtering" + exclNote,
			SampleCount: used,
		}
	}

	model := &Model{
		TrainedAt:     time.Now().UTC(),
		Vocabulary:    terms,
		IDFValues:     smoothedIDF(docFreq, len(trainDocs)),
		DocCount:      len(trainDocs),
		CategoryIDs:   qualified,
		CategoryNames: make(map[int64]string, len(qualified)),
	}
	model.Reindex()
	for _, id := range qualified {
		model.CategoryNames[id] = categoryLabel(id, names)
	}

	// Multinomial naive Bayes over the TF-IDF features.
	classOf := make(map[int64]int, len(qualified))
	for ci, id := range qualified {
		classOf[id] = ci
	}
	counts := make([]float64, len(qualified))
	sums := make([][]float64, len(qualified))
	for ci := range sums {
		sums[ci] = make([]float64, len(terms))
	}
	for _, si := range trainIdx {
		ci := classOf[samples[si].label]
		counts[ci]++
		vec := model.Vectorize(samples[si].tokens)
		for i, v := range vec {
			sums[ci][i] += v
		}
	}

	model.ClassLogPrior = make([]float64, len(qualified))
	model.FeatureLogProb = make([][]float64, len(qualified))
	for ci := range qualified {
		model.ClassLogPrior[ci] = math.Log(counts[ci] / float64(len(trainIdx)))
		row := make([]float64, len(terms))
		var total float64
		for _, v := range sums[ci] {
			total += v
		}
		denom := math.Log(total + c.opts.Alpha*float64(len(terms)))
		for i, v := range sums[ci] {
			row[i] = math.Log(v+c.opts.Alpha) - denom
		}
		model.FeatureLogProb[ci] = row
	}

	correct := 0
	for _, si := range heldIdx {
		if pred, ok := c.predict(model, samples[si].tokens); ok && pred == samples[si].label {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(heldIdx))

	report := TrainingReport{
		Success:     true,
		Accuracy:    accuracy,
		SampleCount: used,
		Message: fmt.Sprintf("trained %d categories on %d samples, held-out accuracy %.2f%s",
			len(qualified), used, accuracy, exclNote),
	}
	return model, report
}

// Classify assigns a category to text. It never fails for well-formed string
// input: empty, whitespace-only, or fully out-of-vocabulary text (and a nil
// model) all degrade to the uncategorized LOW result.
func (c *CategoryClassifier) Classify(m *Model, text string) ClassificationResult {
	if m == nil {
		return Uncategorized()
	}
	tokens := c.tok.Tokenize(text)
	if len(tokens) == 0 {
		return Uncategorized()
	}
	vec := m.Vectorize(tokens)
	if isZeroVector(vec) {
		return Uncategorized()
	}

	post := m.posteriors(vec)
	best := 0
	for ci := range post {
		if post[ci] > post[best] {
			best = ci
		}
	}
	confidence := clamp01(post[best])
	tier := TierFor(confidence, c.opts.MediumThreshold, c.opts.HighThreshold)

	order := make([]int, 0, len(post)-1)
	for ci := range post {
		if ci != best {
			order = append(order, ci)
		}
	}
	sort.Slice(order, func(i, j int) bool { return post[order[i]] > post[order[j]] })
	if len(order) > c.opts.MaxAlternatives {
		order = order[:c.opts.MaxAlternatives]
	}
	alts := make([]Alternative, len(order))
	for i, ci := range order {
		alts[i] = Alternative{
			CategoryID: m.CategoryIDs[ci],
			Label:      m.CategoryNames[m.CategoryIDs[ci]],
			Confidence: clamp01(post[ci]),
		}
	}

	if tier == TierLow {
		res := Uncategorized()
		res.Confidence = confidence
		res.Alternatives = alts
		return res
	}

	id := m.CategoryIDs[best]
	return ClassificationResult{
		CategoryID:   &id,
		Label:        m.CategoryNames[id],
		Confidence:   confidence,
		Tier:         tier,
		Alternatives: alts,
	}
}

// Evaluate returns plain top-1 accuracy of the model on the labeled samples.
// It is pure and shares no state with training.
func (c *CategoryClassifier) Evaluate(m *Model, items []TrainingItem) float64 {
	if m == nil || len(items) == 0 {
		return 0
	}
	correct := 0
	for _, it := range items {
		if pred, ok := c.predict(m, c.tok.Tokenize(it.Text)); ok && pred == it.CategoryID {
			correct++
		}
	}
	return float64(correct) / float64(len(items))
}

// predict returns the argmax category for a token sequence, or ok=false when
// the document has no in-vocabulary terms.
func (c *CategoryClassifier) predict(m *Model, tokens []Token) (int64, bool) {
	if len(tokens) == 0 {
		return 0, false
	}
	vec := m.Vectorize(tokens)
	if isZeroVector(vec) {
		return 0, false
	}
	post := m.posteriors(vec)
	best := 0
	for ci := range post {
		if post[ci] > post[best] {
			best = ci
		}
	}
	return m.CategoryIDs[best], true
}

func categoryLabel(id int64, names map[int64]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("category-%d", id)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
