package classifier

import (
	"math"
	"time"
)

// Model is an immutable trained snapshot. Once built it is never mutated, so
// it may be shared freely across goroutines; a new training run always
// produces a brand-new value. Feature vectors are only meaningful against the
// vocabulary of the model version that produced them.
type Model struct {
	Version        int64            `json:"version"`
	TrainedAt      time.Time        `json:"trained_at"`
	Vocabulary     []string         `json:"vocabulary"`
	IDFValues      []float64        `json:"idf"`
	DocCount       int              `json:"doc_count"`
	CategoryIDs    []int64          `json:"category_ids"`
	CategoryNames  map[int64]string `json:"category_names"`
	ClassLogPrior  []float64        `json:"class_log_prior"`
	FeatureLogProb [][]float64      `json:"feature_log_prob"`

	index map[string]int
}

// Reindex rebuilds the term lookup table. It must be called after decoding a
// snapshot; Train does it automatically.
func (m *Model) Reindex() {
	m.index = make(map[string]int, len(m.Vocabulary))
	for i, term := range m.Vocabulary {
		m.index[term] = i
	}
}

// IDF returns the inverse-document-frequency weight for a term. Terms the
// model never saw get the zero-frequency weight, the highest the table can
// produce, so unseen terms count as maximally rare.
func (m *Model) IDF(term string) float64 {
	if i, ok := m.index[term]; ok {
		return m.IDFValues[i]
	}
	return math.Log(float64(1+m.DocCount)) + 1
}

// Vectorize maps a token sequence into this model's feature space.
func (m *Model) Vectorize(tokens []Token) []float64 {
	return transform(tokens, m.index, m.IDFValues)
}

// posteriors computes the per-class posterior probabilities for a non-zero
// feature vector via the normalized log-joint.
func (m *Model) posteriors(vec []float64) []float64 {
	joint := make([]float64, len(m.CategoryIDs))
	for c := range m.CategoryIDs {
		score := m.ClassLogPrior[c]
		row := m.FeatureLogProb[c]
		for i, v := range vec {
			if v != 0 {
				score += v * row[i]
			}
		}
		joint[c] = score
	}

	// Softmax with the max subtracted for numeric stability.
	maxJoint := math.Inf(-1)
	for _, s := range joint {
		if s > maxJoint {
			maxJoint = s
		}
	}
	var sum float64
	post := make([]float64, len(joint))
	for c, s := range joint {
		post[c] = math.Exp(s - maxJoint)
		sum += post[c]
	}
	for c := range post {
		post[c] /= sum
	}
	return post
}

func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
