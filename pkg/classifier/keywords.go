package classifier

import "sort"

// IDFSource supplies background rarity weights for keyword scoring. A trained
// Model is the usual source; a nil source switches the extractor to its
// frequency-only fallback.
type IDFSource interface {
	IDF(term string) float64
}

// KeywordExtractor scores the terms of a single document. Scoring is TF-IDF
// when a background source is available and plain term frequency otherwise;
// either way a term that is more frequent in the document, or rarer in the
// background corpus, never scores lower.
type KeywordExtractor struct {
	tok Tokenizer
}

// NewKeywordExtractor builds an extractor around the given tokenizer.
func NewKeywordExtractor(tok Tokenizer) *KeywordExtractor {
	return &KeywordExtractor{tok: tok}
}

// DefaultTopKeywords is the keyword count used when the caller passes topN <= 0.
const DefaultTopKeywords = 10

// Extract returns up to topN keywords sorted by descending weight, ties
// broken by first occurrence in the text. Weights are normalized to (0, 1]
// with the strongest keyword at 1. Extraction is deterministic: the same text
// against the same background always yields the identical slice. Empty input
// yields an empty slice.
func (e *KeywordExtractor) Extract(text string, topN int, bg IDFSource) []KeywordResult {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}
	tokens := e.tok.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	type candidate struct {
		term   string
		weight float64
		first  int
	}
	tf := make(map[string]float64, len(tokens))
	first := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		if _, ok := first[tok.Term]; !ok {
			first[tok.Term] = tok.Pos
		}
		tf[tok.Term]++
	}

	cands := make([]candidate, 0, len(tf))
	var maxWeight float64
	for term, n := range tf {
		w := n / float64(len(tokens))
		if bg != nil {
			w *= bg.IDF(term)
		}
		cands = append(cands, candidate{term: term, weight: w, first: first[term]})
		if w > maxWeight {
			maxWeight = w
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].weight != cands[j].weight {
			return cands[i].weight > cands[j].weight
		}
		return cands[i].first < cands[j].first
	})
	if len(cands) > topN {
		cands = cands[:topN]
	}

	results := make([]KeywordResult, len(cands))
	for i, c := range cands {
		results[i] = KeywordResult{Term: c.term, Weight: c.weight / maxWeight}
	}
	return results
}
