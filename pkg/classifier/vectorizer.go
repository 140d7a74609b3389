package classifier

import (
	"math"
	"sort"
)

// vocabEntry pairs a term with its corpus document frequency.
type vocabEntry struct {
	term string
	df   int
}

// fitVocabulary assigns each surviving term a stable index over the training
// corpus. Terms are ranked by document frequency (descending, ties broken
// lexicographically) so the assignment is deterministic; terms below minDF or
// present in more than maxDFRatio of the documents are dropped, and the
// vocabulary is capped at maxFeatures.
func fitVocabulary(docs [][]Token, minDF, maxFeatures int, maxDFRatio float64) ([]string, []int) {
	if minDF < 1 {
		minDF = 1
	}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := seen[tok.Term]; ok {
				continue
			}
			seen[tok.Term] = struct{}{}
			df[tok.Term]++
		}
	}

	ceiling := len(docs) + 1
	if maxDFRatio > 0 {
		ceiling = int(math.Floor(maxDFRatio * float64(len(docs))))
	}

	entries := make([]vocabEntry, 0, len(df))
	for term, n := range df {
		if n < minDF || n > ceiling {
			continue
		}
		entries = append(entries, vocabEntry{term: term, df: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].df != entries[j].df {
			return entries[i].df > entries[j].df
		}
		return entries[i].term < entries[j].term
	})
	if maxFeatures > 0 && len(entries) > maxFeatures {
		entries = entries[:maxFeatures]
	}

	terms := make([]string, len(entries))
	freqs := make([]int, len(entries))
	for i, e := range entries {
		terms[i] = e.term
		freqs[i] = e.df
	}
	return terms, freqs
}

// smoothedIDF computes log((1+N)/(1+df)) + 1 per vocabulary slot. The +1
// terms keep unseen-document frequencies finite and every weight positive.
func smoothedIDF(docFreq []int, totalDocs int) []float64 {
	idf := make([]float64, len(docFreq))
	for i, df := range docFreq {
		idf[i] = math.Log(float64(1+totalDocs)/float64(1+df)) + 1
	}
	return idf
}

// transform builds the L2-normalized TF-IDF feature vector for one token
// sequence. Out-of-vocabulary terms are silently dropped; a document with no
// in-vocabulary terms yields the zero vector.
func transform(tokens []Token, index map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(idf))
	for _, tok := range tokens {
		if i, ok := index[tok.Term]; ok {
			vec[i] += idf[i]
		}
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
