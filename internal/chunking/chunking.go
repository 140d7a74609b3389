// Package chunking splits long course material into sentence-aligned
// passages before they enter the corpus, so one oversized document does not
// dominate training as a single sample.
package chunking

import (
	"strings"

	"github.com/neurosnap/sentences"
)

const (
	// DefaultMaxSentences bounds passage length when the caller passes zero.
	DefaultMaxSentences = 8
	// DefaultOverlap is the number of sentences repeated between adjacent
	// passages to preserve context across the cut.
	DefaultOverlap = 1
)

// Splitter produces sentence-aligned passages from raw text.
type Splitter struct {
	maxSentences int
	overlap      int
	tokenizer    *sentences.DefaultSentenceTokenizer
}

// NewSplitter validates and defaults the passage parameters.
func NewSplitter(maxSentences, overlap int) *Splitter {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= maxSentences {
		overlap = maxSentences - 1
	}
	return &Splitter{
		maxSentences: maxSentences,
		overlap:      overlap,
		tokenizer:    sentences.NewSentenceTokenizer(nil),
	}
}

// Split breaks text into passages of at most maxSentences sentences with the
// configured sentence overlap between adjacent passages. Text that fits in
// one passage comes back unchanged as a single element; empty or
// whitespace-only text yields nil.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sents := s.sentences(text)
	if len(sents) <= s.maxSentences {
		return []string{text}
	}

	step := s.maxSentences - s.overlap
	var passages []string
	for start := 0; start < len(sents); start += step {
		end := start + s.maxSentences
		if end > len(sents) {
			end = len(sents)
		}
		passage := strings.TrimSpace(strings.Join(sents[start:end], " "))
		if passage != "" {
			passages = append(passages, passage)
		}
		if end == len(sents) {
			break
		}
	}
	return passages
}

// sentences segments text, additionally cutting on CJK terminal punctuation
// that the default English tokenizer does not treat as a boundary.
func (s *Splitter) sentences(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		for _, part := range splitCJK(sent.Text) {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// splitCJK cuts a string after each CJK sentence terminator, keeping the
// terminator with its sentence.
func splitCJK(text string) []string {
	var parts []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		switch r {
		case '。', '！', '？':
			parts = append(parts, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}
