package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Token is a normalized term together with its ordinal position in the text.
type Token struct {
	Term string
	Pos  int
}

// Tokenizer turns raw text into an ordered sequence of normalized terms.
// Implementations must be deterministic: the same text always yields the
// same token sequence.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// TextTokenizer is the default dictionary-free tokenizer. Latin letter/digit
// runs become lowercase word tokens; contiguous Han runs are emitted as
// overlapping character bigrams, which keeps CJK segmentation deterministic
// without a word dictionary. Full-width characters are folded to their
// half-width forms before scanning.
type TextTokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the built-in stopword lists plus any
// extra stopwords supplied by the caller.
func NewTokenizer(extraStopwords ...string) *TextTokenizer {
	stops := make(map[string]struct{}, len(defaultStopwords)+len(extraStopwords))
	for _, w := range defaultStopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extraStopwords {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" {
			stops[w] = struct{}{}
		}
	}
	return &TextTokenizer{stopwords: stops}
}

// Tokenize implements Tokenizer. Empty or whitespace-only input yields an
// empty slice, never an error.
func (t *TextTokenizer) Tokenize(text string) []Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = width.Fold.String(text)

	var tokens []Token
	var word strings.Builder
	var han []rune

	emit := func(term string) {
		if !t.keep(term) {
			return
		}
		tokens = append(tokens, Token{Term: term, Pos: len(tokens)})
	}
	flushWord := func() {
		if word.Len() > 0 {
			emit(word.String())
			word.Reset()
		}
	}
	flushHan := func() {
		// Single Han characters carry too little signal on their own;
		// runs of length n produce n-1 overlapping bigrams.
		for i := 0; i+1 < len(han); i++ {
			if isHanParticle(han[i]) || isHanParticle(han[i+1]) {
				continue
			}
			emit(string(han[i : i+2]))
		}
		han = han[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			word.WriteRune(unicode.ToLower(r))
		default:
			flushWord()
			flushHan()
		}
	}
	flushWord()
	flushHan()

	return tokens
}

// keep reports whether a candidate term survives filtering: multi-rune,
// not purely numeric, not a stopword.
func (t *TextTokenizer) keep(term string) bool {
	runes := []rune(term)
	if len(runes) <= 1 {
		return false
	}
	if isNumericOnly(term) {
		return false
	}
	if _, ok := t.stopwords[term]; ok {
		return false
	}
	return true
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isHanParticle reports whether r is a high-frequency Chinese function
// character; bigrams straddling a particle are almost never real words.
func isHanParticle(r rune) bool {
	_, ok := hanParticles[r]
	return ok
}
