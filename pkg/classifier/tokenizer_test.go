package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terms(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Term
	}
	return out
}

func TestTokenizeEnglish(t *testing.T) {
	tok := NewTokenizer()
	got := terms(tok.Tokenize("The Pythagorean theorem relates the sides of a right triangle."))

	assert.Contains(t, got, "pythagorean")
	assert.Contains(t, got, "theorem")
	assert.Contains(t, got, "triangle")
	// Stopwords and single characters never survive.
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "of")
	assert.NotContains(t, got, "a")
}

func TestTokenizeChineseBigrams(t *testing.T) {
	tok := NewTokenizer()
	got := terms(tok.Tokenize("二次函数"))

	assert.Equal(t, []string{"二次", "次函", "函数"}, got)
}

func TestTokenizeMixedScript(t *testing.T) {
	tok := NewTokenizer()
	got := terms(tok.Tokenize("学习Python编程"))

	assert.Contains(t, got, "python")
	assert.Contains(t, got, "学习")
	assert.Contains(t, got, "编程")
}

func TestTokenizeSkipsParticleBigrams(t *testing.T) {
	tok := NewTokenizer()
	got := terms(tok.Tokenize("这节课讲得太好了老师辛苦了"))

	require.NotEmpty(t, got)
	for _, term := range got {
		for _, r := range term {
			assert.False(t, isHanParticle(r), "bigram %q straddles particle %q", term, string(r))
		}
	}
}

func TestTokenizeEmptyAndWhitespace(t *testing.T) {
	tok := NewTokenizer()

	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   \t\n  "))
	assert.Empty(t, tok.Tokenize("! @ # $ %"))
}

func TestTokenizeDropsPureNumbers(t *testing.T) {
	tok := NewTokenizer()
	got := terms(tok.Tokenize("chapter 42 covers 100 problems"))

	assert.Contains(t, got, "chapter")
	assert.NotContains(t, got, "42")
	assert.NotContains(t, got, "100")
}

func TestTokenizeFullWidthFolding(t *testing.T) {
	tok := NewTokenizer()
	// Full-width Latin folds to half-width before scanning.
	assert.Equal(t, terms(tok.Tokenize("ＡＢＣ词汇")), terms(tok.Tokenize("ABC词汇")))
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := NewTokenizer()
	text := "光合作用 photosynthesis converts light 能量 into chemical energy"
	first := tok.Tokenize(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tok.Tokenize(text))
	}
}

func TestTokenizeExtraStopwords(t *testing.T) {
	tok := NewTokenizer("banana")
	got := terms(tok.Tokenize("banana split recipe"))

	assert.NotContains(t, got, "banana")
	assert.Contains(t, got, "split")
}

func TestTokenPositionsAreOrdinal(t *testing.T) {
	tok := NewTokenizer()
	tokens := tok.Tokenize("energy flows through every ecosystem")
	for i, token := range tokens {
		assert.Equal(t, i, token.Pos)
	}
}
