package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextUnchanged(t *testing.T) {
	s := NewSplitter(8, 1)

	got := s.Split("One sentence. Another sentence.")
	require.Len(t, got, 1)
	assert.Equal(t, "One sentence. Another sentence.", got[0])
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(8, 1)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n  "))
}

func TestSplitLongTextIntoPassages(t *testing.T) {
	s := NewSplitter(3, 1)
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteString("This is a sentence about the water cycle. ")
	}

	got := s.Split(b.String())
	require.Greater(t, len(got), 1)
	for _, passage := range got {
		assert.NotEmpty(t, passage)
	}
}

func TestSplitOverlapRepeatsSentences(t *testing.T) {
	s := NewSplitter(2, 1)
	text := "First fact here. Second fact here. Third fact here. Fourth fact here."

	got := s.Split(text)
	require.GreaterOrEqual(t, len(got), 2)
	// With overlap 1, the last sentence of a passage opens the next one.
	assert.Contains(t, got[1], "Second fact here.")
}

func TestSplitCJKPunctuation(t *testing.T) {
	s := NewSplitter(2, 0)
	text := "第一句话。第二句话。第三句话。第四句话。"

	got := s.Split(text)
	require.Greater(t, len(got), 1)
	joined := strings.Join(got, "")
	assert.Contains(t, joined, "第一句话。")
	assert.Contains(t, joined, "第四句话。")
}

func TestSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, DefaultMaxSentences, s.maxSentences)
	assert.Equal(t, DefaultOverlap, s.overlap)

	// Overlap can never reach the passage size.
	s = NewSplitter(3, 7)
	assert.Equal(t, 2, s.overlap)
}
