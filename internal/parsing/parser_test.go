package parsing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeFixture(t, "notes.txt", []byte("这节课讲了二次函数的图像。"))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "这节课讲了二次函数的图像。", text)
}

func TestExtractTreatsMarkdownAsText(t *testing.T) {
	path := writeFixture(t, "outline.md", []byte("# 教学大纲\n\n第一章 细胞结构"))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "细胞结构")
}

func TestExtractStripsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, "hello world"...)
	path := writeFixture(t, "bom.txt", data)

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractDecodesGBEncodedText(t *testing.T) {
	raw, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("课堂练习：细胞分裂与遗传"))
	require.NoError(t, err)
	path := writeFixture(t, "legacy.txt", raw)

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "课堂练习：细胞分裂与遗传", text)
}

func TestExtractFallsBackToLatin1(t *testing.T) {
	// "café" in Latin-1; 0xE9 is not valid UTF-8 and truncates a GB sequence.
	path := writeFixture(t, "grades.csv", []byte{0x63, 0x61, 0x66, 0xE9})

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	path := writeFixture(t, "deck.pptx", []byte("not a deck"))

	_, err := ExtractFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ExtractFile(filepath.Join(t.TempDir(), "noextension"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
