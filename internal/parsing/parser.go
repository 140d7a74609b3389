// Package parsing extracts plain text from uploaded course documents before
// they enter the corpus. It dispatches on the file extension: PDF and Word
// documents go through format-specific extractors, everything else is read as
// text with legacy-encoding fallback.
package parsing

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrUnsupportedFormat reports a file extension no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

const (
	formatText = "text"
	formatPDF  = "pdf"
	formatDocx = "docx"
)

// formats maps file extensions to extractors. Legacy .doc files are attempted
// with the docx extractor; structured text formats (csv, json, xml, html) are
// ingested verbatim rather than parsed.
var formats = map[string]string{
	".pdf":  formatPDF,
	".docx": formatDocx,
	".doc":  formatDocx,
	".txt":  formatText,
	".md":   formatText,
	".csv":  formatText,
	".json": formatText,
	".xml":  formatText,
	".html": formatText,
	".htm":  formatText,
}

// ExtractFile returns the text content of the document at path. The result
// may be empty when the document holds no extractable text; callers decide
// whether that is an error.
func ExtractFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formats[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	switch format {
	case formatPDF:
		return extractPDF(path)
	case formatDocx:
		return extractDocx(path)
	default:
		return extractText(path)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	content, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat document: %w", err)
	}

	doc, err := docx.Parse(f, fi.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	var parts []string
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractText reads a text file, decoding legacy encodings when the bytes are
// not valid UTF-8. Classroom exports from older systems are usually
// GB-encoded; GB18030 is a superset of GBK and GB2312. Latin-1 maps every
// byte, so it is the last resort.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	if decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode document text: %w", err)
	}
	return string(decoded), nil
}
