package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrInvalidInput wraps every failure caused by the uploaded content itself.
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("file is empty")
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ExtractText returns the text of an uploaded file. PDFs are read page by
// page with pages separated by a blank line; .txt and .md files are taken as is.
func (p *Parser) ExtractText(filename string, data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%s: %w", filename, ErrEmptyFile)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		text, err := p.ParsePDF(data)
		return text, "pdf", err
	case ".txt", ".md":
		return string(data), "text", nil
	default:
		return "", "", fmt.Errorf("%w %q (expected .pdf, .txt or .md)", ErrUnsupportedFileType, ext)
	}
}

// ParsePDF extracts plain text from every page. A page that cannot be read
// contributes an empty string.
func (p *Parser) ParsePDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		pages = append(pages, pageText(reader.Page(i)))
	}
	return strings.Join(pages, "\n\n"), nil
}

func pageText(page pdf.Page) (text string) {
	if page.V.IsNull() {
		return ""
	}
	defer func() {
		// malformed content streams make the pdf package panic
		if recover() != nil {
			text = ""
		}
	}()

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// ParseMetadata decodes a JSON object. Anything else is kept verbatim
// under the "meta" key.
func ParseMetadata(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil || metadata == nil {
		return map[string]any{"meta": raw}
	}
	return metadata
}

// DocumentIDFromFilename strips the directory and extension. When nothing is
// left a random UUID is returned.
func DocumentIDFromFilename(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	id := strings.TrimSuffix(base, filepath.Ext(base))
	if id == "" || id == "." || id == string(filepath.Separator) {
		return uuid.New().String()
	}
	return id
}
