package extract

import (
	"path/filepath"
	"strings"
)

// TextExtractor extracts plain text from one document format.
type TextExtractor interface {
	ExtractText(path string) Result
}

// ForFile returns the extractor matching the file's extension, or false
// for formats no extractor handles.
func ForFile(path string, ocr OCR) (TextExtractor, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &PDFExtractor{OCR: ocr}, true
	case ".docx":
		return &DocxExtractor{}, true
	case ".pptx":
		return &PptxExtractor{}, true
	case ".txt":
		return &TxtExtractor{}, true
	default:
		return nil, false
	}
}
