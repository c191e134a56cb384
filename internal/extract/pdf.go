package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ocrTextThreshold is the embedded-text length at or below which a PDF is
// treated as image-only and routed through OCR.
const ocrTextThreshold = 100

// OCR converts rasterized page images into text. Implementations are
// feature-detected at startup; a nil OCR degrades the fallback to "".
type OCR interface {
	// Available reports whether the OCR toolchain is usable at runtime.
	Available() bool
	// RecognizeFile runs OCR on a single page image.
	RecognizeFile(imagePath string) (string, error)
}

// PDFExtractor extracts text from PDF files, falling back to OCR for
// scanned documents with little or no embedded text.
type PDFExtractor struct {
	OCR OCR
}

// ExtractText returns the embedded text of the PDF at path. When the
// embedded text is at most ocrTextThreshold characters the pages are
// rasterized and OCRed instead; without a usable OCR toolchain the
// fallback yields an empty result.
func (e *PDFExtractor) ExtractText(path string) Result {
	text, ok := embeddedText(path)
	if !ok {
		return failed()
	}

	if len(strings.TrimSpace(text)) > ocrTextThreshold {
		return dataOrEmpty(text)
	}

	if e.OCR == nil || !e.OCR.Available() {
		return dataOrEmpty(text)
	}

	ocrText := e.ocrPages(path)
	if strings.TrimSpace(ocrText) != "" {
		return dataOrEmpty(ocrText)
	}
	return dataOrEmpty(text)
}

// embeddedText reads the PDF's embedded text layer. The second return is
// false when the file cannot be opened or parsed.
func embeddedText(path string) (text string, ok bool) {
	// ledongthuc/pdf panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", false
	}

	return buf.String(), true
}

// ocrPages rasterizes every page and OCRs the images in page order.
// Any per-page failure contributes an empty segment.
func (e *PDFExtractor) ocrPages(path string) string {
	tmpDir, err := os.MkdirTemp("", "pathfinder-ocr-*")
	if err != nil {
		return ""
	}
	defer os.RemoveAll(tmpDir)

	images, err := rasterizePDF(path, tmpDir)
	if err != nil || len(images) == 0 {
		return ""
	}
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		text, err := e.OCR.RecognizeFile(img)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n")
}

// pageImages lists the rasterized page images produced under dir.
func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	return images, nil
}
