package extract

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// rasterizePDF converts each page of the PDF into a PNG under outDir using
// pdftoppm and returns the image paths.
func rasterizePDF(path, outDir string) ([]string, error) {
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm not found: %w", err)
	}

	cmd := exec.Command(bin, "-png", "-r", "200", path, outDir+"/page")
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v: %s", err, out)
	}

	return pageImages(outDir)
}

// TesseractOCR recognizes page images with the tesseract engine via
// gosseract. Availability of the rasterizer and the engine is probed once.
type TesseractOCR struct {
	once      sync.Once
	available bool
}

// NewTesseractOCR returns an OCR backed by tesseract.
func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{}
}

// Available reports whether both pdftoppm and tesseract are usable.
func (t *TesseractOCR) Available() bool {
	t.once.Do(func() {
		if _, err := exec.LookPath("pdftoppm"); err != nil {
			return
		}
		if _, err := exec.LookPath("tesseract"); err != nil {
			return
		}
		t.available = true
	})
	return t.available
}

// RecognizeFile runs OCR on a single page image.
func (t *TesseractOCR) RecognizeFile(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to load image %s: %w", imagePath, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed for %s: %w", imagePath, err)
	}
	return text, nil
}
