package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"sort"
	"strings"

	"code.sajari.com/docconv"
)

// PptxExtractor extracts text from PPTX files. The docconv converter runs
// first; when it fails or yields nothing the slide XML is read directly,
// including speaker notes.
type PptxExtractor struct{}

// ExtractText returns the text content of the PPTX at path.
func (e *PptxExtractor) ExtractText(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return failed()
	}
	body, _, convErr := docconv.ConvertPptx(f)
	f.Close()
	if convErr == nil && strings.TrimSpace(body) != "" {
		return dataOrEmpty(body)
	}

	text, ok := pptxArchiveText(path)
	if !ok {
		if convErr != nil {
			return failed()
		}
		return dataOrEmpty(body)
	}
	return dataOrEmpty(text)
}

// pptxArchiveText collects run text from every slide and notes slide in
// the archive, in archive-name order.
func pptxArchiveText(path string) (string, bool) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", false
	}
	defer zr.Close()

	var names []string
	files := make(map[string]*zip.File)
	for _, file := range zr.File {
		if isSlidePart(file.Name) {
			names = append(names, file.Name)
			files[file.Name] = file
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		rc, err := files[name].Open()
		if err != nil {
			continue
		}
		text, err := drawingMLText(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), true
}

func isSlidePart(name string) bool {
	if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
		return true
	}
	if strings.HasPrefix(name, "ppt/notesSlides/notesSlide") && strings.HasSuffix(name, ".xml") {
		return true
	}
	return false
}

// drawingMLText pulls run text (a:t) from a DrawingML stream. Character
// data immediately trailing a closed a:t element is kept as well, since
// some generators leave stray text between runs.
func drawingMLText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var lines []string
	inText := false
	afterText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			afterText = false
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				afterText = true
			} else {
				afterText = false
			}
		case xml.CharData:
			if inText {
				lines = append(lines, string(t))
			} else if afterText {
				if s := strings.TrimSpace(string(t)); s != "" {
					lines = append(lines, s)
				}
				afterText = false
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
