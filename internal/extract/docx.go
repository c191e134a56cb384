package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"code.sajari.com/docconv"
)

// DocxExtractor extracts text from DOCX files. The docconv converter runs
// first; when it yields nothing the archive is read directly.
type DocxExtractor struct{}

// ExtractText returns the text content of the DOCX at path, including
// paragraph runs and table cells in document order.
func (e *DocxExtractor) ExtractText(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return failed()
	}
	body, _, convErr := docconv.ConvertDocx(f)
	f.Close()
	if convErr == nil && strings.TrimSpace(body) != "" {
		return dataOrEmpty(body)
	}

	text, ok := docxArchiveText(path)
	if !ok {
		if convErr != nil {
			return failed()
		}
		return dataOrEmpty(body)
	}
	return dataOrEmpty(text)
}

// docxArchiveText reads word/document.xml straight out of the zip archive.
func docxArchiveText(path string) (string, bool) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", false
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", false
		}
		text, err := wordprocessingText(rc)
		rc.Close()
		if err != nil {
			return "", false
		}
		return text, true
	}
	return "", false
}

// wordprocessingText pulls run text (w:t) from a WordprocessingML stream,
// emitting a line break at each paragraph boundary.
func wordprocessingText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false
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
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
