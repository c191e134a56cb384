package transcript

import (
	"context"
	"errors"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/extract"
)

// minRawTextChars is the least usable text a document must yield after
// every extractor fallback has run.
const minRawTextChars = 20

// ErrNotEnoughText is returned when a document yields too little text to
// parse. It is the only user-visible failure the pipeline produces.
var ErrNotEnoughText = errors.New("could not extract enough text from the document; try exporting again or use a file with selectable text")

// Pipeline wires the extraction stages together: embedded text (with OCR
// fallback), heuristic table parsing, generative fallback, and the fill
// layer. Collaborators are injected so tests can substitute fakes.
type Pipeline struct {
	Tables     extract.TableExtractor
	OCR        extract.OCR
	Generative *Generative

	// Text overrides the PDF text extractor when set.
	Text extract.TextExtractor
}

func (p *Pipeline) textExtractor() extract.TextExtractor {
	if p.Text != nil {
		return p.Text
	}
	return &extract.PDFExtractor{OCR: p.OCR}
}

// ImportResult is the outcome of one transcript import. Records is never
// nil.
type ImportResult struct {
	Records []CourseRecord
	RawText string
}

// ImportFromPDF extracts course records from a transcript PDF. Stages run
// in order: heuristic table parsing, then generative triples plus fill
// when the heuristics find nothing, then a course-names-only call as the
// last resort. Each generative mode is invoked at most once.
func (p *Pipeline) ImportFromPDF(ctx context.Context, path string) (*ImportResult, error) {
	raw := p.textExtractor().ExtractText(path).Text
	if len(strings.TrimSpace(raw)) < minRawTextChars {
		return nil, ErrNotEnoughText
	}

	var records []CourseRecord
	if p.Tables != nil {
		if pages, err := p.Tables.ExtractTables(path); err == nil {
			records = ParseTables(pages)
		}
	}

	if len(records) == 0 {
		records = p.Generative.CourseRecords(ctx, raw)
		records = FillFromText(records, raw)
	}
	if len(records) == 0 {
		for _, name := range p.Generative.CourseNames(ctx, raw) {
			records = append(records, NewCourseRecord(name, "", ""))
		}
	}

	records = FilterCourseRows(records)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	return &ImportResult{Records: records, RawText: raw}, nil
}

// ImportFromText extracts course records from pasted raw text. The
// generative triples call runs first; its output is backfilled from the
// text, and an empty result falls through to the names-only call.
func (p *Pipeline) ImportFromText(ctx context.Context, rawText string) []CourseRecord {
	records := p.Generative.CourseRecords(ctx, rawText)
	if len(records) == 0 {
		names := p.Generative.CourseNames(ctx, rawText)
		records = make([]CourseRecord, 0, len(names))
		for _, name := range names {
			records = append(records, NewCourseRecord(name, "", ""))
		}
		return records
	}
	return FillFromText(records, rawText)
}
