package extract

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Table is rows of cells, as recovered from one region of a page.
type Table [][]string

// TableExtractor recovers tabular structure from a document. The result is
// one slice of tables per page; pages without tabular content contribute
// an empty slice.
type TableExtractor interface {
	ExtractTables(path string) ([][]Table, error)
}

const (
	// rowTolerance is the max Y distance between fragments on one row.
	rowTolerance = 3.0
	// cellGapFactor scales font size into the horizontal gap that splits
	// two fragments into separate cells.
	cellGapFactor = 1.8
	// minCellGap is the floor for the cell-splitting gap in points.
	minCellGap = 10.0
)

// GeometryTableExtractor recovers table rows from PDF text geometry:
// fragments sharing a baseline form a row, and wide horizontal gaps
// within a row split it into cells.
type GeometryTableExtractor struct{}

// ExtractTables returns one table per page that has at least one
// multi-cell row. Unreadable pages are skipped.
func (e *GeometryTableExtractor) ExtractTables(path string) ([][]Table, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := make([][]Table, 0, r.NumPage())
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		rows := pageRows(r, pageNum)
		if len(rows) == 0 {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, []Table{rows})
	}
	return pages, nil
}

// pageRows reads one page's text fragments and groups them into rows of
// cells. Malformed pages yield nil.
func pageRows(r *pdf.Reader, pageNum int) (table Table) {
	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			table = nil
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}

	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // top of page first
		}
		return texts[i].X < texts[j].X
	})

	var rows [][]pdf.Text
	var current []pdf.Text
	for _, t := range texts {
		if len(current) > 0 && current[0].Y-t.Y > rowTolerance {
			rows = append(rows, current)
			current = nil
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	for _, row := range rows {
		cells := splitCells(row)
		if len(cells) > 0 {
			table = append(table, cells)
		}
	}
	return table
}

// splitCells merges a row's fragments left to right, starting a new cell
// wherever the horizontal gap exceeds the font-scaled threshold.
func splitCells(row []pdf.Text) []string {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var cells []string
	var cell strings.Builder
	prevEnd := 0.0
	for i, t := range row {
		if i > 0 {
			gap := t.X - prevEnd
			if gap > cellGap(t.FontSize) {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			} else if gap > t.FontSize*0.25 {
				cell.WriteString(" ")
			}
		}
		cell.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}

	out := cells[:0]
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func cellGap(fontSize float64) float64 {
	gap := fontSize * cellGapFactor
	if gap < minCellGap {
		return minCellGap
	}
	return gap
}
