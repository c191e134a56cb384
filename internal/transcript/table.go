package transcript

import (
	"strings"

	"github.com/pathfinderai/pathfinder/internal/extract"
)

// creditsSynonyms and gradeSynonyms are the header words that identify
// the credits and grade columns, case-insensitively.
var (
	creditsSynonyms = map[string]struct{}{
		"credits": {}, "credit": {}, "units": {}, "hrs": {}, "ch": {},
	}
	gradeSynonyms = map[string]struct{}{
		"grade": {}, "grades": {}, "letter": {}, "score": {},
	}
	headerFirstCells = map[string]struct{}{
		"course": {}, "course name": {}, "subject": {}, "code": {},
		"credits": {}, "grade": {},
	}
)

// HeaderColumnMap holds the 0-based credits and grade column indices
// discovered in a table's header row. Negative means not found.
type HeaderColumnMap struct {
	CreditsCol int
	GradeCol   int
}

// findCreditsGradeColumns scans a row for credits/grade header synonyms.
func findCreditsGradeColumns(cells []string) HeaderColumnMap {
	m := HeaderColumnMap{CreditsCol: -1, GradeCol: -1}
	for i, c := range cells {
		k := strings.ToLower(strings.TrimSpace(c))
		if k == "" {
			continue
		}
		if _, ok := creditsSynonyms[k]; ok {
			m.CreditsCol = i
		}
		if _, ok := gradeSynonyms[k]; ok {
			m.GradeCol = i
		}
	}
	return m
}

// assignGradeCredits reads grade and credits from a data row, using the
// header column map when its indices are in range and falling back to a
// shape scan of up to 6 cells starting at startIdx.
func assignGradeCredits(cells []string, startIdx int, cols HeaderColumnMap) (grade, credits string) {
	if cols.CreditsCol >= 0 && cols.CreditsCol < len(cells) {
		v := strings.TrimSpace(cells[cols.CreditsCol])
		if LooksLikeCredits(v) {
			credits = v
		}
	}
	if cols.GradeCol >= 0 && cols.GradeCol < len(cells) {
		v := strings.TrimSpace(cells[cols.GradeCol])
		if LooksLikeGrade(v) {
			grade = v
		}
	}
	if grade != "" && credits != "" {
		return grade, credits
	}

	end := startIdx + 6
	if end > len(cells) {
		end = len(cells)
	}
	for j := startIdx; j < end; j++ {
		v := strings.TrimSpace(cells[j])
		if v == "" {
			continue
		}
		if credits == "" && LooksLikeCredits(v) {
			credits = v
		}
		if grade == "" && LooksLikeGrade(v) {
			grade = v
		}
	}
	return grade, credits
}

// ParseTables assembles course records from recovered table structure:
// one pass per table, header-column detection first, shape detection for
// whatever the header did not cover. The combined output is re-filtered
// and capped at MaxRecords.
func ParseTables(pages [][]extract.Table) []CourseRecord {
	var out []CourseRecord
	for _, tables := range pages {
		for _, table := range tables {
			out = append(out, parseTable(table)...)
		}
	}
	out = FilterCourseRows(out)
	if len(out) > MaxRecords {
		out = out[:MaxRecords]
	}
	return out
}

func parseTable(table extract.Table) []CourseRecord {
	if len(table) < 2 {
		return nil
	}

	var out []CourseRecord
	cols := HeaderColumnMap{CreditsCol: -1, GradeCol: -1}
	headerSkipped := false
	for i, row := range table {
		if blankRow(row) {
			continue
		}
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = strings.TrimSpace(c)
		}

		if i == 0 || !headerSkipped {
			if m := findCreditsGradeColumns(cells); m.CreditsCol >= 0 || m.GradeCol >= 0 {
				cols = m
				headerSkipped = true
				if _, label := headerFirstCells[strings.ToLower(cells[0])]; label {
					continue
				}
			}
		}
		if i == 0 && len(cells) > 0 {
			switch strings.ToLower(cells[0]) {
			case "course", "course name", "subject", "code":
				continue
			}
		}

		course := cells[0]
		if !IsCourseRow(course) {
			continue
		}

		// A short code in the first cell often pairs with a combined
		// "CODE - Title" in the second; prefer the fuller title.
		startIdx := 1
		if len(cells) >= 2 && cells[1] != "" && !LooksLikeCredits(cells[1]) && !LooksLikeGrade(cells[1]) {
			maybeName := cells[1]
			if len(maybeName) > len(course) && strings.Contains(maybeName, " - ") {
				course = maybeName
				startIdx = 2
			}
		}

		grade, credits := assignGradeCredits(cells, startIdx, cols)
		out = append(out, NewCourseRecord(course, grade, credits))
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
