package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fillGradeRe   = regexp.MustCompile(`(?i)(?:^|[\s,])([A-F][+-]?|IP)(?:[\s,]|$)`)
	fillCreditsRe = regexp.MustCompile(`\b(\d{1,2}(?:\.\d+)?)\b`)
)

// FillFromText backfills missing grade and credits fields by scanning raw
// text lines near each course's first token. Existing values are never
// overwritten; the pass is idempotent.
func FillFromText(records []CourseRecord, rawText string) []CourseRecord {
	if len(records) == 0 || rawText == "" {
		return records
	}

	var lines []string
	for _, ln := range strings.Split(rawText, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}

	filled := make([]CourseRecord, 0, len(records))
	for _, row := range records {
		course := strings.TrimSpace(row.Course)
		grade := deref(row.Grade)
		credits := deref(row.Credits)

		if course != "" && (grade == "" || credits == "") {
			parts := strings.Fields(course)
			key := course
			firstWord := ""
			if len(parts) > 0 {
				key = parts[0]
				firstWord = parts[0]
			}
			keyUpper := strings.ToUpper(key)

			for _, ln := range lines {
				if !strings.Contains(strings.ToUpper(ln), keyUpper) &&
					!(firstWord != "" && strings.Contains(ln, firstWord)) {
					continue
				}
				if grade == "" {
					if m := fillGradeRe.FindStringSubmatch(ln); m != nil {
						grade = m[1]
					}
				}
				if credits == "" {
					credits = lastCreditsToken(ln)
				}
				if grade != "" && credits != "" {
					break
				}
			}
		}

		if course == "" {
			course = "Unknown"
		}
		filled = append(filled, NewCourseRecord(course, strings.TrimSpace(grade), strings.TrimSpace(credits)))
	}
	return filled
}

// lastCreditsToken returns the last 1-2 digit numeric token on the line
// whose value falls in [0.5, 15]. Credit columns usually trail the course
// name, so later tokens win.
func lastCreditsToken(ln string) string {
	matches := fillCreditsRe.FindAllStringSubmatch(ln, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		tok := matches[i][1]
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		if v >= 0.5 && v <= 15 {
			return tok
		}
	}
	return ""
}
