package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// nonCourseLabels are first-cell values that mark a row as student-info
// or header noise rather than a real course.
var nonCourseLabels = map[string]struct{}{
	"student information": {},
	"student id":          {},
	"student name":        {},
	"phone":               {},
	"address":             {},
	"advisor":             {},
	"degree":              {},
	"term":                {},
	"cumulative":          {},
	"gpa group":           {},
	"graduate":            {},
	"undergraduate":       {},
	"course":              {},
	"course name":         {},
	"grade":               {},
	"credits":             {},
	"subject":             {},
	"code":                {},
	"attempted":           {},
	"earned":              {},
	"hours":               {},
	"grade points":        {},
	"repeat":              {},
	"—":                   {},
	"-":                   {},
	"":                    {},
}

// nonCoursePrefixes reject rows whose first cell starts with a
// student-info label, colon or not.
var nonCoursePrefixes = []string{
	"student id", "phone", "degree", "address", "advisor", "cumulative",
	"attempted", "earned", "gpa group", "graduate", "undergraduate",
}

var (
	letterGradeRe  = regexp.MustCompile(`(?i)^[A-F][+-]?$`)
	numericGradeRe = regexp.MustCompile(`^\d{1,3}(\.\d+)?$`)
	creditsRe      = regexp.MustCompile(`^\d{1,2}(\.\d+)?$`)
)

// IsCourseRow reports whether a first-cell value looks like a real course
// rather than a student-info label, header word, or bare number.
func IsCourseRow(course string) bool {
	if utf8.RuneCountInString(course) < 2 {
		return false
	}
	key := strings.TrimSpace(strings.ToLower(course))

	if idx := strings.Index(key, ":"); idx >= 0 {
		labelPart := strings.TrimSpace(key[:idx])
		if _, deny := nonCourseLabels[labelPart]; deny {
			return false
		}
		// "GPA Group: Graduate" style rows
		if labelPart == "gpa group" || strings.HasPrefix(key, "gpa group") {
			return false
		}
	}

	if _, deny := nonCourseLabels[key]; deny {
		return false
	}

	for _, prefix := range nonCoursePrefixes {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}

	stripped := strings.ReplaceAll(strings.ReplaceAll(key, ".", ""), " ", "")
	if stripped != "" && isAllDigits(stripped) {
		return false
	}

	return true
}

// LooksLikeGrade reports whether a value looks like a letter grade
// (A, B+, A-), the in-progress token IP, or a numeric grade (e.g. 85).
func LooksLikeGrade(val string) bool {
	v := strings.ToUpper(strings.TrimSpace(val))
	if v == "" {
		return false
	}
	if letterGradeRe.MatchString(v) {
		return true
	}
	if v == "IP" {
		return true
	}
	return numericGradeRe.MatchString(v)
}

// LooksLikeCredits reports whether a value looks like credit hours:
// a 1-2 digit number, optionally fractional, between 0.5 and 15.
func LooksLikeCredits(val string) bool {
	v := strings.TrimSpace(val)
	if !creditsRe.MatchString(v) {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	return n >= 0.5 && n <= 15
}

// FilterCourseRows drops records whose course fails IsCourseRow.
func FilterCourseRows(records []CourseRecord) []CourseRecord {
	out := make([]CourseRecord, 0, len(records))
	for _, r := range records {
		if IsCourseRow(r.Course) {
			out = append(out, r)
		}
	}
	return out
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
