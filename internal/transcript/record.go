// Package transcript turns messy transcript documents into structured
// course records. Heuristic table parsing runs first; a generative
// fallback and a line-proximity fill layer cover documents the heuristics
// cannot read. Every stage degrades to an empty result instead of failing
// the request.
package transcript

// MaxRecords caps the pipeline output.
const MaxRecords = 120

// CourseRecord is the canonical unit produced by the pipeline. Grade and
// Credits are nil when undeterminable.
type CourseRecord struct {
	Course  string  `json:"course"`
	Grade   *string `json:"grade"`
	Credits *string `json:"credits"`
}

// NewCourseRecord builds a record from optional field values. Empty
// strings become nil fields.
func NewCourseRecord(course, grade, credits string) CourseRecord {
	return CourseRecord{
		Course:  course,
		Grade:   optional(grade),
		Credits: optional(credits),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
