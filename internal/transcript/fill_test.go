package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillFromText_FillsMissingFields(t *testing.T) {
	rawText := `Fall 2024 Term
CS4348 Operating Systems 3 A
CS4390 Computer Networks 3 B+`

	records := []CourseRecord{
		NewCourseRecord("CS4348 Operating Systems", "", ""),
		NewCourseRecord("CS4390 Computer Networks", "", ""),
	}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 2)
	assert.Equal(t, "A", deref(filled[0].Grade))
	assert.Equal(t, "3", deref(filled[0].Credits))
	assert.Equal(t, "B+", deref(filled[1].Grade))
	assert.Equal(t, "3", deref(filled[1].Credits))
}

func TestFillFromText_NonDestructive(t *testing.T) {
	// The existing grade must survive even when the matched line carries
	// a different grade letter.
	rawText := "CS4348 Operating Systems 4 B"

	records := []CourseRecord{NewCourseRecord("CS4348 Operating Systems", "A", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Equal(t, "A", deref(filled[0].Grade))
	assert.Equal(t, "4", deref(filled[0].Credits))
}

func TestFillFromText_Idempotent(t *testing.T) {
	rawText := `CS4348 Operating Systems 3 A
MATH2413 Calculus I 4 B-`

	records := []CourseRecord{
		NewCourseRecord("CS4348 Operating Systems", "", ""),
		NewCourseRecord("MATH2413 Calculus I", "B-", ""),
	}

	once := FillFromText(records, rawText)
	twice := FillFromText(once, rawText)
	assert.Equal(t, once, twice)
}

func TestFillFromText_CreditsScannedFromLineEnd(t *testing.T) {
	// Several in-range numeric tokens: the last one wins, since credit
	// columns trail the course name.
	rawText := "CS2 Programming Fundamentals 2 Section 5 units 3"

	records := []CourseRecord{NewCourseRecord("CS2 Programming Fundamentals", "", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Equal(t, "3", deref(filled[0].Credits))
}

func TestFillFromText_OutOfRangeCreditsSkipped(t *testing.T) {
	// 45 and 90 are out of range; 3 is the only acceptable token.
	rawText := "HIST1301 US History 90 45 3"

	records := []CourseRecord{NewCourseRecord("HIST1301 US History", "", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Equal(t, "3", deref(filled[0].Credits))
}

func TestFillFromText_KeyMatchCaseInsensitive(t *testing.T) {
	rawText := "cs4348 operating systems 3 a"

	records := []CourseRecord{NewCourseRecord("CS4348 Operating Systems", "", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Equal(t, "a", deref(filled[0].Grade))
	assert.Equal(t, "3", deref(filled[0].Credits))
}

func TestFillFromText_NoMatchingLine(t *testing.T) {
	rawText := "Completely unrelated content"

	records := []CourseRecord{NewCourseRecord("CS4348 Operating Systems", "", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Nil(t, filled[0].Grade)
	assert.Nil(t, filled[0].Credits)
}

func TestFillFromText_EmptyCourseBecomesUnknown(t *testing.T) {
	records := []CourseRecord{NewCourseRecord("", "", "")}

	filled := FillFromText(records, "some raw text")
	require.Len(t, filled, 1)
	assert.Equal(t, "Unknown", filled[0].Course)
}

func TestFillFromText_EmptyInputsPassThrough(t *testing.T) {
	assert.Nil(t, FillFromText(nil, "text"))

	records := []CourseRecord{NewCourseRecord("Networks", "A", "3")}
	assert.Equal(t, records, FillFromText(records, ""))
}

func TestFillFromText_StopsOnceBothFilled(t *testing.T) {
	// The second matching line carries different values; they must not
	// overwrite what the first line filled.
	rawText := `CS4348 Operating Systems 3 A
CS4348 Operating Systems retake 4 B`

	records := []CourseRecord{NewCourseRecord("CS4348 Operating Systems", "", "")}

	filled := FillFromText(records, rawText)
	require.Len(t, filled, 1)
	assert.Equal(t, "A", deref(filled[0].Grade))
	assert.Equal(t, "3", deref(filled[0].Credits))
}

func TestLastCreditsToken(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Operating Systems 3 A", "3"},
		{"course 2 then 4", "4"},
		{"nothing numeric here", ""},
		{"0 20 100", ""},
		{"half credit 0.5", "0.5"},
		{"edge 15 16", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, lastCreditsToken(tt.line))
		})
	}
}
