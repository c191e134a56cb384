package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCourseRow_Denylist(t *testing.T) {
	denied := []string{
		"Student Information", "Student ID", "Student Name", "Phone",
		"Address", "Advisor", "Degree", "Term", "Cumulative", "GPA Group",
		"Graduate", "Undergraduate", "Course", "Course Name", "Grade",
		"Credits", "Subject", "Code", "Attempted", "Earned", "Hours",
		"Grade Points", "Repeat",
	}
	for _, label := range denied {
		assert.False(t, IsCourseRow(label), "label %q should be rejected", label)
		assert.False(t, IsCourseRow(label+":"), "colon form %q should be rejected", label)
		assert.False(t, IsCourseRow(label+": something"), "colon-value form of %q should be rejected", label)
	}
}

func TestIsCourseRow_Prefixes(t *testing.T) {
	rejected := []string{
		"Student ID 12345",
		"Phone (555) 123-4567",
		"Degree Sought MS",
		"Advisor Jane Doe",
		"Cumulative GPA 3.8",
		"GPA Group: Graduate",
		"Graduate Division",
		"Undergraduate Level",
	}
	for _, s := range rejected {
		assert.False(t, IsCourseRow(s), "%q should be rejected", s)
	}
}

func TestIsCourseRow_ShortAndNumeric(t *testing.T) {
	assert.False(t, IsCourseRow(""))
	assert.False(t, IsCourseRow("A"))
	assert.False(t, IsCourseRow("-"))
	assert.False(t, IsCourseRow("12345"))
	assert.False(t, IsCourseRow("3.0"))
	assert.False(t, IsCourseRow("12 34"))
	assert.False(t, IsCourseRow("1.5 2.5"))
}

func TestIsCourseRow_RealCourses(t *testing.T) {
	accepted := []string{
		"CS 4348",
		"DS512 - Data Engineering",
		"Intro to AI",
		"Operating Systems",
		"MATH2413",
		"Grades of Steel: A History of Metallurgy", // colon prefix is not a denied label
	}
	for _, s := range accepted {
		assert.True(t, IsCourseRow(s), "%q should be accepted", s)
	}
}

func TestLooksLikeGrade(t *testing.T) {
	letters := []string{"A", "B", "C", "D", "F"}
	suffixes := []string{"", "+", "-"}
	for _, l := range letters {
		for _, s := range suffixes {
			v := l + s
			assert.True(t, LooksLikeGrade(v), "%q should be a grade", v)
		}
	}

	accepted := []string{"a", "b+", "f-", "IP", "ip", "Ip", "85", "100", "3.7", "999"}
	for _, v := range accepted {
		assert.True(t, LooksLikeGrade(v), "%q should be a grade", v)
	}

	rejected := []string{"", "  ", "G", "A++", "AB", "1000", "IP+", "W", "Pass", "-A", "+"}
	for _, v := range rejected {
		assert.False(t, LooksLikeGrade(v), "%q should not be a grade", v)
	}
}

func TestLooksLikeCredits(t *testing.T) {
	accepted := []string{"0.5", "1", "3", "4.0", "15", "12.5"}
	for _, v := range accepted {
		assert.True(t, LooksLikeCredits(v), "%q should be credits", v)
	}

	rejected := []string{"", "0", "0.4", "16", "20", "abc", "100", "-3", "3credits"}
	for _, v := range rejected {
		assert.False(t, LooksLikeCredits(v), "%q should not be credits", v)
	}
}

func TestFilterCourseRows(t *testing.T) {
	records := []CourseRecord{
		NewCourseRecord("Operating Systems", "A", "3"),
		NewCourseRecord("Student ID: 12345", "", ""),
		NewCourseRecord("Intro to AI", "B+", ""),
		NewCourseRecord("12345", "", ""),
	}

	out := FilterCourseRows(records)
	assert.Len(t, out, 2)
	assert.Equal(t, "Operating Systems", out[0].Course)
	assert.Equal(t, "Intro to AI", out[1].Course)
}

func TestFilterCourseRows_AlwaysNonNil(t *testing.T) {
	assert.NotNil(t, FilterCourseRows(nil))
	assert.Empty(t, FilterCourseRows(nil))
}

func TestNewCourseRecord(t *testing.T) {
	r := NewCourseRecord("Operating Systems", "A", "")
	assert.Equal(t, "Operating Systems", r.Course)
	assert.Equal(t, "A", *r.Grade)
	assert.Nil(t, r.Credits)
}

func TestCourseRecordJSON(t *testing.T) {
	r := NewCourseRecord("Intro to AI", "", "3")
	b, err := json.Marshal(r)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"course":"Intro to AI","grade":null,"credits":"3"}`, string(b))
}
