package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns canned responses and records every prompt it saw.
type fakeClient struct {
	response  string
	err       error
	prompts   []string
	jsonCalls int
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.jsonCalls++
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestCourseNames_ParsesArray(t *testing.T) {
	client := &fakeClient{response: `["Data Structures", "Machine Learning", "Web Development"]`}
	g := &Generative{Client: client}

	names := g.CourseNames(context.Background(), "transcript text")
	assert.Equal(t, []string{"Data Structures", "Machine Learning", "Web Development"}, names)
	assert.Len(t, client.prompts, 1)
	assert.Equal(t, 1, client.jsonCalls)
}

func TestCourseNames_ProseWrappedArray(t *testing.T) {
	client := &fakeClient{response: "Here are the courses:\n[\"Operating Systems\", \"Compilers\"]\nLet me know if you need more."}
	g := &Generative{Client: client}

	names := g.CourseNames(context.Background(), "transcript text")
	assert.Equal(t, []string{"Operating Systems", "Compilers"}, names)
}

func TestCourseNames_ProviderError(t *testing.T) {
	g := &Generative{Client: &fakeClient{err: errors.New("model unavailable")}}
	assert.Empty(t, g.CourseNames(context.Background(), "transcript text"))
}

func TestCourseNames_MalformedJSON(t *testing.T) {
	g := &Generative{Client: &fakeClient{response: `["unterminated`}}
	assert.Empty(t, g.CourseNames(context.Background(), "transcript text"))
}

func TestCourseNames_NoArrayInResponse(t *testing.T) {
	g := &Generative{Client: &fakeClient{response: "I could not find any courses."}}
	assert.Empty(t, g.CourseNames(context.Background(), "transcript text"))
}

func TestCourseNames_EmptyInput(t *testing.T) {
	client := &fakeClient{response: `["ignored"]`}
	g := &Generative{Client: client}

	assert.Empty(t, g.CourseNames(context.Background(), "   "))
	assert.Empty(t, client.prompts, "model must not be called for empty input")
}

func TestCourseNames_CapsAtMaxRecords(t *testing.T) {
	var items []string
	for i := 0; i < MaxRecords+30; i++ {
		items = append(items, fmt.Sprintf("%q", fmt.Sprintf("Course %d", i)))
	}
	client := &fakeClient{response: "[" + strings.Join(items, ",") + "]"}
	g := &Generative{Client: client}

	names := g.CourseNames(context.Background(), "transcript text")
	assert.Len(t, names, MaxRecords)
}

func TestCourseRecords_ParsesTriples(t *testing.T) {
	client := &fakeClient{response: `[
		{"course": "DS512 - Data Engineering", "credits": "3", "grade": "A"},
		{"course": "CS521 - Software Project Management", "credits": null, "grade": null}
	]`}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	require.Len(t, records, 2)

	assert.Equal(t, "DS512 - Data Engineering", records[0].Course)
	assert.Equal(t, "A", deref(records[0].Grade))
	assert.Equal(t, "3", deref(records[0].Credits))

	assert.Equal(t, "CS521 - Software Project Management", records[1].Course)
	assert.Nil(t, records[1].Grade)
	assert.Nil(t, records[1].Credits)
}

func TestCourseRecords_SynonymKeys(t *testing.T) {
	client := &fakeClient{response: `[
		{"Course": "Networks", "Units": "3", "Score": "B+"},
		{"COURSE": "Compilers", "units": 4, "score": 88}
	]`}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	require.Len(t, records, 2)

	assert.Equal(t, "Networks", records[0].Course)
	assert.Equal(t, "B+", deref(records[0].Grade))
	assert.Equal(t, "3", deref(records[0].Credits))

	assert.Equal(t, "Compilers", records[1].Course)
	assert.Equal(t, "88", deref(records[1].Grade))
	assert.Equal(t, "4", deref(records[1].Credits))
}

func TestCourseRecords_StringItemsBecomeCourseOnly(t *testing.T) {
	client := &fakeClient{response: `["Operating Systems", {"course": "Networks", "grade": "A", "credits": "3"}]`}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	require.Len(t, records, 2)
	assert.Equal(t, "Operating Systems", records[0].Course)
	assert.Nil(t, records[0].Grade)
	assert.Nil(t, records[0].Credits)
	assert.Equal(t, "Networks", records[1].Course)
}

func TestCourseRecords_MissingCourseBecomesUnknown(t *testing.T) {
	client := &fakeClient{response: `[{"grade": "A", "credits": "3"}]`}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown", records[0].Course)
}

func TestCourseRecords_NestedObjectsSurviveGreedyMatch(t *testing.T) {
	// The array match must span to the last bracket so objects inside
	// the array are not cut off.
	client := &fakeClient{response: `Sure: [{"course": "AI [Advanced]", "grade": "A", "credits": "3"}] done`}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	require.Len(t, records, 1)
	assert.Equal(t, "AI [Advanced]", records[0].Course)
}

func TestCourseRecords_ProviderError(t *testing.T) {
	g := &Generative{Client: &fakeClient{err: errors.New("timeout")}}
	assert.Empty(t, g.CourseRecords(context.Background(), "transcript text"))
}

func TestCourseRecords_CapsAtMaxRecords(t *testing.T) {
	var items []string
	for i := 0; i < MaxRecords+10; i++ {
		items = append(items, fmt.Sprintf(`{"course": "Course %d", "grade": null, "credits": null}`, i))
	}
	client := &fakeClient{response: "[" + strings.Join(items, ",") + "]"}
	g := &Generative{Client: client}

	records := g.CourseRecords(context.Background(), "transcript text")
	assert.Len(t, records, MaxRecords)
}

func TestSliceText(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, sliceText(short))

	long := strings.Repeat("x", textSliceLimit+500)
	assert.Len(t, sliceText(long), textSliceLimit)

	// Multi-byte runes are not split.
	wide := strings.Repeat("日", textSliceLimit+10)
	out := sliceText(wide)
	assert.Equal(t, textSliceLimit, len([]rune(out)))
}
