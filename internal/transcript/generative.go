package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/pathfinderai/pathfinder/internal/schemas"
)

// textSliceLimit caps how much raw text a single model call sees. Content
// past the cap is never considered.
const textSliceLimit = 12000

var (
	// firstArrayRe locates the first bracketed array in a response.
	firstArrayRe = regexp.MustCompile(`\[[\s\S]*?\]`)
	// fullArrayRe spans to the last closing bracket, so nested objects
	// inside the array stay intact.
	fullArrayRe = regexp.MustCompile(`\[[\s\S]*\]`)
)

// Generative asks a text model to extract course data from raw text when
// heuristic parsing yields nothing. Every provider or parse failure
// degrades to an empty list.
type Generative struct {
	Client llm.Client
}

// CourseNames extracts course names only. The model is asked for a JSON
// array of strings; anything unparseable yields an empty list.
func (g *Generative) CourseNames(ctx context.Context, rawText string) []string {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	prompt := fmt.Sprintf(`You are given raw text from a student's course grades or transcript (from any university or portal).
Extract EVERY course name (or course title) listed. Do not skip any. Ignore column headers, grades, dates, and page footers.
Return a JSON array of strings only. Example: ["Data Structures", "Machine Learning", "Web Development"]

Text to parse:
%s

Return only the JSON array, e.g. ["Course One", "Course Two"]`, sliceText(rawText))

	response, err := g.Client.GenerateJSON(ctx, prompt, llm.GenerateOptions{
		Tier:      llm.TierLite,
		MaxTokens: 2000,
	})
	if err != nil {
		return nil
	}

	raw := firstArrayRe.FindString(strings.TrimSpace(response))
	if raw == "" {
		return nil
	}
	if err := schemas.ValidateJSONString(schemas.CourseList, raw); err != nil {
		return nil
	}

	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil
	}

	var names []string
	for _, item := range arr {
		if name := strings.TrimSpace(stringify(item)); name != "" {
			names = append(names, name)
		}
		if len(names) == MaxRecords {
			break
		}
	}
	return names
}

// CourseRecords extracts course+grade+credits triples. Missing values
// come back as explicit nulls; bare string items become course-only
// records.
func (g *Generative) CourseRecords(ctx context.Context, rawText string) []CourseRecord {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	prompt := fmt.Sprintf(`You are given raw text from a student's course grades or transcript (from any university or portal).
The text often has a table with: course name, credits (e.g. 3, 1), and grade (letter like A/B+/C or IP for In Progress).

Extract EVERY course row. For each row return a JSON object with exactly these keys:
- "course": full course name or title (string)
- "credits": credit hours/units for that course (e.g. "3", "1"). Use null if not in the document.
- "grade": the grade for that course (letter like A, B+, A-, or IP). Use null if not in the document.

Return a JSON array of objects only. No other text.
Example: [{"course": "DS512 - Data Engineering", "credits": "3", "grade": "A"}, {"course": "CS521 - Software Project Management", "credits": "3", "grade": "B+"}]

Text to parse:
%s

Return only the JSON array. Use null only when a value is truly missing.`, sliceText(rawText))

	response, err := g.Client.GenerateJSON(ctx, prompt, llm.GenerateOptions{
		Tier:      llm.TierStandard,
		MaxTokens: 2500,
	})
	if err != nil {
		return nil
	}

	raw := fullArrayRe.FindString(strings.TrimSpace(response))
	if raw == "" {
		return nil
	}
	if err := schemas.ValidateJSONString(schemas.CourseList, raw); err != nil {
		return nil
	}

	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil
	}

	var out []CourseRecord
	for _, item := range arr {
		if len(out) == MaxRecords {
			break
		}
		switch v := item.(type) {
		case map[string]any:
			course := strings.TrimSpace(lookupKey(v, "course"))
			if course == "" {
				course = "Unknown"
			}
			grade := strings.TrimSpace(lookupKey(v, "grade", "score"))
			credits := strings.TrimSpace(lookupKey(v, "credits", "units"))
			out = append(out, NewCourseRecord(course, grade, credits))
		case string:
			if name := strings.TrimSpace(v); name != "" {
				out = append(out, NewCourseRecord(name, "", ""))
			}
		}
	}
	return out
}

// lookupKey finds the first non-empty value under any of the synonym
// keys, case-insensitively.
func lookupKey(m map[string]any, keys ...string) string {
	for _, want := range keys {
		for k, v := range m {
			if strings.EqualFold(k, want) {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// sliceText caps raw text at textSliceLimit characters without splitting
// a multi-byte rune.
func sliceText(raw string) string {
	if len(raw) <= textSliceLimit {
		return raw
	}
	runes := []rune(raw)
	if len(runes) <= textSliceLimit {
		return raw
	}
	return string(runes[:textSliceLimit])
}
