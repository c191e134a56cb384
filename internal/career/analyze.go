// Package career produces higher-level profile artifacts (role analysis,
// structured profiles, company suggestions) from extracted course data,
// resume text, and project descriptions. Every operation degrades to a
// usable default instead of surfacing model failures.
package career

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/pathfinderai/pathfinder/internal/schemas"
	"github.com/pathfinderai/pathfinder/internal/transcript"
)

// firstObjectRe locates the JSON object in a model response that may be
// wrapped in prose.
var firstObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// Service runs the career-aggregation model calls.
type Service struct {
	Client llm.Client
}

// RoleSuggestion pairs a job title with a one-sentence rationale.
type RoleSuggestion struct {
	Role   string `json:"role"`
	Reason string `json:"reason"`
}

// Analysis is the coursework/resume/projects analysis shown on the
// dashboard.
type Analysis struct {
	Summary           string           `json:"summary"`
	SuitableRoles     []RoleSuggestion `json:"suitable_roles"`
	Strengths         []string         `json:"strengths"`
	SuggestedRoles    []string         `json:"suggested_roles"`
	SkillsToHighlight []string         `json:"skills_to_highlight"`
	Recommendations   []string         `json:"recommendations"`
	AreasToImprove    []string         `json:"areas_to_improve"`
}

// AnalyzeInput carries everything the coursework analysis considers.
type AnalyzeInput struct {
	CourseGrades    []transcript.CourseRecord
	ResumeText      string
	Projects        []string
	JobAreaInterest string
}

func emptyAnalysis(summary string) Analysis {
	return Analysis{
		Summary:           summary,
		SuitableRoles:     []RoleSuggestion{},
		Strengths:         []string{},
		SuggestedRoles:    []string{},
		SkillsToHighlight: []string{},
		Recommendations:   []string{},
		AreasToImprove:    []string{},
	}
}

// AnalyzeCoursework asks the model which roles fit the student and why.
// A stated job-area interest is pinned to the first suitable role. Any
// provider or parse failure returns a degraded default, never an error.
func (s *Service) AnalyzeCoursework(ctx context.Context, in AnalyzeInput) Analysis {
	hasCourses := len(in.CourseGrades) > 0
	hasResume := strings.TrimSpace(in.ResumeText) != ""
	hasProjects := len(in.Projects) > 0
	if !hasCourses && !hasResume && !hasProjects {
		return emptyAnalysis("No coursework, resume, or projects to analyze.")
	}

	courses := in.CourseGrades
	if len(courses) > 40 {
		courses = courses[:40]
	}
	coursesJSON, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		coursesJSON = []byte("[]")
	}

	resumeSlice := sliceRunes(strings.TrimSpace(in.ResumeText), 6000)
	projects := in.Projects
	if len(projects) > 30 {
		projects = projects[:30]
	}

	interestLine := ""
	if interest := strings.TrimSpace(in.JobAreaInterest); interest != "" {
		interestLine = fmt.Sprintf("\nThe student's stated job role interest: %q\nIMPORTANT: Put the role that best matches this interest FIRST in suitable_roles (e.g. if they said Python Developer, list Python Developer as the #1 role). Then list other related roles. Also identify specific areas they need to improve for this target role.\n", interest)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a career advisor. Analyze this profile (coursework, resume, and projects) and identify which job roles are most suitable and why.
Use their coursework (and grades if provided), resume (if provided), and projects (if provided) to give a combined, specific analysis.%s

Coursework data:
%s
`, interestLine, coursesJSON)
	if resumeSlice != "" {
		fmt.Fprintf(&sb, "\nResume (extracted text):\n%s\n", resumeSlice)
	}
	fmt.Fprintf(&sb, "\nProjects they have done:\n%s\n", bulletList(projects))
	sb.WriteString(`
Respond with ONLY a single JSON object (no other text) with these exact keys:
- "summary": 2-3 sentences summarizing their profile and why certain roles fit them. If they stated a job area interest, mention how their profile aligns with it.
- "suitable_roles": array of 3-5 objects, each with "role" (job title) and "reason" (1 sentence why this role fits). If the student stated a job interest, the FIRST role in this array MUST be the one that matches their interest. Then add other related roles.
- "strengths": array of 3-6 strength areas (e.g. "Data & Analytics", "Software Development").
- "suggested_roles": array of 4-8 job role titles that fit this profile.
- "skills_to_highlight": array of 5-10 skills they can claim on resume/LinkedIn (from courses, resume, and projects).
- "recommendations": array of 2-4 short recommendations (e.g. "Highlight X in applications", "Consider adding a course in Y").
- "areas_to_improve": array of 2-5 specific areas or skills they should improve to be stronger for their target role/interest. Be concrete and actionable.

Use only the keys above. Be specific and actionable. suitable_roles must be an array of objects with "role" and "reason".`)

	response, err := s.Client.GenerateJSON(ctx, sb.String(), llm.GenerateOptions{
		Tier:      llm.TierAdvanced,
		MaxTokens: 1200,
	})
	if err != nil {
		return emptyAnalysis("Analysis could not be generated.")
	}

	raw := firstObjectRe.FindString(strings.TrimSpace(response))
	if raw == "" {
		return emptyAnalysis("Analysis could not be generated.")
	}
	if err := schemas.ValidateJSONString(schemas.CourseworkAnalysis, raw); err != nil {
		return emptyAnalysis("Analysis could not be generated.")
	}

	var decoded struct {
		Summary           string           `json:"summary"`
		SuitableRoles     []RoleSuggestion `json:"suitable_roles"`
		Strengths         []string         `json:"strengths"`
		SuggestedRoles    []string         `json:"suggested_roles"`
		SkillsToHighlight []string         `json:"skills_to_highlight"`
		Recommendations   []string         `json:"recommendations"`
		AreasToImprove    []string         `json:"areas_to_improve"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return emptyAnalysis("Analysis could not be generated.")
	}

	suitable := make([]RoleSuggestion, 0, len(decoded.SuitableRoles))
	for _, r := range decoded.SuitableRoles {
		role := strings.TrimSpace(r.Role)
		if role == "" {
			continue
		}
		suitable = append(suitable, RoleSuggestion{Role: role, Reason: strings.TrimSpace(r.Reason)})
		if len(suitable) == 5 {
			break
		}
	}
	suitable = pinInterest(suitable, in.JobAreaInterest)

	areas := trimStrings(decoded.AreasToImprove)
	if len(areas) > 5 {
		areas = areas[:5]
	}

	return Analysis{
		Summary:           decoded.Summary,
		SuitableRoles:     suitable,
		Strengths:         orEmpty(trimStrings(decoded.Strengths)),
		SuggestedRoles:    orEmpty(trimStrings(decoded.SuggestedRoles)),
		SkillsToHighlight: orEmpty(trimStrings(decoded.SkillsToHighlight)),
		Recommendations:   orEmpty(trimStrings(decoded.Recommendations)),
		AreasToImprove:    orEmpty(areas),
	}
}

// pinInterest moves the first role matching the stated interest to the
// front of the list, preserving the rest in order.
func pinInterest(roles []RoleSuggestion, interest string) []RoleSuggestion {
	interest = strings.ToLower(strings.TrimSpace(interest))
	if interest == "" || len(roles) == 0 {
		return roles
	}
	for i, r := range roles {
		if i > 0 && strings.Contains(strings.ToLower(r.Role), interest) {
			pinned := make([]RoleSuggestion, 0, len(roles))
			pinned = append(pinned, roles[i])
			pinned = append(pinned, roles[:i]...)
			pinned = append(pinned, roles[i+1:]...)
			return pinned
		}
		if i == 0 && strings.Contains(strings.ToLower(r.Role), interest) {
			return roles
		}
	}
	return roles
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}

func trimStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func sliceRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
