package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/pathfinderai/pathfinder/internal/schemas"
	"github.com/pathfinderai/pathfinder/internal/transcript"
)

const (
	maxProfileSkills     = 10
	maxProfileSoftSkills = 6
	maxProfileCourses    = 30
	maxProfileProjects   = 20
)

// Skill is a named skill with an estimated proficiency percentage.
type Skill struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// ProfileCourse is a dashboard course card.
type ProfileCourse struct {
	Title string   `json:"title"`
	Term  string   `json:"term"`
	Grade string   `json:"grade"`
	Tags  []string `json:"tags"`
}

// ProfileProject is a dashboard project card.
type ProfileProject struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Date         string   `json:"date"`
}

// Profile is the structured dashboard profile extracted from a student's
// documents.
type Profile struct {
	Name            *string          `json:"name"`
	AcademicTitle   *string          `json:"academic_title"`
	TechnicalSkills []Skill          `json:"technical_skills"`
	SoftSkills      []Skill          `json:"soft_skills"`
	Courses         []ProfileCourse  `json:"courses"`
	ProfileProjects []ProfileProject `json:"profile_projects"`
}

// ProfileInput carries the sources profile extraction draws on.
type ProfileInput struct {
	ResumeText        string
	CourseGrades      []transcript.CourseRecord
	CourseworkRawText string
	Projects          []string
}

func emptyProfile() Profile {
	return Profile{
		TechnicalSkills: []Skill{},
		SoftSkills:      []Skill{},
		Courses:         []ProfileCourse{},
		ProfileProjects: []ProfileProject{},
	}
}

// fallbackProfile builds a minimal profile from the parsed course grades
// when the model response is unusable.
func fallbackProfile(courseGrades []transcript.CourseRecord) Profile {
	p := emptyProfile()
	for _, cg := range courseGrades {
		if len(p.Courses) == maxProfileCourses {
			break
		}
		name := strings.TrimSpace(cg.Course)
		if name == "" {
			continue
		}
		grade := "—"
		if cg.Grade != nil && strings.TrimSpace(*cg.Grade) != "" {
			grade = strings.TrimSpace(*cg.Grade)
		}
		p.Courses = append(p.Courses, ProfileCourse{
			Title: name,
			Term:  "—",
			Grade: grade,
			Tags:  []string{},
		})
	}
	return p
}

// ExtractProfile builds the dashboard profile (name, academic title,
// skills, course cards, project cards) from the resume, parsed
// coursework, and project descriptions. On any failure it falls back to
// course cards built directly from the parsed grades.
func (s *Service) ExtractProfile(ctx context.Context, in ProfileInput) Profile {
	hasResume := strings.TrimSpace(in.ResumeText) != ""
	hasCourses := len(in.CourseGrades) > 0
	hasProjects := len(in.Projects) > 0
	if !hasResume && !hasCourses && !hasProjects {
		return emptyProfile()
	}

	courses := in.CourseGrades
	if len(courses) > 40 {
		courses = courses[:40]
	}
	coursesJSON, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		coursesJSON = []byte("[]")
	}
	courseworkText := sliceRunes(in.CourseworkRawText, 6000)
	resumeSlice := sliceRunes(strings.TrimSpace(in.ResumeText), 6000)
	projects := in.Projects
	if len(projects) > 30 {
		projects = projects[:30]
	}

	var sb strings.Builder
	sb.WriteString(`You are extracting a student's profile for a dashboard. Based on the resume, coursework, and projects provided, extract:
1. Full name (from resume - typically at top)
2. Academic title (e.g. "Computer Science • Junior" or "Data Science • Senior" - degree/major and year from resume or coursework)
3. Technical skills with proficiency 50-95: PRIMARY SOURCE is the RESUME. Extract skills explicitly listed (programming languages, tools, frameworks). Assign proficiency based on years of experience, project depth, or how prominently each skill appears. Supplement with coursework/projects only if resume lacks detail.
4. Soft skills with proficiency 50-95: PRIMARY SOURCE is the RESUME. Extract soft skills mentioned (leadership, communication, teamwork, problem solving). Assign proficiency based on evidence (e.g. "led team" -> Leadership 85). Supplement with projects if resume lacks detail.
5. courses: array of objects for each course in the coursework data. Each object has:
   - "title": full course name
   - "term": semester (e.g. "Fall 2025", "Spring 2025") - infer from coursework transcript text if present, else use "—"
   - "grade": letter grade from the data
   - "tags": 2-4 skill/keyword tags inferred from the course (e.g. "Data Structures" -> ["Algorithms", "Problem Solving", "Python"])

6. profile_projects: array of project objects. Use BOTH sources:
   a) PROJECT DOCUMENTS (uploaded files): Each uploaded project file MUST produce at least one entry. Parse title, description, technologies, date from content. If content says "[Content could not be extracted... infer from the filename]", use the filename to create a title and a brief generic description (e.g. "Presentation" or "Project document").
   b) RESUME: Include ONLY ACADEMIC projects (e.g. course projects, capstone, thesis, class assignments, university/campus projects). EXCLUDE work experience, internships, or professional projects.
   For each project: "title", "description" (1-2 sentences), "technologies" (3-5 items or empty if unknown), "date" (Mon YYYY or "—"). Avoid duplicates.

Return ONLY a JSON object with these exact keys:
- "name": string or null
- "academic_title": string or null
- "technical_skills": array of {"name": string, "percent": number 50-95}
- "soft_skills": array of {"name": string, "percent": number 50-95}
- "courses": array of {"title": string, "term": string, "grade": string, "tags": array of strings}
- "profile_projects": array of {"title": string, "description": string, "technologies": array of strings, "date": string}

Limit technical_skills to 6-8. Limit soft_skills to 3-5. Include all courses from the coursework data. Include all projects from the resume and project documents.
`)
	if resumeSlice != "" {
		fmt.Fprintf(&sb, "\nResume:\n%s\n", resumeSlice)
	}
	fmt.Fprintf(&sb, "\nCoursework (parsed):\n%s\n", coursesJSON)
	if strings.TrimSpace(courseworkText) != "" {
		fmt.Fprintf(&sb, "\nCoursework (raw transcript excerpt for term/semester context):\n%s\n", courseworkText)
	}
	fmt.Fprintf(&sb, "\nProjects:\n%s\n", bulletList(projects))
	sb.WriteString("\nReturn only the JSON object, no other text.")

	response, err := s.Client.GenerateJSON(ctx, sb.String(), llm.GenerateOptions{
		Tier:      llm.TierStandard,
		MaxTokens: 2000,
	})
	if err != nil {
		return fallbackProfile(in.CourseGrades)
	}

	raw := firstObjectRe.FindString(strings.TrimSpace(response))
	if raw == "" {
		return fallbackProfile(in.CourseGrades)
	}
	if err := schemas.ValidateJSONString(schemas.Profile, raw); err != nil {
		return fallbackProfile(in.CourseGrades)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fallbackProfile(in.CourseGrades)
	}

	p := emptyProfile()
	p.Name = optionalField(data, "name")
	p.AcademicTitle = optionalField(data, "academic_title")
	p.TechnicalSkills = parseSkills(data["technical_skills"], maxProfileSkills)
	p.SoftSkills = parseSkills(data["soft_skills"], maxProfileSoftSkills)
	p.Courses = parseProfileCourses(data["courses"])
	if len(p.Courses) == 0 {
		p.Courses = fallbackProfile(in.CourseGrades).Courses
	}
	rawProjects := data["profile_projects"]
	if rawProjects == nil {
		rawProjects = data["projects"]
	}
	p.ProfileProjects = parseProfileProjects(rawProjects)
	return p
}

func optionalField(data map[string]any, key string) *string {
	s, _ := data[key].(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseSkills(v any, limit int) []Skill {
	items, _ := v.([]any)
	out := make([]Skill, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringField(m, "name"))
		if name == "" {
			continue
		}
		out = append(out, Skill{Name: name, Percent: intField(m, "percent", 70)})
		if len(out) == limit {
			break
		}
	}
	return out
}

func parseProfileCourses(v any) []ProfileCourse {
	items, _ := v.([]any)
	out := make([]ProfileCourse, 0, len(items))
	for _, item := range items {
		if len(out) == maxProfileCourses {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := strings.TrimSpace(stringField(m, "title"))
		if title == "" {
			continue
		}
		out = append(out, ProfileCourse{
			Title: title,
			Term:  stringFieldOrDash(m, "term"),
			Grade: stringFieldOrDash(m, "grade"),
			Tags:  stringList(m["tags"], 5),
		})
	}
	return out
}

func parseProfileProjects(v any) []ProfileProject {
	items, _ := v.([]any)
	out := make([]ProfileProject, 0, len(items))
	for _, item := range items {
		if len(out) == maxProfileProjects {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := strings.TrimSpace(stringField(m, "title"))
		if title == "" {
			continue
		}
		techs := m["technologies"]
		if techs == nil {
			techs = m["technologies_used"]
		}
		out = append(out, ProfileProject{
			Title:        title,
			Description:  stringFieldOrDash(m, "description"),
			Technologies: stringList(techs, 6),
			Date:         stringFieldOrDash(m, "date"),
		})
	}
	return out
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func stringFieldOrDash(m map[string]any, key string) string {
	if s := strings.TrimSpace(stringField(m, key)); s != "" {
		return s
	}
	return "—"
}

func intField(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func stringList(v any, limit int) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(s))
		if len(out) == limit {
			break
		}
	}
	return out
}
