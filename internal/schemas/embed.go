package schemas

import _ "embed"

// CourseList is the schema for course extraction responses. Items may be
// bare course-name strings or loosely keyed objects; key coercion happens
// after validation.
//
//go:embed course_list.schema.json
var CourseList string

// CourseworkAnalysis is the schema for coursework analysis responses.
//
//go:embed coursework_analysis.schema.json
var CourseworkAnalysis string

// Profile is the schema for structured profile extraction responses.
//
//go:embed profile.schema.json
var Profile string

// CompanySuggestions is the schema for company suggestion responses.
//
//go:embed company_suggestions.schema.json
var CompanySuggestions string
