package career

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/pathfinderai/pathfinder/internal/schemas"
)

const maxCompanies = 15

// Company is a single suggested employer.
type Company struct {
	Name   string   `json:"name"`
	Reason string   `json:"reason"`
	Roles  []string `json:"roles"`
}

// CompanySuggestions is the response of the company-matching operation.
type CompanySuggestions struct {
	ProfileSummary string    `json:"profile_summary"`
	Companies      []Company `json:"companies"`
	Summary        string    `json:"summary"`
	Error          string    `json:"error,omitempty"`
}

// SuggestInput carries the profile facets company matching considers.
type SuggestInput struct {
	Coursework []string
	Projects   []string
	Interests  []string
	TargetRole string
	Limit      int
}

// SuggestCompanies asks the model for real employers that fit the
// student's coursework, projects, and interests. Parse failures degrade
// to the raw response as the profile summary; provider failures degrade
// to an apology with the error recorded.
func (s *Service) SuggestCompanies(ctx context.Context, in SuggestInput) CompanySuggestions {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}

	roleHint := ""
	if role := strings.TrimSpace(in.TargetRole); role != "" {
		roleHint = fmt.Sprintf(" They are especially interested in roles like: %s.", role)
	}

	prompt := fmt.Sprintf(`You are a career advisor. Based on the following student profile, suggest specific real companies (startups, mid-size, and large) that would be a good fit for internships or full-time roles. Focus on companies that hire for the skills and interests shown.

STUDENT PROFILE:

Coursework:
%s

Projects:
%s

Interests:
%s
%s

Respond in this exact JSON format only (no other text before or after):
{
  "profile_summary": "One sentence summary of the student's profile and strengths.",
  "companies": [
    {
      "name": "Company Name",
      "reason": "One sentence why this company fits (refer to their coursework/projects/interests).",
      "roles": ["Role 1", "Role 2"]
    }
  ]
}

Suggest exactly %d companies. Use real, well-known companies. Be specific and actionable.`,
		profileList(in.Coursework), profileList(in.Projects), profileList(in.Interests), roleHint, limit)

	response, err := s.Client.GenerateJSON(ctx, prompt, llm.GenerateOptions{
		Tier:        llm.TierStandard,
		Temperature: 0.6,
		MaxTokens:   1200,
	})
	if err != nil {
		return CompanySuggestions{
			Companies: []Company{},
			Summary:   "Unable to generate suggestions. Please try again.",
			Error:     err.Error(),
		}
	}

	return parseCompanyResponse(strings.TrimSpace(response))
}

func parseCompanyResponse(response string) CompanySuggestions {
	fallback := CompanySuggestions{
		ProfileSummary: sliceRunes(response, 500),
		Companies:      []Company{},
		Summary:        "See profile summary below. Could not parse company list.",
	}

	raw := firstObjectRe.FindString(response)
	if raw == "" {
		return fallback
	}
	if err := schemas.ValidateJSONString(schemas.CompanySuggestions, raw); err != nil {
		return fallback
	}

	var data struct {
		ProfileSummary string `json:"profile_summary"`
		Companies      []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
			Roles  []any  `json:"roles"`
		} `json:"companies"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fallback
	}

	companies := make([]Company, 0, len(data.Companies))
	for _, c := range data.Companies {
		if len(companies) == maxCompanies {
			break
		}
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "Unknown"
		}
		roles := make([]string, 0, len(c.Roles))
		for _, r := range c.Roles {
			if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
				roles = append(roles, strings.TrimSpace(s))
			}
		}
		companies = append(companies, Company{Name: name, Reason: c.Reason, Roles: roles})
	}

	summary := data.ProfileSummary
	if summary == "" {
		summary = "Here are companies that match your profile."
	}
	return CompanySuggestions{
		ProfileSummary: data.ProfileSummary,
		Companies:      companies,
		Summary:        summary,
	}
}

func profileList(items []string) string {
	if len(items) == 0 {
		return "Not provided"
	}
	return bulletList(items)
}
