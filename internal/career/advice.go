package career

import (
	"context"
	"fmt"

	"github.com/pathfinderai/pathfinder/internal/llm"
)

// ExtractSkills summarizes the skills, experience level, and domain of
// a resume as free text.
func (s *Service) ExtractSkills(ctx context.Context, resumeText string) (string, error) {
	prompt := fmt.Sprintf(`
Extract the key skills, technologies, and experience level from this resume.
Return as a structured summary:

Resume: %s...

Format:
Skills: [list of skills]
Experience Level: [junior/mid/senior]
Domain: [primary domain/field]
`, sliceRunes(resumeText, 2000))

	return s.Client.GenerateContent(ctx, prompt, llm.GenerateOptions{
		Tier:      llm.TierStandard,
		MaxTokens: 500,
	})
}

// AnalyzeGap compares a resume against a job description and reports
// mismatches as free text.
func (s *Service) AnalyzeGap(ctx context.Context, resumeText, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(`
Compare the skills and experience detailed in this resume:
<RESUME STARTS HERE> %s <RESUME ENDS HERE>

with the requirements listed in the job description:
<JOB DESCRIPTION STARTS HERE> %s <JOB DESCRIPTION ENDS HERE>

Identify any gaps or mismatches. Be specific and actionable.
`, sliceRunes(resumeText, 1500), sliceRunes(jobDescription, 1500))

	return s.Client.GenerateContent(ctx, prompt, llm.GenerateOptions{
		Tier:      llm.TierStandard,
		MaxTokens: 600,
	})
}

// GenerateRoadmap produces a 6-month and 1-year career plan as free
// text, optionally aimed at a target role.
func (s *Service) GenerateRoadmap(ctx context.Context, resumeText, targetRole string) (string, error) {
	roleContext := ""
	if targetRole != "" {
		roleContext = fmt.Sprintf(" for the role of %s", targetRole)
	}
	prompt := fmt.Sprintf(`
Create a detailed 6-month and 1-year career roadmap%s for this person
including specific skills to learn, certifications to pursue, and career moves to consider:

Resume: %s...
`, roleContext, sliceRunes(resumeText, 2000))

	return s.Client.GenerateContent(ctx, prompt, llm.GenerateOptions{
		Tier:      llm.TierAdvanced,
		MaxTokens: 800,
	})
}
