package career

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard bundles the two model-backed views the dashboard renders.
type Dashboard struct {
	Analysis Analysis `json:"analysis"`
	Profile  Profile  `json:"profile"`
}

// BuildDashboard runs the coursework analysis and profile extraction
// concurrently. Both operations degrade internally, so the only error
// surfaced is context cancellation.
func (s *Service) BuildDashboard(ctx context.Context, in ProfileInput, jobAreaInterest string) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Analysis = s.AnalyzeCoursework(ctx, AnalyzeInput{
			CourseGrades:    in.CourseGrades,
			ResumeText:      in.ResumeText,
			Projects:        in.Projects,
			JobAreaInterest: jobAreaInterest,
		})
		return ctx.Err()
	})
	g.Go(func() error {
		d.Profile = s.ExtractProfile(ctx, in)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
