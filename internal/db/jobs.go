package db

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// relatedJobsPool caps how many catalog rows are scored per request.
const relatedJobsPool = 200

var (
	skillCharsRe  = regexp.MustCompile(`[^a-z0-9]`)
	skillTokensRe = regexp.MustCompile(`[,/;\s]+`)
)

// NormalizeSkill lowercases a skill and strips everything but letters
// and digits, so "Node.js" and "NodeJS" compare equal.
func NormalizeSkill(s string) string {
	return skillCharsRe.ReplaceAllString(strings.ToLower(s), "")
}

// ScoredJob is a catalog job with its profile match score.
type ScoredJob struct {
	Job
	MatchScore int `json:"match_score"`
}

// ScoreJobs ranks jobs by skill overlap with the user's skill set. The
// score is a base 60 plus 8 per overlapping skill, capped at 100; five
// or more matches score 100. Ties order by title.
func ScoreJobs(jobs []Job, userSkills map[string]struct{}, limit int) []ScoredJob {
	type scored struct {
		overlap int
		job     Job
	}
	ranked := make([]scored, 0, len(jobs))
	for _, j := range jobs {
		overlap := 0
		if len(userSkills) > 0 {
			tokens := skillTokensRe.Split(j.RequiredSkills+" "+j.Title, -1)
			seen := map[string]struct{}{}
			for _, t := range tokens {
				n := NormalizeSkill(t)
				if n == "" {
					continue
				}
				if _, dup := seen[n]; dup {
					continue
				}
				seen[n] = struct{}{}
				if _, ok := userSkills[n]; ok {
					overlap++
				}
			}
		}
		ranked = append(ranked, scored{overlap: overlap, job: j})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		return ranked[i].job.Title < ranked[j].job.Title
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]ScoredJob, 0, len(ranked))
	for _, r := range ranked {
		score := 60 + r.overlap*8
		if score > 100 {
			score = 100
		}
		out = append(out, ScoredJob{Job: r.job, MatchScore: score})
	}
	return out
}

// ListJobs retrieves catalog jobs up to the matching pool size.
func (db *DB) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, COALESCE(company, ''), COALESCE(description, ''), COALESCE(required_skills, ''),
		        COALESCE(location, ''), COALESCE(job_type, ''), COALESCE(industry, ''), COALESCE(salary, '')
		 FROM jobs LIMIT $1`,
		relatedJobsPool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.RequiredSkills,
			&j.Location, &j.JobType, &j.Industry, &j.Salary); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// UserSkillSet collects the normalized skills of a user's profile,
// project technologies, and career interests.
func (db *DB) UserSkillSet(ctx context.Context, email string) (map[string]struct{}, error) {
	skills := map[string]struct{}{}

	stored, err := db.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored.Profile != nil {
		for _, s := range stored.Profile.TechnicalSkills {
			if n := NormalizeSkill(s.Name); n != "" {
				skills[n] = struct{}{}
			}
		}
	}
	for _, p := range stored.Projects {
		for _, t := range p.Technologies {
			if n := NormalizeSkill(t); n != "" {
				skills[n] = struct{}{}
			}
		}
	}
	for _, i := range stored.CareerInterests {
		if n := NormalizeSkill(i); n != "" {
			skills[n] = struct{}{}
		}
	}
	return skills, nil
}

// RelatedJobs loads the user's skill set and returns the best-matching
// catalog jobs.
func (db *DB) RelatedJobs(ctx context.Context, email string, limit int) ([]ScoredJob, error) {
	skills, err := db.UserSkillSet(ctx, email)
	if err != nil {
		return nil, err
	}
	jobs, err := db.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return ScoreJobs(jobs, skills, limit), nil
}
