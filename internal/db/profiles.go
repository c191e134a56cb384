package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveProfileInput is everything save-profile persists in one shot.
type SaveProfileInput struct {
	Email           string
	Name            string
	AcademicTitle   string
	ResumeText      string
	TechnicalSkills []SkillEntry
	SoftSkills      []SkillEntry
	Courses         []CourseworkEntry
	Projects        []ProjectEntry
	CareerInterests []string
	Documents       []DocumentEntry
}

// StoredProfile is the loaded profile with its child collections.
type StoredProfile struct {
	Profile         *Profile          `json:"profile"`
	Courses         []CourseworkEntry `json:"courses"`
	Projects        []ProjectEntry    `json:"projects"`
	CareerInterests []string          `json:"career_interests"`
}

// SaveProfile upserts the user and profile by email and replaces the
// coursework, project, interest, and document collections in a single
// transaction.
func (db *DB) SaveProfile(ctx context.Context, in SaveProfileInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		userID, err := getOrCreateUserTx(ctx, tx, email, strings.TrimSpace(in.Name))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (user_id, name, academic_title, resume_text, technical_skills, soft_skills)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id) DO UPDATE SET
			     name = COALESCE(NULLIF($2, ''), profiles.name),
			     academic_title = $3,
			     resume_text = COALESCE(NULLIF($4, ''), profiles.resume_text),
			     technical_skills = $5,
			     soft_skills = $6,
			     updated_at = NOW()`,
			userID, in.Name, in.AcademicTitle, in.ResumeText,
			SkillEntries(in.TechnicalSkills), SkillEntries(in.SoftSkills),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM coursework WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear coursework: %w", err)
		}
		for _, c := range in.Courses {
			title := strings.TrimSpace(c.Title)
			if title == "" {
				continue
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO coursework (user_id, title, term, grade, tags) VALUES ($1, $2, $3, $4, $5)`,
				userID, title, truncate(c.Term, 100), truncate(c.Grade, 50), c.Tags,
			)
			if err != nil {
				return fmt.Errorf("failed to insert coursework: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		for _, p := range in.Projects {
			title := strings.TrimSpace(p.Title)
			if title == "" {
				continue
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO projects (user_id, title, description, technologies, date) VALUES ($1, $2, $3, $4, $5)`,
				userID, title, truncate(p.Description, 5000), p.Technologies, truncate(p.Date, 100),
			)
			if err != nil {
				return fmt.Errorf("failed to insert project: %w", err)
			}
		}

		if err := replaceInterestsTx(ctx, tx, userID, in.CareerInterests); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear documents: %w", err)
		}
		for _, d := range in.Documents {
			category := d.Category
			if category == "" {
				category = "other"
			}
			filename := d.Filename
			if filename == "" {
				filename = "file"
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO documents (user_id, category, filename, extracted_text) VALUES ($1, $2, $3, $4)`,
				userID, truncate(category, 50), truncate(filename, 500), truncate(d.ExtractedText, 15000),
			)
			if err != nil {
				return fmt.Errorf("failed to insert document: %w", err)
			}
		}

		return nil
	})
}

// GetProfile loads a user's profile and its collections by email. A
// missing user yields a StoredProfile with a nil Profile and empty
// collections, not an error.
func (db *DB) GetProfile(ctx context.Context, email string) (*StoredProfile, error) {
	out := &StoredProfile{
		Courses:         []CourseworkEntry{},
		Projects:        []ProjectEntry{},
		CareerInterests: []string{},
	}

	user, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return out, nil
	}

	var p Profile
	var tech, soft SkillEntries
	err = db.pool.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(name, ''), COALESCE(academic_title, ''), COALESCE(resume_text, ''),
		        technical_skills, soft_skills, updated_at
		 FROM profiles WHERE user_id = $1`,
		user.ID,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.AcademicTitle, &p.ResumeText, &tech, &soft, &p.UpdatedAt)
	switch err {
	case nil:
		p.TechnicalSkills = tech
		p.SoftSkills = soft
		if p.Name == "" {
			p.Name = user.Name
		}
		out.Profile = &p
	case pgx.ErrNoRows:
		out.Profile = &Profile{UserID: user.ID, Name: user.Name, TechnicalSkills: []SkillEntry{}, SoftSkills: []SkillEntry{}}
	default:
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT title, COALESCE(term, '—'), COALESCE(grade, '—'), tags
		 FROM coursework WHERE user_id = $1 ORDER BY created_at`,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list coursework: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CourseworkEntry
		if err := rows.Scan(&c.Title, &c.Term, &c.Grade, &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan coursework: %w", err)
		}
		out.Courses = append(out.Courses, c)
	}
	rows.Close()

	rows, err = db.pool.Query(ctx,
		`SELECT title, COALESCE(description, ''), technologies, COALESCE(date, '—')
		 FROM projects WHERE user_id = $1 ORDER BY created_at`,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p ProjectEntry
		if err := rows.Scan(&p.Title, &p.Description, &p.Technologies, &p.Date); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out.Projects = append(out.Projects, p)
	}
	rows.Close()

	interests, err := db.listInterests(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out.CareerInterests = interests

	return out, nil
}

// SaveCareerInterests replaces only the user's career interests,
// creating the user when absent.
func (db *DB) SaveCareerInterests(ctx context.Context, email string, interests []string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		userID, err := getOrCreateUserTx(ctx, tx, email, "")
		if err != nil {
			return err
		}
		return replaceInterestsTx(ctx, tx, userID, interests)
	})
}

func replaceInterestsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, interests []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM career_interests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear interests: %w", err)
	}
	for _, i := range interests {
		interest := strings.TrimSpace(i)
		if interest == "" {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO career_interests (user_id, interest) VALUES ($1, $2)`,
			userID, truncate(interest, 255),
		)
		if err != nil {
			return fmt.Errorf("failed to insert interest: %w", err)
		}
	}
	return nil
}

func (db *DB) listInterests(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT interest FROM career_interests WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	interests := []string{}
	for rows.Next() {
		var i string
		if err := rows.Scan(&i); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		interests = append(interests, i)
	}
	return interests, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
