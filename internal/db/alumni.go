package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const alumniColumns = `id, name, email, COALESCE(batch, ''), COALESCE(degree, ''), COALESCE(department, ''),
	COALESCE(current_job, ''), COALESCE(company_name, ''), COALESCE(industry, ''), COALESCE(skills, ''),
	COALESCE(linkedin_profile, ''), mentorship_availability, COALESCE(area_of_interest, ''),
	COALESCE(current_city, ''), COALESCE(current_country, ''), created_at`

func scanAlumni(row pgx.Row) (*Alumni, error) {
	var a Alumni
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Batch, &a.Degree, &a.Department,
		&a.CurrentJob, &a.CompanyName, &a.Industry, &a.Skills,
		&a.LinkedinProfile, &a.MentorshipAvailability, &a.AreaOfInterest,
		&a.CurrentCity, &a.CurrentCountry, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AlumniFilters holds optional filters for listing alumni
type AlumniFilters struct {
	MentorshipAvailable *bool
	Offset              int
	Limit               int
}

// ListAlumni retrieves alumni with optional filters
func (db *DB) ListAlumni(ctx context.Context, filters AlumniFilters) ([]Alumni, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + alumniColumns + ` FROM alumni WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.MentorshipAvailable != nil {
		query += fmt.Sprintf(" AND mentorship_availability = $%d", argNum)
		args = append(args, *filters.MentorshipAvailable)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY name OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, filters.Offset, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alumni: %w", err)
	}
	defer rows.Close()

	var alumni []Alumni
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alumni: %w", err)
		}
		alumni = append(alumni, *a)
	}
	return alumni, nil
}

// GetAlumni retrieves an alumni profile by ID, or nil when not found
func (db *DB) GetAlumni(ctx context.Context, alumniID uuid.UUID) (*Alumni, error) {
	a, err := scanAlumni(db.pool.QueryRow(ctx,
		`SELECT `+alumniColumns+` FROM alumni WHERE id = $1`, alumniID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alumni: %w", err)
	}
	return a, nil
}

// MatchAlumni finds mentorship-available alumni whose skill text
// mentions any of the given skills.
func (db *DB) MatchAlumni(ctx context.Context, skills []string, limit int) ([]Alumni, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + alumniColumns + ` FROM alumni WHERE mentorship_availability = TRUE`
	args := []any{}
	argNum := 1

	var clauses []string
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("skills ILIKE $%d", argNum))
		args = append(args, "%"+s+"%")
		argNum++
	}
	if len(clauses) > 0 {
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	query += fmt.Sprintf(" ORDER BY name LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to match alumni: %w", err)
	}
	defer rows.Close()

	var matches []Alumni
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alumni: %w", err)
		}
		matches = append(matches, *a)
	}
	return matches, nil
}

// ListMentorships retrieves the mentorships where the alumni is mentor
func (db *DB) ListMentorships(ctx context.Context, mentorID uuid.UUID) ([]Mentorship, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, student_id, mentor_id, status, COALESCE(notes, ''), requested_at, accepted_at
		 FROM mentorships WHERE mentor_id = $1 ORDER BY requested_at DESC`,
		mentorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}
	defer rows.Close()

	var mentorships []Mentorship
	for rows.Next() {
		var m Mentorship
		if err := rows.Scan(&m.ID, &m.StudentID, &m.MentorID, &m.Status, &m.Notes, &m.RequestedAt, &m.AcceptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mentorship: %w", err)
		}
		mentorships = append(mentorships, m)
	}
	return mentorships, nil
}

// RequestMentorship creates a pending mentorship request.
func (db *DB) RequestMentorship(ctx context.Context, studentID, mentorID uuid.UUID, notes string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO mentorships (student_id, mentor_id, notes) VALUES ($1, $2, $3) RETURNING id`,
		studentID, mentorID, notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to request mentorship: %w", err)
	}
	return id, nil
}

// ListJobOpenings retrieves active job openings posted by alumni
func (db *DB) ListJobOpenings(ctx context.Context, offset, limit int) ([]JobOpening, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, posted_by_alumni_id, title, COALESCE(company_name, ''), COALESCE(description, ''),
		        COALESCE(required_skills, ''), COALESCE(location, ''), COALESCE(job_type, ''),
		        COALESCE(salary_range, ''), is_active, created_at
		 FROM job_openings WHERE is_active = TRUE ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job openings: %w", err)
	}
	defer rows.Close()

	var openings []JobOpening
	for rows.Next() {
		var j JobOpening
		if err := rows.Scan(&j.ID, &j.PostedByAlumniID, &j.Title, &j.CompanyName, &j.Description,
			&j.RequiredSkills, &j.Location, &j.JobType, &j.SalaryRange, &j.IsActive, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job opening: %w", err)
		}
		openings = append(openings, j)
	}
	return openings, nil
}

// ListEvents retrieves active events hosted through the alumni network
func (db *DB) ListEvents(ctx context.Context, offset, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), COALESCE(event_type, ''), hosted_by_alumni_id,
		        scheduled_at, COALESCE(duration_minutes, 0), COALESCE(meeting_link, ''), is_active, created_at
		 FROM events WHERE is_active = TRUE ORDER BY scheduled_at ASC NULLS LAST OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.HostedByAlumniID,
			&e.ScheduledAt, &e.DurationMinutes, &e.MeetingLink, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
