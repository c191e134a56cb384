package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SkillEntry is a skill with proficiency, stored as JSONB.
type SkillEntry struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// Profile is a user's dashboard profile row.
type Profile struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	Name            string       `json:"name"`
	AcademicTitle   string       `json:"academic_title"`
	ResumeText      string       `json:"resume_text,omitempty"`
	TechnicalSkills []SkillEntry `json:"technical_skills"`
	SoftSkills      []SkillEntry `json:"soft_skills"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CourseworkEntry is a stored course card.
type CourseworkEntry struct {
	Title string      `json:"title"`
	Term  string      `json:"term"`
	Grade string      `json:"grade"`
	Tags  StringArray `json:"tags"`
}

// ProjectEntry is a stored project card.
type ProjectEntry struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Technologies StringArray `json:"technologies"`
	Date         string      `json:"date"`
}

// DocumentEntry is stored metadata plus extracted text for an upload.
type DocumentEntry struct {
	Category      string `json:"category"`
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text,omitempty"`
}

// Job is a catalog entry used for related-jobs matching.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Description    string    `json:"description"`
	RequiredSkills string    `json:"required_skills"`
	Location       string    `json:"location"`
	JobType        string    `json:"job_type"`
	Industry       string    `json:"industry"`
	Salary         string    `json:"salary"`
}

// Alumni is an alumni-network profile.
type Alumni struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Batch                  string    `json:"batch,omitempty"`
	Degree                 string    `json:"degree,omitempty"`
	Department             string    `json:"department,omitempty"`
	CurrentJob             string    `json:"current_job,omitempty"`
	CompanyName            string    `json:"company_name,omitempty"`
	Industry               string    `json:"industry,omitempty"`
	Skills                 string    `json:"skills,omitempty"`
	LinkedinProfile        string    `json:"linkedin_profile,omitempty"`
	MentorshipAvailability bool      `json:"mentorship_availability"`
	AreaOfInterest         string    `json:"area_of_interest,omitempty"`
	CurrentCity            string    `json:"current_city,omitempty"`
	CurrentCountry         string    `json:"current_country,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// Mentorship links a student to an alumni mentor.
type Mentorship struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   uuid.UUID  `json:"student_id"`
	MentorID    uuid.UUID  `json:"mentor_id"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// JobOpening is a job posted by an alumnus.
type JobOpening struct {
	ID               uuid.UUID `json:"id"`
	PostedByAlumniID uuid.UUID `json:"posted_by_alumni_id"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name,omitempty"`
	Description      string    `json:"description,omitempty"`
	RequiredSkills   string    `json:"required_skills,omitempty"`
	Location         string    `json:"location,omitempty"`
	JobType          string    `json:"job_type,omitempty"`
	SalaryRange      string    `json:"salary_range,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// Event is a session or meetup hosted through the alumni network.
type Event struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	EventType        string     `json:"event_type,omitempty"`
	HostedByAlumniID *uuid.UUID `json:"hosted_by_alumni_id,omitempty"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes  int        `json:"duration_minutes,omitempty"`
	MeetingLink      string     `json:"meeting_link,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// SkillEntries handles JSONB arrays of skill objects.
type SkillEntries []SkillEntry

// Scan implements the Scanner interface for SkillEntries
func (s *SkillEntries) Scan(src interface{}) error {
	if src == nil {
		*s = []SkillEntry{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, s)
}

// Value implements the Valuer interface for SkillEntries
func (s SkillEntries) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}
