package in

import (
	"context"
	"strings"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/pkg/apperr"

	"github.com/google/uuid"
)

// ProfileService defines the interface for profile operations.
type ProfileService interface {
	// === Profile CRUD ===
	Upsert(ctx context.Context, userID uuid.UUID, req *UpsertProfileRequest) (*domain.Profile, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	GetByUserID(ctx context.Context, userID string) (*ProfileView, error)
	List(ctx context.Context) ([]*ProfileView, error)

	// DeleteAccount removes the caller's posts, profile and user record.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error

	// === Experience / Education ===
	AddExperience(ctx context.Context, userID uuid.UUID, req *ExperienceRequest) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID uuid.UUID, entryID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID uuid.UUID, req *EducationRequest) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID uuid.UUID, entryID string) (*domain.Profile, error)

	// === Github ===
	GithubRepos(ctx context.Context, username string) ([]domain.GithubRepo, error)
}

// ProfileView is a profile joined with its owner's snapshot.
type ProfileView struct {
	*domain.Profile
	User domain.UserRef `json:"user"`
}

type UpsertProfileRequest struct {
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Status         string  `json:"status"`
	GithubUsername *string `json:"githubusername,omitempty"`
	// Skills is a comma separated list, e.g. "Go, SQL ,Redis".
	Skills    string  `json:"skills"`
	Youtube   *string `json:"youtube,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Linkedin  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

func (r *UpsertProfileRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return apperr.ValidationFailed(apperr.FieldError{Field: "status", Message: "status is required"})
	}
	return nil
}

// SkillList splits the raw skills string on commas and trims each
// entry, dropping empties. An empty input yields an empty sequence,
// not an error.
func (r *UpsertProfileRequest) SkillList() []string {
	skills := []string{}
	for _, s := range strings.Split(r.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// Social collects the optional link fields into a merge patch.
func (r *UpsertProfileRequest) Social() domain.SocialLinks {
	return domain.SocialLinks{
		Youtube:   r.Youtube,
		Twitter:   r.Twitter,
		Facebook:  r.Facebook,
		Linkedin:  r.Linkedin,
		Instagram: r.Instagram,
	}
}

type ExperienceRequest struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    *string `json:"location,omitempty"`
	From        string  `json:"from"`
	To          *string `json:"to,omitempty"`
	Current     bool    `json:"current"`
	Description *string `json:"description,omitempty"`
}

func (r *ExperienceRequest) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(r.Title) == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(r.Company) == "" {
		fields = append(fields, apperr.FieldError{Field: "company", Message: "company is required"})
	}
	fields = appendDateErrors(fields, r.From, r.To)
	if len(fields) > 0 {
		return apperr.ValidationFailed(fields...)
	}
	return nil
}

// Entry materializes the request into a domain entry with a fresh id.
func (r *ExperienceRequest) Entry() domain.Experience {
	from, _ := parseDate(r.From)
	return domain.Experience{
		ID:          uuid.NewString(),
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          parseOptionalDate(r.To),
		Current:     r.Current,
		Description: r.Description,
	}
}

type EducationRequest struct {
	School       string  `json:"school"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldofstudy"`
	From         string  `json:"from"`
	To           *string `json:"to,omitempty"`
	Current      bool    `json:"current"`
	Description  *string `json:"description,omitempty"`
}

func (r *EducationRequest) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(r.School) == "" {
		fields = append(fields, apperr.FieldError{Field: "school", Message: "school is required"})
	}
	if strings.TrimSpace(r.Degree) == "" {
		fields = append(fields, apperr.FieldError{Field: "degree", Message: "degree is required"})
	}
	if strings.TrimSpace(r.FieldOfStudy) == "" {
		fields = append(fields, apperr.FieldError{Field: "fieldofstudy", Message: "fieldofstudy is required"})
	}
	fields = appendDateErrors(fields, r.From, r.To)
	if len(fields) > 0 {
		return apperr.ValidationFailed(fields...)
	}
	return nil
}

func (r *EducationRequest) Entry() domain.Education {
	from, _ := parseDate(r.From)
	return domain.Education{
		ID:           uuid.NewString(),
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           parseOptionalDate(r.To),
		Current:      r.Current,
		Description:  r.Description,
	}
}

func appendDateErrors(fields []apperr.FieldError, from string, to *string) []apperr.FieldError {
	if strings.TrimSpace(from) == "" {
		fields = append(fields, apperr.FieldError{Field: "from", Message: "from date is required"})
	} else if _, err := parseDate(from); err != nil {
		fields = append(fields, apperr.FieldError{Field: "from", Message: "from must be a valid date"})
	}
	if to != nil && *to != "" {
		if _, err := parseDate(*to); err != nil {
			fields = append(fields, apperr.FieldError{Field: "to", Message: "to must be a valid date"})
		}
	}
	return fields
}

// parseDate accepts date-only or RFC3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseOptionalDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil
	}
	return &t
}
