package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the one-per-user developer profile aggregate. Experience
// and education entries are owned sub-documents with no lifecycle of
// their own, kept newest-first.
type Profile struct {
	ID             string       `json:"id"`
	UserID         uuid.UUID    `json:"user"`
	Company        *string      `json:"company,omitempty"`
	Website        *string      `json:"website,omitempty"`
	Location       *string      `json:"location,omitempty"`
	Bio            *string      `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GithubUsername *string      `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// SocialLinks holds the optional social media handles. Nil means the
// key has never been supplied; updates merge key by key.
type SocialLinks struct {
	Youtube   *string `json:"youtube,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Linkedin  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

// Merge overwrites only the keys present in other.
func (s *SocialLinks) Merge(other SocialLinks) {
	if other.Youtube != nil {
		s.Youtube = other.Youtube
	}
	if other.Twitter != nil {
		s.Twitter = other.Twitter
	}
	if other.Facebook != nil {
		s.Facebook = other.Facebook
	}
	if other.Linkedin != nil {
		s.Linkedin = other.Linkedin
	}
	if other.Instagram != nil {
		s.Instagram = other.Instagram
	}
}

// Experience is a work history entry.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    *string    `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description *string    `json:"description,omitempty"`
}

// Education is a schooling entry.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  *string    `json:"description,omitempty"`
}

// FindExperience locates an entry by its id.
func (p *Profile) FindExperience(id string) *Experience {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			return &p.Experience[i]
		}
	}
	return nil
}

// FindEducation locates an entry by its id.
func (p *Profile) FindEducation(id string) *Education {
	for i := range p.Education {
		if p.Education[i].ID == id {
			return &p.Education[i]
		}
	}
	return nil
}

// GithubRepo is a public repository summary fetched for a profile's
// github username.
type GithubRepo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}
