package profile

import (
	"context"
	"time"
)

type Skill struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	IsVisible bool   `json:"isVisible"`
}

type EducationEntry struct {
	ID          string `json:"id" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Period      string `json:"period" validate:"required"`
	IsVisible   bool   `json:"isVisible"`
}

type SocialLink struct {
	ID        string `json:"id" validate:"required"`
	Platform  string `json:"platform" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
	Label     string `json:"label,omitempty"`
	IsVisible bool   `json:"isVisible"`
}

type ProfessionalDetail struct {
	ID         string `json:"id" validate:"required"`
	Profession string `json:"profession" validate:"required"`
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	IsVisible  *bool  `json:"isVisible,omitempty"`
}

// Visible reports whether the detail should be shown; an unset flag means shown.
func (d ProfessionalDetail) Visible() bool {
	return d.IsVisible == nil || *d.IsVisible
}

// Profile is the whole card record. It is always read and written as a unit.
type Profile struct {
	UserID  string `json:"userId"`
	ShortID string `json:"shortId,omitempty"`

	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Headline   string `json:"headline" validate:"max=100"`
	Profession string `json:"profession"`
	Company    string `json:"company"`
	Location   string `json:"location"`

	ProfilePictureURL string `json:"profilePictureUrl" validate:"omitempty,url"`
	CoverPhotoURL     string `json:"coverPhotoUrl" validate:"omitempty,url"`

	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone"`

	Skills              []Skill              `json:"skills" validate:"unique=ID,dive"`
	Education           []EducationEntry     `json:"education" validate:"unique=ID,dive"`
	Links               []SocialLink         `json:"links" validate:"unique=ID,dive"`
	ProfessionalDetails []ProfessionalDetail `json:"professionalDetails" validate:"unique=ID,dive"`

	ShowHeadline     bool `json:"showHeadline"`
	ShowProfession   bool `json:"showProfession"`
	ShowCompany      bool `json:"showCompany"`
	ShowLocation     bool `json:"showLocation"`
	ShowContactEmail bool `json:"showContactEmail"`
	ShowContactPhone bool `json:"showContactPhone"`

	Theme string `json:"theme"`

	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Normalize materializes absent lists so readers never see nil slices.
func (p *Profile) Normalize() *Profile {
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Education == nil {
		p.Education = []EducationEntry{}
	}
	if p.Links == nil {
		p.Links = []SocialLink{}
	}
	if p.ProfessionalDetails == nil {
		p.ProfessionalDetails = []ProfessionalDetail{}
	}
	return p
}

// Clone returns a deep copy; list order is preserved.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = append([]Skill(nil), p.Skills...)
	c.Education = append([]EducationEntry(nil), p.Education...)
	c.Links = append([]SocialLink(nil), p.Links...)
	c.ProfessionalDetails = make([]ProfessionalDetail, len(p.ProfessionalDetails))
	for i, d := range p.ProfessionalDetails {
		if d.IsVisible != nil {
			v := *d.IsVisible
			d.IsVisible = &v
		}
		c.ProfessionalDetails[i] = d
	}
	return c.Normalize()
}

func (p *Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByShortID(ctx context.Context, shortID string) (*Profile, error)
	Replace(ctx context.Context, p *Profile) error
}

// Cache holds rendered-ready records in front of the repository.
type Cache interface {
	Get(ctx context.Context, userID string) (*Profile, bool)
	Set(ctx context.Context, p *Profile) error
	LookupShortID(ctx context.Context, shortID string) (string, bool)
	Invalidate(ctx context.Context, userID string) error
}
