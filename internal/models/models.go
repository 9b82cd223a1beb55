package models

import (
	"time"

	"gorm.io/gorm"
)

// ExperienceLevel is the seniority a candidate targets.
type ExperienceLevel string

const (
	ExperienceIntern ExperienceLevel = "INTERN"
	ExperienceJunior ExperienceLevel = "JUNIOR"
	ExperienceMid    ExperienceLevel = "MID"
	ExperienceSenior ExperienceLevel = "SENIOR"
	ExperienceLead   ExperienceLevel = "LEAD"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceIntern, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}

// WorkMode is where the candidate wants to work from.
type WorkMode string

const (
	WorkModeRemote WorkMode = "REMOTE"
	WorkModeOnsite WorkMode = "ONSITE"
	WorkModeHybrid WorkMode = "HYBRID"
)

func (w WorkMode) Valid() bool {
	switch w {
	case WorkModeRemote, WorkModeOnsite, WorkModeHybrid:
		return true
	}
	return false
}

// FormalityLevel tunes the tone of generated documents. Optional.
type FormalityLevel string

const (
	FormalityCasual  FormalityLevel = "CASUAL"
	FormalityNeutral FormalityLevel = "NEUTRAL"
	FormalityFormal  FormalityLevel = "FORMAL"
)

func (f FormalityLevel) Valid() bool {
	switch f {
	case FormalityCasual, FormalityNeutral, FormalityFormal:
		return true
	}
	return false
}

// CandidateProfile is the per-user root record. Created the first time an
// application-related onboarding step completes; never deleted here.
type CandidateProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UserID comes from the identity provider; this service never mints it.
	UserID   string `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Link     string `json:"link"`
	Location string `json:"location"`

	// AIDescription is the generated self-summary; the override wins when set.
	AIDescription         string `gorm:"type:text" json:"ai_description"`
	AIDescriptionOverride string `gorm:"type:text" json:"ai_description_override"`

	// 'omitempty' prevents cycles when marshalling Profile -> Applications -> Profile
	Applications []JobApplication `gorm:"foreignKey:ProfileID" json:"applications,omitempty"`
}

// JobApplication bundles a desired position, job description and CV.
// At most one application per profile is active at any time.
type JobApplication struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProfileID uint             `gorm:"index;not null" json:"profile_id"`
	Profile   CandidateProfile `json:"-"`

	// Name is the generated display label, capped at 50 characters.
	Name            string          `gorm:"size:50" json:"name"`
	DesiredPosition string          `gorm:"not null" json:"desired_position"`
	ExperienceLevel ExperienceLevel `gorm:"size:16;not null" json:"experience_level"`
	WorkMode        WorkMode        `gorm:"size:16;not null" json:"work_mode"`
	JobDescription  string          `gorm:"type:text" json:"job_description"`
	FormalityLevel  FormalityLevel  `gorm:"size:16" json:"formality_level,omitempty"`
	IsActive        bool            `gorm:"not null;default:false" json:"is_active"`

	CVDocumentID *string     `gorm:"size:36" json:"cv_document_id,omitempty"`
	CVDocument   *CVDocument `gorm:"foreignKey:CVDocumentID" json:"cv_document,omitempty"`
}

// CVDocument is the stored-file handle produced by the file-storage
// collaborator. Only the handle lives here, never the bytes.
type CVDocument struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name      string `gorm:"not null" json:"name"`
	Extension string `gorm:"size:16" json:"extension"`
	Size      int64  `json:"size"`
	Path      string `gorm:"not null" json:"path"`
}
