package dtos

import (
	"strings"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
	"github.com/applyforge/applyforge-backend/internal/models"
)

// ProfessionalInfoRequest is the payload of the professional-info
// onboarding step and of "apply to another offer".
type ProfessionalInfoRequest struct {
	DesiredPosition string `json:"desired_position" binding:"required"`
	ExperienceLevel string `json:"experience_level" binding:"required"`
	WorkMode        string `json:"work_mode" binding:"required"`

	// Optional identity seed fields, used only when the profile is
	// created for the first time.
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Link     string `json:"link"`
	Location string `json:"location"`
}

// Validate enforces the required fields again at the service boundary;
// the engine never trusts that the HTTP layer ran binding.
func (r *ProfessionalInfoRequest) Validate() error {
	if strings.TrimSpace(r.DesiredPosition) == "" {
		return apperrors.NewValidationError("desired_position", "is required")
	}
	if !models.ExperienceLevel(r.ExperienceLevel).Valid() {
		return apperrors.NewValidationError("experience_level", "must be one of INTERN, JUNIOR, MID, SENIOR, LEAD")
	}
	if !models.WorkMode(r.WorkMode).Valid() {
		return apperrors.NewValidationError("work_mode", "must be one of REMOTE, ONSITE, HYBRID")
	}
	return nil
}

// JobDescriptionRequest updates the job description of an application.
type JobDescriptionRequest struct {
	JobDescription string `json:"job_description" binding:"required"`

	// Optional Fields
	FormalityLevel string `json:"formality_level"`
}

func (r *JobDescriptionRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return apperrors.NewValidationError("job_description", "is required")
	}
	if r.FormalityLevel != "" && !models.FormalityLevel(r.FormalityLevel).Valid() {
		return apperrors.NewValidationError("formality_level", "must be one of CASUAL, NEUTRAL, FORMAL")
	}
	return nil
}
