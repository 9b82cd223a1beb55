// Package services holds the application lifecycle engine: candidate
// profiles, their job applications, and the single-active invariant.
package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
	"github.com/applyforge/applyforge-backend/internal/database"
	"github.com/applyforge/applyforge-backend/internal/dtos"
	"github.com/applyforge/applyforge-backend/internal/llm"
	"github.com/applyforge/applyforge-backend/internal/models"
)

type ApplicationService struct {
	store      database.Store
	gateway    *llm.Gateway
	log        *zap.Logger
	genTimeout time.Duration
}

func NewApplicationService(store database.Store, gateway *llm.Gateway, log *zap.Logger, genTimeout time.Duration) *ApplicationService {
	if genTimeout <= 0 {
		genTimeout = 5 * time.Second
	}
	return &ApplicationService{
		store:      store,
		gateway:    gateway,
		log:        log,
		genTimeout: genTimeout,
	}
}

// EnsureProfile completes the professional-info onboarding step. With no
// profile yet it creates one together with a single active application.
// While onboarding a profile that already has applications, the first
// application stays mutable and is updated in place; "apply to another
// offer" is the only path that adds applications (CreateApplication).
func (s *ApplicationService) EnsureProfile(ctx context.Context, userID string, in dtos.ProfessionalInfoRequest) (*models.CandidateProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Naming happens before the transaction: a slow or failing backend
	// must never hold row locks or abort the write.
	name := s.displayName(ctx, in.DesiredPosition, models.ExperienceLevel(in.ExperienceLevel), models.WorkMode(in.WorkMode), "")

	var result *models.CandidateProfile
	err := s.store.InTransaction(ctx, func(tx database.Store) error {
		profile, err := tx.ProfileByUserID(ctx, userID)
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			profile = &models.CandidateProfile{
				UserID:   userID,
				FullName: in.FullName,
				Email:    in.Email,
				Phone:    in.Phone,
				Link:     in.Link,
				Location: in.Location,
				Applications: []models.JobApplication{{
					Name:            name,
					DesiredPosition: in.DesiredPosition,
					ExperienceLevel: models.ExperienceLevel(in.ExperienceLevel),
					WorkMode:        models.WorkMode(in.WorkMode),
					IsActive:        true,
				}},
			}
			if err := tx.CreateProfile(ctx, profile); err != nil {
				return err
			}
			result = profile
			return nil
		}
		if err != nil {
			return err
		}

		if len(profile.Applications) == 0 {
			app := models.JobApplication{
				ProfileID:       profile.ID,
				Name:            name,
				DesiredPosition: in.DesiredPosition,
				ExperienceLevel: models.ExperienceLevel(in.ExperienceLevel),
				WorkMode:        models.WorkMode(in.WorkMode),
				IsActive:        true,
			}
			if err := tx.SaveApplication(ctx, &app); err != nil {
				return err
			}
			profile.Applications = append(profile.Applications, app)
		} else {
			first := &profile.Applications[0]
			first.DesiredPosition = in.DesiredPosition
			first.ExperienceLevel = models.ExperienceLevel(in.ExperienceLevel)
			first.WorkMode = models.WorkMode(in.WorkMode)
			first.Name = name
			if err := tx.SaveApplication(ctx, first); err != nil {
				return err
			}
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateJobDescription sets the job description (and optional formality)
// on the targeted application and regenerates its display name. A nil
// applicationID targets the active-or-latest application (legacy path).
// isActive is never touched here.
func (s *ApplicationService) UpdateJobDescription(ctx context.Context, userID string, applicationID *uint, in dtos.JobDescriptionRequest) (*models.JobApplication, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, s.store, userID, applicationID)
	if err != nil {
		return nil, err
	}

	// A known job description makes longer, more specific names likely;
	// the 50-char cap still applies.
	name := s.displayName(ctx, target.DesiredPosition, target.ExperienceLevel, target.WorkMode, in.JobDescription)

	var result *models.JobApplication
	err = s.store.InTransaction(ctx, func(tx database.Store) error {
		app, err := tx.ApplicationByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if app.Profile.UserID != userID {
			return apperrors.ErrUnauthorized
		}
		app.JobDescription = in.JobDescription
		if in.FormalityLevel != "" {
			app.FormalityLevel = models.FormalityLevel(in.FormalityLevel)
		}
		app.Name = name
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateApplication is the "apply to a different offer" flow. The
// profile must already exist. Deactivating the siblings and inserting
// the new active application happen in one transaction so there is no
// window with zero or two active applications.
func (s *ApplicationService) CreateApplication(ctx context.Context, userID string, in dtos.ProfessionalInfoRequest) (*models.JobApplication, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	name := s.displayName(ctx, in.DesiredPosition, models.ExperienceLevel(in.ExperienceLevel), models.WorkMode(in.WorkMode), "")

	var result *models.JobApplication
	err := s.store.InTransaction(ctx, func(tx database.Store) error {
		profile, err := tx.ProfileByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.DeactivateApplications(ctx, profile.ID); err != nil {
			return err
		}
		app := models.JobApplication{
			ProfileID:       profile.ID,
			Name:            name,
			DesiredPosition: in.DesiredPosition,
			ExperienceLevel: models.ExperienceLevel(in.ExperienceLevel),
			WorkMode:        models.WorkMode(in.WorkMode),
			IsActive:        true,
		}
		if err := tx.SaveApplication(ctx, &app); err != nil {
			return err
		}
		result = &app
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("application created",
		zap.String("user_id", userID),
		zap.Uint("application_id", result.ID),
	)
	return result, nil
}

// SetActiveApplication switches the active application. Idempotent when
// the target is already active.
func (s *ApplicationService) SetActiveApplication(ctx context.Context, userID string, applicationID uint) (*models.JobApplication, error) {
	var result *models.JobApplication
	err := s.store.InTransaction(ctx, func(tx database.Store) error {
		app, err := tx.ApplicationByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app.Profile.UserID != userID {
			return apperrors.ErrUnauthorized
		}
		if err := tx.DeactivateApplications(ctx, app.ProfileID); err != nil {
			return err
		}
		app.IsActive = true
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AttachCV stores the document handle on the targeted application. The
// display name is not regenerated.
func (s *ApplicationService) AttachCV(ctx context.Context, userID string, applicationID *uint, doc models.CVDocument) (*models.JobApplication, error) {
	var result *models.JobApplication
	err := s.store.InTransaction(ctx, func(tx database.Store) error {
		app, err := s.resolveTarget(ctx, tx, userID, applicationID)
		if err != nil {
			return err
		}
		if err := tx.SaveDocument(ctx, &doc); err != nil {
			return err
		}
		app.CVDocumentID = &doc.ID
		app.CVDocument = &doc
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveTarget finds the application an operation acts on: the explicit
// id (with ownership check) or the caller's active-or-latest one.
func (s *ApplicationService) resolveTarget(ctx context.Context, st database.Store, userID string, applicationID *uint) (*models.JobApplication, error) {
	if applicationID != nil {
		app, err := st.ApplicationByID(ctx, *applicationID)
		if err != nil {
			return nil, err
		}
		if app.Profile.UserID != userID {
			return nil, apperrors.ErrUnauthorized
		}
		return app, nil
	}

	profile, err := st.ProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return activeOrLatest(profile.Applications)
}

// activeOrLatest implements the legacy resolution rule: the active
// application if one exists, else the most recently created one.
// Applications arrive in creation order from the store.
func activeOrLatest(apps []models.JobApplication) (*models.JobApplication, error) {
	for i := range apps {
		if apps[i].IsActive {
			return &apps[i], nil
		}
	}
	if len(apps) == 0 {
		return nil, apperrors.ErrApplicationNotFound
	}
	return &apps[len(apps)-1], nil
}
