package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
	"github.com/applyforge/applyforge-backend/internal/models"
)

// Store is the narrow persistence contract the lifecycle engine
// consumes. The gorm implementation below is the production one; tests
// substitute an in-memory fake.
type Store interface {
	// ProfileByUserID loads a profile with its applications (creation
	// order) and their CV documents attached.
	ProfileByUserID(ctx context.Context, userID string) (*models.CandidateProfile, error)
	CreateProfile(ctx context.Context, p *models.CandidateProfile) error

	// ApplicationByID loads an application with its owning profile, for
	// ownership checks.
	ApplicationByID(ctx context.Context, id uint) (*models.JobApplication, error)

	// SaveApplication inserts when the primary key is zero, updates
	// otherwise. Associations are never cascaded through this call.
	SaveApplication(ctx context.Context, app *models.JobApplication) error

	SaveDocument(ctx context.Context, doc *models.CVDocument) error

	// DeactivateApplications clears is_active on every application of
	// the profile. Idempotent bulk update.
	DeactivateApplications(ctx context.Context, profileID uint) error

	// InTransaction runs fn against a transactional view of the store.
	// Reads inside the transaction take row locks so that concurrent
	// activate sequences on the same profile serialize.
	InTransaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewStore wraps a gorm connection in the Store contract.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ProfileByUserID(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var profile models.CandidateProfile
	err := q.
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Applications.CVDocument").
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return &profile, nil
}

func (s *gormStore) CreateProfile(ctx context.Context, p *models.CandidateProfile) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}
	return nil
}

func (s *gormStore) ApplicationByID(ctx context.Context, id uint) (*models.JobApplication, error) {
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var app models.JobApplication
	err := q.Preload("Profile").Preload("CVDocument").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}
	return &app, nil
}

func (s *gormStore) SaveApplication(ctx context.Context, app *models.JobApplication) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error; err != nil {
		return fmt.Errorf("saving application: %w", err)
	}
	return nil
}

func (s *gormStore) SaveDocument(ctx context.Context, doc *models.CVDocument) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (s *gormStore) DeactivateApplications(ctx context.Context, profileID uint) error {
	err := s.db.WithContext(ctx).
		Model(&models.JobApplication{}).
		Where("profile_id = ?", profileID).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("deactivating applications: %w", err)
	}
	return nil
}

func (s *gormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
}
