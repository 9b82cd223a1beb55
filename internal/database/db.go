package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/applyforge/applyforge-backend/internal/config"
	"github.com/applyforge/applyforge-backend/internal/models"
)

// Connect opens the Postgres connection and runs migrations.
func Connect(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.CandidateProfile{},
		&models.CVDocument{},
		&models.JobApplication{},
	); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
