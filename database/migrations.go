package database

import (
	"fmt"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Migration struct {
	Version string
	Up      func(tx *gorm.DB) error
}

// Migrations is the ordered schema history. Append only; applied versions are
// recorded in schema_migrations and never rerun.
var Migrations = []Migration{
	{Version: "0001_initial_schema", Up: initialSchema},
	{Version: "0002_normalize_latest_attempts", Up: normalizeLatestAttempts},
}

func Migrate(db *gorm.DB) error {
	return MigrateWith(db, Migrations)
}

func MigrateWith(db *gorm.DB, migrations []Migration) error {
	if err := db.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&models.SchemaMigration{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{Version: m.Version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		log.Info().Str("version", m.Version).Msg("migration applied")
	}
	return nil
}

func initialSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&models.User{},
		&models.Position{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Candidate{},
		&models.TestAttempt{},
		&models.TestResult{},
		&models.ResultAnswer{},
		&models.RetestRequest{},
		&models.CandidateTestProgress{},
		&models.Settings{},
	)
}

// normalizeLatestAttempts leaves exactly one latest attempt per pair: the one
// with the highest attempt number.
func normalizeLatestAttempts(tx *gorm.DB) error {
	type pair struct {
		CandidateID string
		PositionID  string
		MaxNumber   int
	}
	var pairs []pair
	err := tx.Model(&models.TestAttempt{}).
		Select("candidate_id, position_id, MAX(attempt_number) AS max_number").
		Group("candidate_id, position_id").
		Scan(&pairs).Error
	if err != nil {
		return err
	}

	for _, p := range pairs {
		scope := tx.Model(&models.TestAttempt{}).Where("candidate_id = ? AND position_id = ?", p.CandidateID, p.PositionID)
		if err := scope.Where("attempt_number <> ?", p.MaxNumber).Update("is_latest", false).Error; err != nil {
			return err
		}
		err := tx.Model(&models.TestAttempt{}).
			Where("candidate_id = ? AND position_id = ? AND attempt_number = ?", p.CandidateID, p.PositionID, p.MaxNumber).
			Update("is_latest", true).Error
		if err != nil {
			return err
		}
	}
	return nil
}
