package models

import "time"

type SchemaMigration struct {
	Version   string    `gorm:"primaryKey;size:100"`
	AppliedAt time.Time `gorm:"not null"`
}
