package model

import "time"

type SchemaMigration struct {
	Version     string    `gorm:"type:varchar(32);primaryKey"`
	Description string    `gorm:"type:text;not null"`
	AppliedAt   time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}
