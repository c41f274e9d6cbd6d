package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeletedAtComment documents the deleted_at column. It is written to the
// database as a column comment by the soft-delete migration.
const DeletedAtComment = "Timestamp when conversation was soft-deleted. NULL means not deleted"

// LiveIndexName is the partial index covering only rows with deleted_at IS NULL.
const LiveIndexName = "idx_conversations_deleted_at"

type Conversation struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index"`
	Title                *string   `gorm:"type:text"`
	StartedAt            time.Time `gorm:"not null"`
	EndedAt              *time.Time
	DominantEmotion      *string `gorm:"type:text"`
	EmotionProgression   datatypes.JSON
	MessageCount         int            `gorm:"not null;default:0"`
	TotalDurationSeconds int            `gorm:"default:0"`
	HasVoiceMessages     bool           `gorm:"not null;default:false"`
	Status               string         `gorm:"type:text;not null;default:active"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index:idx_conversations_deleted_at,where:deleted_at IS NULL;comment:Timestamp when conversation was soft-deleted. NULL means not deleted"`
}

func (Conversation) TableName() string {
	return "conversations"
}
