package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// conversationV1 is the conversations table as it existed before soft delete.
// It is frozen here so that later model changes do not rewrite history.
type conversationV1 struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_user_id"`
	Title                *string   `gorm:"type:text"`
	StartedAt            time.Time `gorm:"not null"`
	EndedAt              *time.Time
	DominantEmotion      *string `gorm:"type:text"`
	EmotionProgression   datatypes.JSON
	MessageCount         int    `gorm:"not null;default:0"`
	TotalDurationSeconds int    `gorm:"default:0"`
	HasVoiceMessages     bool   `gorm:"not null;default:false"`
	Status               string `gorm:"type:text;not null;default:active"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (conversationV1) TableName() string {
	return "conversations"
}

func init() {
	Register(Migration{
		Version:     "20250101-000000",
		Description: "Create conversations table",
		Up: func(tx *gorm.DB) error {
			m := tx.Migrator()
			if !m.HasTable(&conversationV1{}) {
				if err := m.CreateTable(&conversationV1{}); err != nil {
					return err
				}
			}
			if !m.HasIndex(&conversationV1{}, "idx_conversations_user_id") {
				return m.CreateIndex(&conversationV1{}, "idx_conversations_user_id")
			}
			return nil
		},
	})
}
