package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConversationStatusActive   = "active"
	ConversationStatusEnded    = "ended"
	ConversationStatusArchived = "archived"
)

type Conversation struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Title                *string
	StartedAt            time.Time
	EndedAt              *time.Time
	DominantEmotion      *string
	EmotionProgression   []EmotionSnapshot
	MessageCount         int
	TotalDurationSeconds int
	HasVoiceMessages     bool
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Deletion is never nil for conversations loaded from the store.
	Deletion DeletionState
}

type EmotionSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Emotion   string    `json:"emotion"`
	Energy    int       `json:"energy"`
}

// IsDeleted is the only predicate business code should use to decide visibility.
func (c *Conversation) IsDeleted() bool {
	return c.Deletion != nil && c.Deletion.IsDeleted()
}
