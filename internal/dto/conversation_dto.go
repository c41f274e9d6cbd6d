package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
}

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListConversationsRequest struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
	Status string `query:"status" validate:"omitempty,oneof=active ended archived"`
}

type ListConversationsResponse struct {
	Conversations []*ConversationResponse `json:"conversations"`
	Total         int64                   `json:"total"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
}

type EmotionSnapshotResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Emotion   string    `json:"emotion"`
	Energy    int       `json:"energy"`
}

type ConversationResponse struct {
	Id                   uuid.UUID                 `json:"id"`
	Title                *string                   `json:"title"`
	StartedAt            time.Time                 `json:"started_at"`
	EndedAt              *time.Time                `json:"ended_at"`
	DominantEmotion      *string                   `json:"dominant_emotion"`
	EmotionProgression   []EmotionSnapshotResponse `json:"emotion_progression"`
	MessageCount         int                       `json:"message_count"`
	TotalDurationSeconds int                       `json:"total_duration_seconds"`
	HasVoiceMessages     bool                      `json:"has_voice_messages"`
	Status               string                    `json:"status"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

type UpdateConversationRequest struct {
	Id     uuid.UUID `json:"-"`
	Title  *string   `json:"title" validate:"omitempty,max=200"`
	Status *string   `json:"status" validate:"omitempty,oneof=active ended archived"`
}

type DeletionStatusResponse struct {
	Id        uuid.UUID  `json:"id"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
}
