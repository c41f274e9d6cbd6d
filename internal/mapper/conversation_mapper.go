package mapper

import (
	"encoding/json"
	"fmt"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) (*entity.Conversation, error) {
	if c == nil {
		return nil, nil
	}

	var state entity.DeletionState = entity.Live{}
	if c.DeletedAt.Valid {
		state = entity.Deleted{Since: c.DeletedAt.Time}
	}

	var progression []entity.EmotionSnapshot
	if len(c.EmotionProgression) > 0 {
		if err := json.Unmarshal(c.EmotionProgression, &progression); err != nil {
			return nil, fmt.Errorf("decode emotion_progression of conversation %s: %w", c.Id, err)
		}
	}

	return &entity.Conversation{
		Id:                   c.Id,
		UserId:               c.UserId,
		Title:                c.Title,
		StartedAt:            c.StartedAt,
		EndedAt:              c.EndedAt,
		DominantEmotion:      c.DominantEmotion,
		EmotionProgression:   progression,
		MessageCount:         c.MessageCount,
		TotalDurationSeconds: c.TotalDurationSeconds,
		HasVoiceMessages:     c.HasVoiceMessages,
		Status:               c.Status,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		Deletion:             state,
	}, nil
}

func (m *ConversationMapper) ToEntities(models []*model.Conversation) ([]*entity.Conversation, error) {
	entities := make([]*entity.Conversation, len(models))
	for i, c := range models {
		e, err := m.ToEntity(c)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) (*model.Conversation, error) {
	if c == nil {
		return nil, nil
	}

	var deletedAt gorm.DeletedAt
	if t := entity.DeletedAtPtr(c.Deletion); t != nil {
		deletedAt = gorm.DeletedAt{Time: *t, Valid: true}
	}

	var progression datatypes.JSON
	if len(c.EmotionProgression) > 0 {
		raw, err := json.Marshal(c.EmotionProgression)
		if err != nil {
			return nil, fmt.Errorf("encode emotion_progression of conversation %s: %w", c.Id, err)
		}
		progression = datatypes.JSON(raw)
	}

	return &model.Conversation{
		Id:                   c.Id,
		UserId:               c.UserId,
		Title:                c.Title,
		StartedAt:            c.StartedAt,
		EndedAt:              c.EndedAt,
		DominantEmotion:      c.DominantEmotion,
		EmotionProgression:   progression,
		MessageCount:         c.MessageCount,
		TotalDurationSeconds: c.TotalDurationSeconds,
		HasVoiceMessages:     c.HasVoiceMessages,
		Status:               c.Status,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		DeletedAt:            deletedAt,
	}, nil
}
