package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/repository/specification"
	"ai-companion-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLength = 200

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListConversationsRequest) (*dto.ListConversationsResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Status(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeletionStatusResponse, error)
}

type conversationService struct {
	uowFactory   unitofwork.RepositoryFactory
	lifecycle    ILifecycleService
	defaultLimit int
	maxLimit     int
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	lifecycle ILifecycleService,
	defaultLimit int,
	maxLimit int,
) IConversationService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = 20
	}
	return &conversationService{
		uowFactory:   uowFactory,
		lifecycle:    lifecycle,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (c *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		StartedAt: now,
		Status:    entity.ConversationStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		Deletion:  entity.Live{},
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	return &dto.CreateConversationResponse{
		Id: conversation.Id,
	}, nil
}

func (c *conversationService) List(ctx context.Context, userId uuid.UUID, req *dto.ListConversationsRequest) (*dto.ListConversationsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = c.defaultLimit
	}
	if limit > c.maxLimit {
		limit = c.maxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	filter := ConversationFilter{
		UserID:  &userId,
		Status:  req.Status,
		OrderBy: "updated_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	}

	conversations, err := c.lifecycle.ListLive(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := c.lifecycle.CountLive(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		result = append(result, toConversationResponse(conversation))
	}

	return &dto.ListConversationsResponse{
		Conversations: result,
		Total:         total,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (c *conversationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationResponse, error) {
	conversation, err := c.findOwned(ctx, userId, id, specification.NotDeleted{})
	if err != nil {
		return nil, err
	}
	return toConversationResponse(conversation), nil
}

func (c *conversationService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	conversation, err := c.findOwned(ctx, userId, req.Id, specification.NotDeleted{})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Title != nil {
		title, err := normalizeTitle(req.Title)
		if err != nil {
			return nil, err
		}
		conversation.Title = title
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.ConversationStatusActive, entity.ConversationStatusArchived:
		case entity.ConversationStatusEnded:
			if conversation.EndedAt == nil {
				conversation.EndedAt = &now
			}
		default:
			return nil, &apperror.ValidationError{Field: "status", Message: "must be one of active, ended, archived"}
		}
		conversation.Status = *req.Status
	}
	conversation.UpdatedAt = now

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		// Deleted between the read and the write.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(req.Id)
		}
		return nil, apperror.Classify(conversationResource, req.Id.String(), err)
	}

	return toConversationResponse(conversation), nil
}

// Delete soft deletes a conversation owned by userId. Deleting an already
// deleted conversation succeeds without changing its deletion time.
func (c *conversationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	if _, err := c.findOwned(ctx, userId, id, specification.IncludeDeleted{}); err != nil {
		return err
	}
	return c.lifecycle.SoftDelete(ctx, id)
}

func (c *conversationService) Restore(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	if _, err := c.findOwned(ctx, userId, id, specification.IncludeDeleted{}); err != nil {
		return err
	}
	return c.lifecycle.Restore(ctx, id)
}

func (c *conversationService) Status(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeletionStatusResponse, error) {
	if _, err := c.findOwned(ctx, userId, id, specification.IncludeDeleted{}); err != nil {
		return nil, err
	}

	state, err := c.lifecycle.State(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.DeletionStatusResponse{
		Id:        id,
		Deleted:   state.IsDeleted(),
		DeletedAt: entity.DeletedAtPtr(state),
	}, nil
}

// findOwned returns NotFound for conversations owned by someone else so
// their existence is not leaked.
func (c *conversationService) findOwned(ctx context.Context, userId, id uuid.UUID, visibility specification.Specification) (*entity.Conversation, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		visibility,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, notFound(id)
	}
	return conversation, nil
}

func notFound(id uuid.UUID) error {
	return &apperror.NotFoundError{Resource: conversationResource, ID: id.String()}
}

func normalizeTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > maxTitleLength {
		return nil, &apperror.ValidationError{Field: "title", Message: "must be at most 200 characters"}
	}
	return &trimmed, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	progression := make([]dto.EmotionSnapshotResponse, 0, len(c.EmotionProgression))
	for _, snapshot := range c.EmotionProgression {
		progression = append(progression, dto.EmotionSnapshotResponse{
			Timestamp: snapshot.Timestamp,
			Emotion:   snapshot.Emotion,
			Energy:    snapshot.Energy,
		})
	}

	return &dto.ConversationResponse{
		Id:                   c.Id,
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
	}
}
