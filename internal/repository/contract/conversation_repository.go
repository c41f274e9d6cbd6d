package contract

import (
	"context"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkDeleted sets deleted_at on a live row and reports whether a row changed.
	// A row that is already deleted keeps its original timestamp.
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// ClearDeleted clears deleted_at on a deleted row and reports whether a row changed.
	ClearDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// FindState returns the deletion state regardless of visibility, or nil when the row does not exist.
	FindState(ctx context.Context, id uuid.UUID) (entity.DeletionState, error)
}
