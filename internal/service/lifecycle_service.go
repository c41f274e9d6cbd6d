package service

import (
	"context"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/internal/repository/specification"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TransitionSoftDelete = "soft_delete"
	TransitionRestore    = "restore"
	TransitionIsDeleted  = "is_deleted"
	TransitionState      = "state"
	TransitionListLive   = "list_live"

	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"

	conversationResource = "conversation"
	lifecycleModule      = "LIFECYCLE"
)

// ConversationFilter narrows ListLive. The live predicate is always applied
// and cannot be lifted through a filter.
type ConversationFilter struct {
	UserID        *uuid.UUID
	Status        string
	TitleContains string
	OrderBy       string
	Desc          bool
	Limit         int
	Offset        int
}

// ILifecycleService mediates every deletion state transition of a conversation.
//
// Each transition is a single conditional UPDATE, so concurrent soft deletes
// and restores on one row resolve last-write-wins in the store's commit order.
// Read committed isolation is sufficient; no lock is held in process.
type ILifecycleService interface {
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	IsDeleted(ctx context.Context, id uuid.UUID) (bool, error)
	State(ctx context.Context, id uuid.UUID) (entity.DeletionState, error)
	ListLive(ctx context.Context, filter ConversationFilter) ([]*entity.Conversation, error)
	CountLive(ctx context.Context, filter ConversationFilter) (int64, error)
}

type lifecycleService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  message.Publisher
	logger     logger.ILogger
	tracer     trace.Tracer
	now        func() time.Time
}

func NewLifecycleService(uowFactory unitofwork.RepositoryFactory, publisher message.Publisher, log logger.ILogger) ILifecycleService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &lifecycleService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
		tracer:     otel.Tracer("ai-companion-be/service/lifecycle"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *lifecycleService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.startSpan(ctx, "LifecycleService.SoftDelete", id)
	defer span.End()

	repo := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository()
	at := s.now()

	changed, err := repo.MarkDeleted(ctx, id, at)
	if err != nil {
		return s.fail(span, id, TransitionSoftDelete, apperror.Classify(conversationResource, id.String(), err))
	}
	if !changed {
		return s.resolveNoop(ctx, span, id, TransitionSoftDelete)
	}

	s.logTransition(id, TransitionSoftDelete, OutcomeApplied)
	span.SetAttributes(attribute.String("lifecycle.outcome", OutcomeApplied))
	s.publish(ctx, events.ConversationDeleted, id, &at, at)
	return nil
}

func (s *lifecycleService) Restore(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.startSpan(ctx, "LifecycleService.Restore", id)
	defer span.End()

	repo := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository()
	at := s.now()

	changed, err := repo.ClearDeleted(ctx, id, at)
	if err != nil {
		return s.fail(span, id, TransitionRestore, apperror.Classify(conversationResource, id.String(), err))
	}
	if !changed {
		return s.resolveNoop(ctx, span, id, TransitionRestore)
	}

	s.logTransition(id, TransitionRestore, OutcomeApplied)
	span.SetAttributes(attribute.String("lifecycle.outcome", OutcomeApplied))
	s.publish(ctx, events.ConversationRestored, id, nil, at)
	return nil
}

func (s *lifecycleService) IsDeleted(ctx context.Context, id uuid.UUID) (bool, error) {
	state, err := s.lookupState(ctx, "LifecycleService.IsDeleted", id, TransitionIsDeleted)
	if err != nil {
		return false, err
	}
	return state.IsDeleted(), nil
}

func (s *lifecycleService) State(ctx context.Context, id uuid.UUID) (entity.DeletionState, error) {
	return s.lookupState(ctx, "LifecycleService.State", id, TransitionState)
}

func (s *lifecycleService) ListLive(ctx context.Context, filter ConversationFilter) ([]*entity.Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleService.ListLive")
	defer span.End()

	repo := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository()
	specs := append(liveSpecs(filter),
		specification.OrderBy{Field: filter.OrderBy, Desc: filter.Desc},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)

	conversations, err := repo.FindAll(ctx, specs...)
	if err != nil {
		err = &apperror.LifecycleError{Transition: TransitionListLive, Err: apperror.Classify(conversationResource, "", err)}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("lifecycle.result_count", len(conversations)))
	return conversations, nil
}

func (s *lifecycleService) CountLive(ctx context.Context, filter ConversationFilter) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleService.CountLive")
	defer span.End()

	repo := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository()
	count, err := repo.Count(ctx, liveSpecs(filter)...)
	if err != nil {
		err = &apperror.LifecycleError{Transition: TransitionListLive, Err: apperror.Classify(conversationResource, "", err)}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return count, nil
}

// liveSpecs puts the live predicate first, then the caller's filters.
func liveSpecs(filter ConversationFilter) []specification.Specification {
	specs := []specification.Specification{specification.NotDeleted{}}
	if filter.UserID != nil {
		specs = append(specs, specification.UserOwnedBy{UserID: *filter.UserID})
	}
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}
	if filter.TitleContains != "" {
		specs = append(specs, specification.TitleContains{Query: filter.TitleContains})
	}
	return specs
}

func (s *lifecycleService) lookupState(ctx context.Context, spanName string, id uuid.UUID, transition string) (entity.DeletionState, error) {
	ctx, span := s.startSpan(ctx, spanName, id)
	defer span.End()

	state, err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindState(ctx, id)
	if err != nil {
		return nil, s.fail(span, id, transition, apperror.Classify(conversationResource, id.String(), err))
	}
	if state == nil {
		return nil, s.fail(span, id, transition, &apperror.NotFoundError{Resource: conversationResource, ID: id.String()})
	}
	span.SetAttributes(attribute.String("lifecycle.state", state.String()))
	return state, nil
}

// resolveNoop decides between NotFound and an idempotent no-op after a
// conditional update matched nothing.
func (s *lifecycleService) resolveNoop(ctx context.Context, span trace.Span, id uuid.UUID, transition string) error {
	state, err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindState(ctx, id)
	if err != nil {
		return s.fail(span, id, transition, apperror.Classify(conversationResource, id.String(), err))
	}
	if state == nil {
		return s.fail(span, id, transition, &apperror.NotFoundError{Resource: conversationResource, ID: id.String()})
	}

	s.logTransition(id, transition, OutcomeNoop)
	span.SetAttributes(attribute.String("lifecycle.outcome", OutcomeNoop))
	return nil
}

func (s *lifecycleService) publish(ctx context.Context, eventType string, id uuid.UUID, deletedAt *time.Time, at time.Time) {
	if s.publisher == nil {
		return
	}

	// Owner lookup for routing the event to the user's devices.
	conversation, err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindOne(ctx,
		specification.IncludeDeleted{},
		specification.ByID{ID: id},
	)
	if err != nil || conversation == nil {
		s.logger.Warn(lifecycleModule, "Skipping lifecycle event, owner lookup failed", map[string]interface{}{
			"conversation_id": id.String(),
			"type":            eventType,
			"error":           errString(err),
		})
		return
	}

	evt := events.NewLifecycleEvent(eventType, id, conversation.UserId, deletedAt, at)
	payload, err := evt.Marshal()
	if err != nil {
		s.logger.Error(lifecycleModule, "Failed to marshal lifecycle event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(evt.ID.String(), payload)
	msg.SetContext(ctx)
	if err := s.publisher.Publish(events.LifecycleTopic, msg); err != nil {
		s.logger.Error(lifecycleModule, "Failed to publish lifecycle event", map[string]interface{}{
			"conversation_id": id.String(),
			"type":            eventType,
			"error":           err.Error(),
		})
	}
}

func (s *lifecycleService) startSpan(ctx context.Context, name string, id uuid.UUID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("conversation.id", id.String())))
}

func (s *lifecycleService) fail(span trace.Span, id uuid.UUID, transition string, err error) error {
	wrapped := &apperror.LifecycleError{ID: id.String(), Transition: transition, Err: err}
	span.RecordError(wrapped)
	span.SetStatus(codes.Error, wrapped.Error())

	if !apperror.IsNotFound(err) {
		s.logger.Error(lifecycleModule, "Lifecycle operation failed", map[string]interface{}{
			"conversation_id": id.String(),
			"transition":      transition,
			"error":           err.Error(),
		})
	}
	return wrapped
}

func (s *lifecycleService) logTransition(id uuid.UUID, transition, outcome string) {
	s.logger.Info(lifecycleModule, "Conversation lifecycle transition", map[string]interface{}{
		"conversation_id": id.String(),
		"transition":      transition,
		"outcome":         outcome,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
