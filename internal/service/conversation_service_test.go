package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-companion-be/internal/dto"
	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationFixture(t *testing.T) (IConversationService, unitofwork.RepositoryFactory) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	lifecycle := NewLifecycleService(factory, newRecordingPublisher(), nil)
	return NewConversationService(factory, lifecycle, 20, 100), factory
}

func strPtr(s string) *string { return &s }

func TestConversationCreateAndShow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newConversationFixture(t)
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &dto.CreateConversationRequest{Title: strPtr("  evening journal  ")})
	require.NoError(t, err)

	shown, err := svc.Show(ctx, userID, created.Id)
	require.NoError(t, err)
	require.NotNil(t, shown.Title)
	assert.Equal(t, "evening journal", *shown.Title)
	assert.Equal(t, entity.ConversationStatusActive, shown.Status)
	assert.NotNil(t, shown.EmotionProgression)

	_, err = svc.Show(ctx, uuid.New(), created.Id)
	assert.True(t, apperror.IsNotFound(err), "other users must not see the conversation")
}

func TestConversationCreateRejectsLongTitle(t *testing.T) {
	svc, _ := newConversationFixture(t)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{Title: strPtr(strings.Repeat("a", 201))})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestConversationList(t *testing.T) {
	ctx := context.Background()
	svc, factory := newConversationFixture(t)
	userID := uuid.New()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, seedConversation(t, factory, userID, "c", base.Add(time.Duration(i)*time.Hour)).Id)
	}
	seedConversation(t, factory, uuid.New(), "someone else", base)

	require.NoError(t, svc.Delete(ctx, userID, ids[4]))

	t.Run("newest first without deleted", func(t *testing.T) {
		res, err := svc.List(ctx, userID, &dto.ListConversationsRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Total)
		assert.Equal(t, 20, res.Limit)
		require.Len(t, res.Conversations, 4)
		// The soft delete bumped updated_at of ids[4], but it is hidden.
		assert.Equal(t, ids[3], res.Conversations[0].Id)
		assert.Equal(t, ids[0], res.Conversations[3].Id)
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := svc.List(ctx, userID, &dto.ListConversationsRequest{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Total)
		require.Len(t, res.Conversations, 2)
		assert.Equal(t, ids[1], res.Conversations[0].Id)
		assert.Equal(t, ids[0], res.Conversations[1].Id)
	})

	t.Run("limit is capped", func(t *testing.T) {
		res, err := svc.List(ctx, userID, &dto.ListConversationsRequest{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, res.Limit)
	})

	t.Run("status filter", func(t *testing.T) {
		_, err := svc.Update(ctx, userID, &dto.UpdateConversationRequest{Id: ids[0], Status: strPtr(entity.ConversationStatusArchived)})
		require.NoError(t, err)

		res, err := svc.List(ctx, userID, &dto.ListConversationsRequest{Status: entity.ConversationStatusArchived})
		require.NoError(t, err)
		require.Len(t, res.Conversations, 1)
		assert.Equal(t, ids[0], res.Conversations[0].Id)
		assert.Equal(t, int64(1), res.Total)
	})
}

func TestConversationUpdate(t *testing.T) {
	ctx := context.Background()
	svc, factory := newConversationFixture(t)
	userID := uuid.New()
	c := seedConversation(t, factory, userID, "before", time.Now().UTC())

	updated, err := svc.Update(ctx, userID, &dto.UpdateConversationRequest{
		Id:     c.Id,
		Title:  strPtr("after"),
		Status: strPtr(entity.ConversationStatusEnded),
	})
	require.NoError(t, err)
	assert.Equal(t, c.Id, updated.Id)
	assert.Equal(t, "after", *updated.Title)
	assert.Equal(t, entity.ConversationStatusEnded, updated.Status)
	assert.NotNil(t, updated.EndedAt)

	shown, err := svc.Show(ctx, userID, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "after", *shown.Title)
	assert.Equal(t, entity.ConversationStatusEnded, shown.Status)
	assert.NotNil(t, shown.EndedAt)

	_, err = svc.Update(ctx, userID, &dto.UpdateConversationRequest{Id: c.Id, Status: strPtr("paused")})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Update(ctx, uuid.New(), &dto.UpdateConversationRequest{Id: c.Id, Title: strPtr("hijack")})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, userID, c.Id))
	_, err = svc.Update(ctx, userID, &dto.UpdateConversationRequest{Id: c.Id, Title: strPtr("ghost")})
	assert.True(t, apperror.IsNotFound(err), "deleted conversations are not editable")
}

func TestConversationDeleteRestore(t *testing.T) {
	ctx := context.Background()
	svc, factory := newConversationFixture(t)
	owner := uuid.New()
	stranger := uuid.New()
	c := seedConversation(t, factory, owner, "c", time.Now().UTC())

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, stranger, c.Id)
		assert.True(t, apperror.IsNotFound(err))

		status, err := svc.Status(ctx, owner, c.Id)
		require.NoError(t, err)
		assert.False(t, status.Deleted)
	})

	t.Run("missing conversation", func(t *testing.T) {
		assert.True(t, apperror.IsNotFound(svc.Delete(ctx, owner, uuid.New())))
		assert.True(t, apperror.IsNotFound(svc.Restore(ctx, owner, uuid.New())))
	})

	t.Run("delete hides and restore brings back", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner, c.Id))
		require.NoError(t, svc.Delete(ctx, owner, c.Id))

		_, err := svc.Show(ctx, owner, c.Id)
		assert.True(t, apperror.IsNotFound(err))

		status, err := svc.Status(ctx, owner, c.Id)
		require.NoError(t, err)
		assert.True(t, status.Deleted)
		assert.NotNil(t, status.DeletedAt)

		assert.True(t, apperror.IsNotFound(svc.Restore(ctx, stranger, c.Id)))

		require.NoError(t, svc.Restore(ctx, owner, c.Id))
		require.NoError(t, svc.Restore(ctx, owner, c.Id))

		shown, err := svc.Show(ctx, owner, c.Id)
		require.NoError(t, err)
		assert.Equal(t, c.Id, shown.Id)

		status, err = svc.Status(ctx, owner, c.Id)
		require.NoError(t, err)
		assert.False(t, status.Deleted)
		assert.Nil(t, status.DeletedAt)
	})
}
