package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/database"
	"ai-companion-be/pkg/database/migrations"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(context.Background(), db, nil))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedConversation(t *testing.T, factory unitofwork.RepositoryFactory, userID uuid.UUID, title string, updatedAt time.Time) *entity.Conversation {
	t.Helper()
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userID,
		Title:     &title,
		StartedAt: updatedAt,
		Status:    entity.ConversationStatusActive,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
		Deletion:  entity.Live{},
	}
	ctx := context.Background()
	require.NoError(t, factory.NewUnitOfWork(ctx).ConversationRepository().Create(ctx, conversation))
	return conversation
}

// recordingPublisher captures published messages per topic.
type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
	err      error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{messages: make(map[string][]*message.Message)}
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages[topic] = append(p.messages[topic], messages...)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) published(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*message.Message(nil), p.messages[topic]...)
}
