package nats

import (
	"testing"
	"time"

	"ai-companion-be/pkg/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anonymousEvent struct{}

func (anonymousEvent) EventType() string               { return "CONVERSATION_PING" }
func (anonymousEvent) Payload() map[string]interface{} { return nil }
func (anonymousEvent) Timestamp() time.Time            { return time.Time{} }

func TestSubject(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{"deleted", events.NewLifecycleEvent(events.ConversationDeleted, uuid.New(), uuid.New(), &now, now), "events.CONVERSATION_DELETED"},
		{"restored", events.NewLifecycleEvent(events.ConversationRestored, uuid.New(), uuid.New(), nil, now), "events.CONVERSATION_RESTORED"},
		{"other", anonymousEvent{}, "events.CONVERSATION_PING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.event))
		})
	}
}

func TestSubjectsCoveredByStream(t *testing.T) {
	cfg := StreamConfig()
	require.Len(t, cfg.Subjects, 1)
	assert.Equal(t, "events.CONVERSATION_>", cfg.Subjects[0])
	assert.Equal(t, jetstream.LimitsPolicy, cfg.Retention)
	assert.Positive(t, cfg.Duplicates)
}

func TestPublishOptions(t *testing.T) {
	evt := events.NewLifecycleEvent(events.ConversationDeleted, uuid.New(), uuid.New(), nil, time.Now())

	assert.Len(t, publishOptions(evt), 1)
	assert.Empty(t, publishOptions(anonymousEvent{}))
}
