package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ConversationDeleted  = "CONVERSATION_DELETED"
	ConversationRestored = "CONVERSATION_RESTORED"

	// LifecycleTopic is the in-process topic lifecycle events are published on.
	LifecycleTopic = "conversation.lifecycle"
)

// LifecycleEvent records an applied deletion state transition.
// No-op transitions never produce one.
type LifecycleEvent struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	UserID         uuid.UUID  `json:"user_id"`
	DeletedAt      *time.Time `json:"deleted_at"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

func NewLifecycleEvent(eventType string, conversationID, userID uuid.UUID, deletedAt *time.Time, at time.Time) LifecycleEvent {
	return LifecycleEvent{
		ID:             uuid.New(),
		Type:           eventType,
		ConversationID: conversationID,
		UserID:         userID,
		DeletedAt:      deletedAt,
		OccurredAt:     at,
	}
}

func (e LifecycleEvent) EventID() string {
	return e.ID.String()
}

func (e LifecycleEvent) EventType() string {
	return e.Type
}

func (e LifecycleEvent) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"event_id":        e.ID.String(),
		"conversation_id": e.ConversationID.String(),
		"user_id":         e.UserID.String(),
		"entity_type":     "conversation",
		"entity_id":       e.ConversationID.String(),
		"occurred_at":     e.OccurredAt,
	}
	if e.DeletedAt != nil {
		payload["deleted_at"] = *e.DeletedAt
	} else {
		payload["deleted_at"] = nil
	}
	return payload
}

func (e LifecycleEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func (e LifecycleEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalLifecycleEvent(data []byte) (LifecycleEvent, error) {
	var e LifecycleEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
