package events

import "time"

// Event is anything that can leave the process on the external bus.
type Event interface {
	// EventType is the subject suffix, e.g. "CONVERSATION_DELETED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Identified events carry a stable id that downstream consumers and the
// broker use to drop redeliveries.
type Identified interface {
	Event
	EventID() string
}
