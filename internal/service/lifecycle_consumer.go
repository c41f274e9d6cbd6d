package service

import (
	"context"
	"time"

	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const dedupeWindow = 10 * time.Minute

// LifecycleDelivery pushes lifecycle events to a user's connected devices.
// Implemented by the websocket hub.
type LifecycleDelivery interface {
	Send(userID uuid.UUID, evt events.LifecycleEvent)
}

// EventPublisher forwards events to the external bus. A failed forward is
// logged and does not hold back websocket delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ILifecycleConsumer interface {
	Consume(ctx context.Context) error
}

type lifecycleConsumer struct {
	subscriber message.Subscriber
	delivery   LifecycleDelivery
	external   EventPublisher
	seen       *cache.Cache
	logger     logger.ILogger
}

func NewLifecycleConsumer(
	subscriber message.Subscriber,
	delivery LifecycleDelivery,
	external EventPublisher,
	log logger.ILogger,
) ILifecycleConsumer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &lifecycleConsumer{
		subscriber: subscriber,
		delivery:   delivery,
		external:   external,
		seen:       cache.New(dedupeWindow, 2*dedupeWindow),
		logger:     log,
	}
}

func (lc *lifecycleConsumer) Consume(ctx context.Context) error {
	messages, err := lc.subscriber.Subscribe(ctx, events.LifecycleTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			lc.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (lc *lifecycleConsumer) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.UnmarshalLifecycleEvent(msg.Payload)
	if err != nil {
		lc.logger.Error("CONSUMER", "Failed to unmarshal lifecycle event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	key := evt.ID.String()
	if _, found := lc.seen.Get(key); found {
		lc.logger.Debug("CONSUMER", "Duplicate lifecycle event dropped", map[string]interface{}{"event_id": key})
		msg.Ack()
		return
	}

	if lc.external != nil {
		if err := lc.external.Publish(ctx, evt); err != nil {
			lc.logger.Error("CONSUMER", "Failed to forward lifecycle event", map[string]interface{}{
				"event_id": key,
				"type":     evt.Type,
				"error":    err.Error(),
			})
		}
	}

	if lc.delivery != nil {
		lc.delivery.Send(evt.UserID, evt)
	}

	lc.seen.SetDefault(key, struct{}{})
	msg.Ack()

	lc.logger.Info("CONSUMER", "Lifecycle event dispatched", map[string]interface{}{
		"event_id":        key,
		"type":            evt.Type,
		"conversation_id": evt.ConversationID.String(),
	})
}
