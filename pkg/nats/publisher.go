package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "CONVERSATION_EVENTS"
	SubjectPrefix = "events"

	// duplicateWindow bounds how long JetStream remembers message ids.
	duplicateWindow = 10 * time.Minute
	streamMaxAge    = 7 * 24 * time.Hour
)

// Publisher forwards lifecycle events to JetStream.
type Publisher struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	log logger.ILogger
}

func NewPublisher(url string, log logger.ILogger) (*Publisher, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	nc, err := nats.Connect(url,
		nats.Name("ai-companion-backend"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS", "Disconnected", map[string]interface{}{"error": err.Error()})
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, StreamConfig()); err != nil {
		// The stream may be managed out of band; publishing still works if it exists.
		log.Warn("NATS", "Failed to ensure stream", map[string]interface{}{
			"stream": StreamName,
			"error":  err.Error(),
		})
	}

	return &Publisher{nc: nc, js: js, log: log}, nil
}

// StreamConfig keeps events for a week; consumers replay from their own cursor.
func StreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{SubjectPrefix + ".CONVERSATION_>"},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     streamMaxAge,
		Duplicates: duplicateWindow,
	}
}

// Subject is the JetStream subject an event is published on.
func Subject(event events.Event) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, event.EventType())
}

func publishOptions(event events.Event) []jetstream.PublishOpt {
	if identified, ok := event.(events.Identified); ok && identified.EventID() != "" {
		return []jetstream.PublishOpt{jetstream.WithMsgID(identified.EventID())}
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := Subject(event)
	ack, err := p.js.Publish(ctx, subject, data, publishOptions(event)...)
	if err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	if ack.Duplicate {
		p.log.Debug("NATS", "Duplicate event dropped by stream", map[string]interface{}{"subject": subject})
	}

	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
