package kafka

import (
	"context"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ModelEventPublisher announces model changes on the event topic.  Events
// are keyed by model name so every replica sees them in order.
type ModelEventPublisher struct {
	producer Publisher
	topic    string
	source   string
}

// NewModelEventPublisher creates a publisher writing to topic.  source names
// the emitting process in the envelope.
func NewModelEventPublisher(p Publisher, topic, source string) *ModelEventPublisher {
	return &ModelEventPublisher{producer: p, topic: topic, source: source}
}

// PublishModelEvent implements sascore.EventPublisher.
func (p *ModelEventPublisher) PublishModelEvent(ctx context.Context, event *app.ModelEvent) error {
	if event == nil {
		return errors.InvalidParam("model event is required")
	}
	env, err := NewEventEnvelope(event.Type, p.source, event)
	if err != nil {
		return err
	}
	env.Metadata = map[string]string{"model": event.Model.Name, "version": event.Model.ID}
	msg, err := env.ToMessage(p.topic)
	if err != nil {
		return err
	}
	msg.Key = []byte(event.Model.Name)
	return p.producer.Publish(ctx, msg)
}

// DecodeModelEvent extracts a model event from a consumed message.
func DecodeModelEvent(msg *Message) (*app.ModelEvent, error) {
	env, err := MessageToEventEnvelope(msg)
	if err != nil {
		return nil, err
	}
	var event app.ModelEvent
	if err := env.DecodePayload(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

//Personal.AI order the ending
