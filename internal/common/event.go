package common

import (
	"context"
	"encoding/json"

	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/xcontext"
)

type EventPublisher struct {
	publisher pubsub.Publisher
}

func NewEventPublisher(publisher pubsub.Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher}
}

// Publish sends the event to topic. It must be called after the mutation is
// committed. Failures are logged and never returned to the caller.
func (p *EventPublisher) Publish(ctx context.Context, topic, key string, ev event.Event) {
	if p == nil || p.publisher == nil {
		return
	}

	b, err := json.Marshal(event.New(ev))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", ev.Op(), err)
		return
	}

	if err := p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event %s to %s: %v", ev.Op(), topic, err)
		PromCounters[EventPublishFailureTotal].WithLabelValues(topic).Inc()
	}
}
