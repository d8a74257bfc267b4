package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"delivery-system/internal/order"
)

const AllEventsChannel = keyPrefix + "events:all"

func EventChannel(t order.EventType) string {
	return keyPrefix + "events:" + string(t)
}

// EventPublisher sends order events over redis pub/sub, once on the
// per-type channel and once on the catch-all channel.
type EventPublisher struct {
	rdb Client
}

var _ order.Publisher = (*EventPublisher)(nil)

func NewEventPublisher(rdb Client) *EventPublisher {
	return &EventPublisher{rdb: rdb}
}

func (p *EventPublisher) Publish(ctx context.Context, e order.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	for _, ch := range []string{EventChannel(e.Type), AllEventsChannel} {
		if err := p.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			return fmt.Errorf("failed to publish %s on %s: %w", e.Type, ch, err)
		}
	}
	return nil
}
