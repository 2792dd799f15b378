package realtime

import (
	"encoding/json"
	"log/slog"
)

// eventFrame is the wire envelope for every server-pushed event.
type eventFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventBroadcaster marshals domain events and fans them out through the
// registry. It satisfies the chat service's Broadcaster port. All failures
// are logged and swallowed: by the time an event is broadcast the operation
// is already durable, and recipients recover authoritative state on fetch.
type EventBroadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

func NewEventBroadcaster(registry *Registry, logger *slog.Logger) *EventBroadcaster {
	return &EventBroadcaster{registry: registry, logger: logger}
}

func (b *EventBroadcaster) Broadcast(listingID, eventType string, payload any, excludeUserID string) {
	raw, err := json.Marshal(eventFrame{Type: eventType, Data: payload})
	if err != nil {
		b.logger.Warn("broadcast encode failed", "event", eventType, "listing", listingID, "err", err)
		return
	}
	delivered := b.registry.Broadcast(listingID, raw, excludeUserID)
	b.logger.Debug("event broadcast", "event", eventType, "listing", listingID, "delivered", delivered)
}
