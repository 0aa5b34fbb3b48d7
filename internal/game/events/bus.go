package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// EventBus delivers search events synchronously: subscribers first, then the
// handlers registered for the event's type, each in registration order.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	handlers    map[string][]EventHandler
	logger      zerolog.Logger
}

// NewEventBus creates an empty bus.
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		logger:   logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber. It only sees the event types it is interested in.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", subscriber.ID()).Msg("Subscriber added")
}

// Handle registers fn for one event type.
func (eb *EventBus) Handle(eventType string, fn EventHandler) {
	eb.mu.Lock()
	eb.handlers[eventType] = append(eb.handlers[eventType], fn)
	eb.mu.Unlock()

	eb.logger.Debug().Str("event_type", eventType).Msg("Handler added")
}

// Publish implements Publisher. A panicking receiver is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	subscribers := eb.subscribers
	handlers := eb.handlers[eventType]
	eb.mu.RUnlock()

	for _, s := range subscribers {
		if s.InterestedIn(eventType) {
			eb.deliver(s.ID(), event, s.HandleEvent)
		}
	}
	for _, fn := range handlers {
		eb.deliver("handler", event, fn)
	}
}

func (eb *EventBus) deliver(receiver string, event Event, fn EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("receiver", receiver).
				Str("event_type", event.Type()).
				Str("run_id", event.RunID()).
				Interface("panic", r).
				Msg("Event receiver panicked")
		}
	}()
	fn(event)
}
