package subscribers

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging of the full event payload
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("run_id", event.RunID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.SearchStartedEvent:
		logEvent.
			Int("players", e.Players).
			Str("layout", e.Layout).
			Str("version", e.Version).
			Str("aggression", e.Aggression).
			Int("iterations", e.Iterations).
			Int("max_attempts", e.MaxAttempts).
			Int("workers", e.Workers)

	case *events.AttemptStartedEvent:
		logEvent.
			Int("attempt", e.Attempt).
			Float64("tolerance", e.Tolerance)
		if ls.devMode {
			logEvent.Str("pool", strings.Join(e.Pool, ","))
		}

	case *events.AttemptCompletedEvent:
		logEvent.
			Int("attempt", e.Attempt).
			Float64("tolerance", e.Tolerance).
			Int64("iterations", e.Iterations).
			Int64("valid", e.Valid).
			Float64("best_imbalance", e.BestImbalance).
			Bool("converged", e.Converged).
			Dur("duration", e.Duration)

	case *events.SearchCompletedEvent:
		logEvent.
			Int("attempts", e.Attempts).
			Int64("iterations", e.Iterations).
			Float64("imbalance", e.Imbalance).
			Bool("converged", e.Converged).
			Dur("duration", e.Duration)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Search event")
}
