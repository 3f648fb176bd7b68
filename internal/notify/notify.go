// Package notify delivers plan events to whoever listens. Delivery is fire
// and forget: callers log a failed Notify and carry on.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types.
const (
	EventReviewStateChanged = "plan.review_state_changed"
	EventWeeklyDigest       = "plan.weekly_digest"
)

// Event is a single notification.
type Event struct {
	Type       string
	PlanID     primitive.ObjectID
	PlayerID   primitive.ObjectID
	Payload    map[string]any
	OccurredAt time.Time
}

// Sink receives events.
type Sink interface {
	Notify(ctx context.Context, e Event) error
}

// LogSink writes every event to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, e Event) error {
	attrs := []any{
		slog.String("event", e.Type),
		slog.String("plan_id", e.PlanID.Hex()),
		slog.String("player_id", e.PlayerID.Hex()),
	}
	for k, v := range e.Payload {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

// FanOut delivers to every sink and joins their errors.
type FanOut []Sink

func (f FanOut) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(context.Context, Event) error { return nil }
