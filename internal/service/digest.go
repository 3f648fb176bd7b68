package service

import (
	"context"
	"fmt"
	"log/slog"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/notify"
	"alcyxob/annual-plan/internal/repository"
)

// DigestJob publishes last week's progress of every active plan. It only
// reads calendar data.
type DigestJob struct {
	store  repository.Store
	sink   notify.Sink
	now    Clock
	logger *slog.Logger
}

func NewDigestJob(store repository.Store, sink notify.Sink, now Clock, logger *slog.Logger) *DigestJob {
	return &DigestJob{store: store, sink: sink, now: now, logger: logger}
}

// Run sends one digest per active plan that covered the previous seven days
// and reports how many were sent. Failed deliveries are logged and skipped.
func (j *DigestJob) Run(ctx context.Context) (int, error) {
	plans, err := j.store.Plans().ListByStatus(ctx, domain.PlanActive)
	if err != nil {
		return 0, fmt.Errorf("listing active plans: %w", err)
	}

	to := domain.DateOnly(j.now()).AddDate(0, 0, -1)
	from := to.AddDate(0, 0, -6)

	sent := 0
	for i := range plans {
		plan := &plans[i]
		if to.Before(domain.DateOnly(plan.StartDate)) || from.After(domain.DateOnly(plan.EndDate)) {
			continue
		}
		lo, hi := from, to
		if lo.Before(plan.StartDate) {
			lo = domain.DateOnly(plan.StartDate)
		}
		if hi.After(plan.EndDate) {
			hi = domain.DateOnly(plan.EndDate)
		}

		summary, err := summarize(ctx, j.store, plan, lo, hi)
		if err != nil {
			j.logger.WarnContext(ctx, "digest summary failed", slog.String("plan_id", plan.ID.Hex()), slog.Any("error", err))
			continue
		}
		event := notify.Event{
			Type:     notify.EventWeeklyDigest,
			PlanID:   plan.ID,
			PlayerID: plan.PlayerID,
			Payload: map[string]any{
				"from":           lo.Format(domain.DateLayout),
				"to":             hi.Format(domain.DateLayout),
				"completed":      summary.Completed,
				"total":          summary.Total,
				"completionRate": fmt.Sprintf("%.0f%%", summary.CompletionRate),
				"actualMinutes":  summary.ActualMinutes,
			},
			OccurredAt: j.now(),
		}
		if err := j.sink.Notify(ctx, event); err != nil {
			j.logger.WarnContext(ctx, "digest delivery failed", slog.String("plan_id", plan.ID.Hex()), slog.Any("error", err))
			continue
		}
		sent++
	}
	j.logger.InfoContext(ctx, "weekly digest finished", slog.Int("plans", len(plans)), slog.Int("sent", sent))
	return sent, nil
}
