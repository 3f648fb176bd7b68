package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type periodizationRepo struct {
	q DBTX
}

const weekColumns = `id, plan_id, player_id, week_number, start_date, period, period_phase, week_in_period,
	planned_hours, volume_intensity, priorities, learning_phase_min, learning_phase_max,
	club_speed_min, club_speed_max, created_at, updated_at`

func (r *periodizationRepo) CreateIfAbsent(ctx context.Context, w *domain.WeekPeriodization) (bool, error) {
	newID(&w.ID)
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now

	priorities, err := toJSON(w.Priorities)
	if err != nil {
		return false, err
	}
	res, err := r.q.ExecContext(ctx, `INSERT INTO week_periodizations (`+weekColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id, player_id, week_number) DO NOTHING`,
		w.ID.Hex(), w.PlanID.Hex(), w.PlayerID.Hex(), w.WeekNumber, formatDate(w.StartDate),
		string(w.Period), string(w.PeriodPhase), w.WeekInPeriod, w.PlannedHours, string(w.VolumeIntensity),
		priorities, w.LearningPhaseMin, w.LearningPhaseMax, w.ClubSpeedMin, w.ClubSpeedMax,
		formatTime(w.CreatedAt), formatTime(w.UpdatedAt))
	if err != nil {
		return false, translate(err, "inserting week periodization")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting week periodization: %w", err)
	}
	return n == 1, nil
}

func (r *periodizationRepo) GetByWeek(ctx context.Context, planID primitive.ObjectID, week int) (*domain.WeekPeriodization, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM week_periodizations
		WHERE plan_id = ? AND week_number = ?`, planID.Hex(), week)
	w, err := scanWeek(row)
	if err != nil {
		return nil, translate(err, "week periodization")
	}
	return w, nil
}

func (r *periodizationRepo) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.WeekPeriodization, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+weekColumns+` FROM week_periodizations
		WHERE plan_id = ? ORDER BY week_number`, planID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing week periodizations: %w", err)
	}
	defer rows.Close()

	weeks := []domain.WeekPeriodization{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning week periodization: %w", err)
		}
		weeks = append(weeks, *w)
	}
	return weeks, rows.Err()
}

func (r *periodizationRepo) Update(ctx context.Context, w *domain.WeekPeriodization) error {
	w.UpdatedAt = time.Now().UTC()
	priorities, err := toJSON(w.Priorities)
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `UPDATE week_periodizations SET
		start_date = ?, period = ?, period_phase = ?, week_in_period = ?, planned_hours = ?,
		volume_intensity = ?, priorities = ?, learning_phase_min = ?, learning_phase_max = ?,
		club_speed_min = ?, club_speed_max = ?, updated_at = ?
		WHERE id = ?`,
		formatDate(w.StartDate), string(w.Period), string(w.PeriodPhase), w.WeekInPeriod, w.PlannedHours,
		string(w.VolumeIntensity), priorities, w.LearningPhaseMin, w.LearningPhaseMax,
		w.ClubSpeedMin, w.ClubSpeedMax, formatTime(w.UpdatedAt), w.ID.Hex())
	if err != nil {
		return translate(err, "updating week periodization")
	}
	return mustAffect(res, "updating week periodization")
}

func (r *periodizationRepo) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM week_periodizations WHERE plan_id = ?`, planID.Hex()); err != nil {
		return fmt.Errorf("deleting week periodizations: %w", err)
	}
	return nil
}

func scanWeek(row scanner) (*domain.WeekPeriodization, error) {
	var (
		w                                 domain.WeekPeriodization
		id, planID, playerID, start       string
		period, phase, volume, priorities string
		created, updated                  string
	)
	err := row.Scan(&id, &planID, &playerID, &w.WeekNumber, &start, &period, &phase, &w.WeekInPeriod,
		&w.PlannedHours, &volume, &priorities, &w.LearningPhaseMin, &w.LearningPhaseMax,
		&w.ClubSpeedMin, &w.ClubSpeedMax, &created, &updated)
	if err != nil {
		return nil, err
	}

	w.Period = domain.PeriodCode(period)
	w.PeriodPhase = domain.PeriodPhase(phase)
	w.VolumeIntensity = domain.VolumeIntensity(volume)
	if w.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if w.PlanID, err = parseID(planID); err != nil {
		return nil, err
	}
	if w.PlayerID, err = parseID(playerID); err != nil {
		return nil, err
	}
	if w.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if err = fromJSON(priorities, &w.Priorities); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &w, nil
}

var _ repository.PeriodizationRepository = (*periodizationRepo)(nil)
