package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type tournamentRepo struct {
	q DBTX
}

const tournamentColumns = `id, plan_id, player_id, name, start_date, end_date, week_number, importance,
	topping_start_week, topping_duration_weeks, tapering_start_date, tapering_duration_days, created_at, updated_at`

func (r *tournamentRepo) Create(ctx context.Context, t *domain.ScheduledTournament) (primitive.ObjectID, error) {
	newID(&t.ID)
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.q.ExecContext(ctx, `INSERT INTO scheduled_tournaments (`+tournamentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.Hex(), t.PlanID.Hex(), t.PlayerID.Hex(), t.Name, formatDate(t.StartDate), formatDate(t.EndDate),
		t.WeekNumber, string(t.Importance), t.ToppingStartWeek, t.ToppingDurationWeeks,
		formatDate(t.TaperingStartDate), t.TaperingDurationDays, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return primitive.NilObjectID, translate(err, "inserting scheduled tournament")
	}
	return t.ID, nil
}

func (r *tournamentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledTournament, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+tournamentColumns+` FROM scheduled_tournaments WHERE id = ?`, id.Hex())
	t, err := scanTournament(row)
	if err != nil {
		return nil, translate(err, "scheduled tournament")
	}
	return t, nil
}

func (r *tournamentRepo) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+tournamentColumns+` FROM scheduled_tournaments
		WHERE plan_id = ? ORDER BY start_date`, planID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing scheduled tournaments: %w", err)
	}
	defer rows.Close()

	out := []domain.ScheduledTournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled tournament: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *tournamentRepo) Update(ctx context.Context, t *domain.ScheduledTournament) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `UPDATE scheduled_tournaments SET
		name = ?, start_date = ?, end_date = ?, week_number = ?, importance = ?, topping_start_week = ?,
		topping_duration_weeks = ?, tapering_start_date = ?, tapering_duration_days = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, formatDate(t.StartDate), formatDate(t.EndDate), t.WeekNumber, string(t.Importance), t.ToppingStartWeek,
		t.ToppingDurationWeeks, formatDate(t.TaperingStartDate), t.TaperingDurationDays, formatTime(t.UpdatedAt), t.ID.Hex())
	if err != nil {
		return translate(err, "updating scheduled tournament")
	}
	return mustAffect(res, "updating scheduled tournament")
}

func (r *tournamentRepo) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM scheduled_tournaments WHERE plan_id = ?`, planID.Hex()); err != nil {
		return fmt.Errorf("deleting scheduled tournaments: %w", err)
	}
	return nil
}

func scanTournament(row scanner) (*domain.ScheduledTournament, error) {
	var (
		t                                domain.ScheduledTournament
		id, planID, playerID, importance string
		start, end, taperStart           string
		created, updated                 string
	)
	err := row.Scan(&id, &planID, &playerID, &t.Name, &start, &end, &t.WeekNumber, &importance,
		&t.ToppingStartWeek, &t.ToppingDurationWeeks, &taperStart, &t.TaperingDurationDays, &created, &updated)
	if err != nil {
		return nil, err
	}

	t.Importance = domain.Importance(importance)
	if t.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if t.PlanID, err = parseID(planID); err != nil {
		return nil, err
	}
	if t.PlayerID, err = parseID(playerID); err != nil {
		return nil, err
	}
	if t.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	if t.TaperingStartDate, err = parseDate(taperStart); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}

var _ repository.TournamentRepository = (*tournamentRepo)(nil)
