package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type planRepo struct {
	q DBTX
}

const planColumns = `id, player_id, coach_id, name, start_date, end_date, status, weekly_hours_target,
	mode, periods, phase_weeks, rest_weekday, review_note, generated_at, last_modified_at, created_at, updated_at`

func (r *planRepo) Create(ctx context.Context, p *domain.AnnualPlan) (primitive.ObjectID, error) {
	newID(&p.ID)
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.LastModifiedAt.IsZero() {
		p.LastModifiedAt = now
	}

	args, err := planArgs(p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	_, err = r.q.ExecContext(ctx, `INSERT INTO annual_plans (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return primitive.NilObjectID, translate(err, "inserting annual plan")
	}
	return p.ID, nil
}

func (r *planRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+planColumns+` FROM annual_plans WHERE id = ?`, id.Hex())
	p, err := scanPlan(row)
	if err != nil {
		return nil, translate(err, "annual plan")
	}
	return p, nil
}

func (r *planRepo) GetActiveByPlayer(ctx context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+planColumns+` FROM annual_plans
		WHERE player_id = ? AND status = ?`, playerID.Hex(), string(domain.PlanActive))
	p, err := scanPlan(row)
	if err != nil {
		return nil, translate(err, "active annual plan")
	}
	return p, nil
}

func (r *planRepo) ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	return r.list(ctx, `SELECT `+planColumns+` FROM annual_plans WHERE player_id = ? ORDER BY start_date DESC, created_at DESC`,
		playerID.Hex())
}

func (r *planRepo) ListByStatus(ctx context.Context, status domain.PlanStatus) ([]domain.AnnualPlan, error) {
	return r.list(ctx, `SELECT `+planColumns+` FROM annual_plans WHERE status = ? ORDER BY created_at`, string(status))
}

func (r *planRepo) list(ctx context.Context, query string, args ...any) ([]domain.AnnualPlan, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing annual plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.AnnualPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning annual plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *planRepo) Update(ctx context.Context, p *domain.AnnualPlan) error {
	p.UpdatedAt = time.Now().UTC()
	args, err := planArgs(p)
	if err != nil {
		return err
	}
	// created_at is never rewritten; id binds the WHERE clause
	vals := append([]any{}, args[1:15]...)
	vals = append(vals, args[16], args[0])
	res, err := r.q.ExecContext(ctx, `UPDATE annual_plans SET
		player_id = ?, coach_id = ?, name = ?, start_date = ?, end_date = ?, status = ?,
		weekly_hours_target = ?, mode = ?, periods = ?, phase_weeks = ?, rest_weekday = ?,
		review_note = ?, generated_at = ?, last_modified_at = ?, updated_at = ?
		WHERE id = ?`, vals...)
	if err != nil {
		return translate(err, "updating annual plan")
	}
	return mustAffect(res, "updating annual plan")
}

func (r *planRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM annual_plans WHERE id = ?`, id.Hex())
	if err != nil {
		return translate(err, "deleting annual plan")
	}
	return mustAffect(res, "deleting annual plan")
}

// planArgs returns column values in planColumns order.
func planArgs(p *domain.AnnualPlan) ([]any, error) {
	periods := p.Periods
	if periods == nil {
		periods = []domain.Period{}
	}
	periodsJSON, err := toJSON(periods)
	if err != nil {
		return nil, err
	}
	var phaseWeeks any
	if p.PhaseWeeks != nil {
		s, err := toJSON(p.PhaseWeeks)
		if err != nil {
			return nil, err
		}
		phaseWeeks = s
	}
	return []any{
		p.ID.Hex(), p.PlayerID.Hex(), nullableID(p.CoachID), p.Name,
		formatDate(p.StartDate), formatDate(p.EndDate), string(p.Status), p.WeeklyHoursTarget,
		string(p.Mode), periodsJSON, phaseWeeks, int(p.RestWeekday), p.ReviewNote,
		nullableTime(p.GeneratedAt), formatTime(p.LastModifiedAt), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	}, nil
}

func scanPlan(row scanner) (*domain.AnnualPlan, error) {
	var (
		p                                    domain.AnnualPlan
		id, playerID, start, end, status     string
		mode, periods, lastMod, created, upd string
		coachID, phaseWeeks, generatedAt     sql.NullString
		restWeekday                          int
	)
	err := row.Scan(&id, &playerID, &coachID, &p.Name, &start, &end, &status, &p.WeeklyHoursTarget,
		&mode, &periods, &phaseWeeks, &restWeekday, &p.ReviewNote, &generatedAt, &lastMod, &created, &upd)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PlanStatus(status)
	p.Mode = domain.GenerationMode(mode)
	p.RestWeekday = time.Weekday(restWeekday)
	if p.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if p.PlayerID, err = parseID(playerID); err != nil {
		return nil, err
	}
	if p.CoachID, err = parseNullableID(coachID); err != nil {
		return nil, err
	}
	if p.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	if err = fromJSON(periods, &p.Periods); err != nil {
		return nil, err
	}
	if len(p.Periods) == 0 {
		p.Periods = nil
	}
	if phaseWeeks.Valid {
		p.PhaseWeeks = &domain.PhaseWeeks{}
		if err = fromJSON(phaseWeeks.String, p.PhaseWeeks); err != nil {
			return nil, err
		}
	}
	if p.GeneratedAt, err = parseNullableTime(generatedAt); err != nil {
		return nil, err
	}
	if p.LastModifiedAt, err = parseTime(lastMod); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(upd); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ repository.PlanRepository = (*planRepo)(nil)
