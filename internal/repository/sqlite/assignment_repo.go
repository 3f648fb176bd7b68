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

type assignmentRepo struct {
	q DBTX
}

const assignmentColumns = `id, plan_id, player_id, assigned_date, week_number, day_of_week, session_type,
	template_id, estimated_duration, period, learning_phase, intensity, is_rest_day, can_be_substituted,
	status, notes, created_at, updated_at`

const insertAssignment = `INSERT INTO daily_assignments (` + assignmentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *assignmentRepo) CreateIfAbsent(ctx context.Context, a *domain.DailyAssignment) (bool, error) {
	stampAssignment(a)
	res, err := r.q.ExecContext(ctx, insertAssignment+`
		ON CONFLICT(plan_id, assigned_date, session_type) DO NOTHING`, assignmentArgs(a)...)
	if err != nil {
		return false, translate(err, "inserting daily assignment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting daily assignment: %w", err)
	}
	return n == 1, nil
}

func (r *assignmentRepo) Create(ctx context.Context, a *domain.DailyAssignment) (primitive.ObjectID, error) {
	stampAssignment(a)
	if _, err := r.q.ExecContext(ctx, insertAssignment, assignmentArgs(a)...); err != nil {
		return primitive.NilObjectID, translate(err, "inserting daily assignment")
	}
	return a.ID, nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM daily_assignments WHERE id = ?`, id.Hex())
	a, err := scanAssignment(row)
	if err != nil {
		return nil, translate(err, "daily assignment")
	}
	return a, nil
}

func (r *assignmentRepo) ListByDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.DailyAssignment, error) {
	return r.list(ctx, `WHERE plan_id = ? AND assigned_date = ?`, planID.Hex(), formatDate(date))
}

func (r *assignmentRepo) ListByRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	return r.list(ctx, `WHERE plan_id = ? AND assigned_date BETWEEN ? AND ?`, planID.Hex(), formatDate(from), formatDate(to))
}

func (r *assignmentRepo) ListByWeek(ctx context.Context, planID primitive.ObjectID, week int) ([]domain.DailyAssignment, error) {
	return r.list(ctx, `WHERE plan_id = ? AND week_number = ?`, planID.Hex(), week)
}

func (r *assignmentRepo) list(ctx context.Context, where string, args ...any) ([]domain.DailyAssignment, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+assignmentColumns+` FROM daily_assignments `+where+`
		ORDER BY assigned_date, session_type`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing daily assignments: %w", err)
	}
	defer rows.Close()

	out := []domain.DailyAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning daily assignment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *assignmentRepo) Update(ctx context.Context, a *domain.DailyAssignment) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `UPDATE daily_assignments SET
		assigned_date = ?, week_number = ?, day_of_week = ?, session_type = ?, template_id = ?,
		estimated_duration = ?, period = ?, learning_phase = ?, intensity = ?, is_rest_day = ?,
		can_be_substituted = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		formatDate(a.AssignedDate), a.WeekNumber, int(a.DayOfWeek), string(a.SessionType), nullableID(a.TemplateID),
		a.EstimatedDuration, string(a.Period), a.LearningPhase, string(a.Intensity), boolToInt(a.IsRestDay),
		boolToInt(a.CanBeSubstituted), string(a.Status), a.Notes, formatTime(a.UpdatedAt), a.ID.Hex())
	if err != nil {
		return translate(err, "updating daily assignment")
	}
	return mustAffect(res, "updating daily assignment")
}

func (r *assignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM daily_assignments WHERE id = ?`, id.Hex())
	if err != nil {
		return translate(err, "deleting daily assignment")
	}
	return mustAffect(res, "deleting daily assignment")
}

func (r *assignmentRepo) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM daily_assignments WHERE plan_id = ?`, planID.Hex()); err != nil {
		return fmt.Errorf("deleting daily assignments: %w", err)
	}
	return nil
}

func stampAssignment(a *domain.DailyAssignment) {
	newID(&a.ID)
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
}

func assignmentArgs(a *domain.DailyAssignment) []any {
	return []any{
		a.ID.Hex(), a.PlanID.Hex(), a.PlayerID.Hex(), formatDate(a.AssignedDate), a.WeekNumber,
		int(a.DayOfWeek), string(a.SessionType), nullableID(a.TemplateID), a.EstimatedDuration,
		string(a.Period), a.LearningPhase, string(a.Intensity), boolToInt(a.IsRestDay),
		boolToInt(a.CanBeSubstituted), string(a.Status), a.Notes, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	}
}

func scanAssignment(row scanner) (*domain.DailyAssignment, error) {
	var (
		a                                      domain.DailyAssignment
		id, planID, playerID, date             string
		sessionType, period, intensity, status string
		created, updated                       string
		templateID                             sql.NullString
		dayOfWeek, isRest, canSub              int
	)
	err := row.Scan(&id, &planID, &playerID, &date, &a.WeekNumber, &dayOfWeek, &sessionType,
		&templateID, &a.EstimatedDuration, &period, &a.LearningPhase, &intensity, &isRest, &canSub,
		&status, &a.Notes, &created, &updated)
	if err != nil {
		return nil, err
	}

	a.DayOfWeek = time.Weekday(dayOfWeek)
	a.SessionType = domain.SessionType(sessionType)
	a.Period = domain.PeriodCode(period)
	a.Intensity = domain.Intensity(intensity)
	a.Status = domain.AssignmentStatus(status)
	a.IsRestDay = isRest != 0
	a.CanBeSubstituted = canSub != 0
	if a.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if a.PlanID, err = parseID(planID); err != nil {
		return nil, err
	}
	if a.PlayerID, err = parseID(playerID); err != nil {
		return nil, err
	}
	if a.AssignedDate, err = parseDate(date); err != nil {
		return nil, err
	}
	if a.TemplateID, err = parseNullableID(templateID); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ repository.AssignmentRepository = (*assignmentRepo)(nil)
