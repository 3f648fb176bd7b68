package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type changeLogRepo struct {
	q DBTX
}

func (r *changeLogRepo) Append(ctx context.Context, e *domain.ChangeLogEntry) error {
	newID(&e.ID)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	payload, err := toJSON(e.Payload)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `INSERT INTO plan_change_log (id, plan_id, actor_id, actor_role, change_type, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.Hex(), e.PlanID.Hex(), e.Actor.ID.Hex(), string(e.Actor.Role), string(e.ChangeType), payload, formatTime(e.CreatedAt))
	if err != nil {
		return translate(err, "appending change log entry")
	}
	return nil
}

func (r *changeLogRepo) ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ChangeLogEntry, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, plan_id, actor_id, actor_role, change_type, payload, created_at
		FROM plan_change_log WHERE plan_id = ? ORDER BY seq`, planID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing change log: %w", err)
	}
	defer rows.Close()

	entries := []domain.ChangeLogEntry{}
	for rows.Next() {
		var (
			e                                domain.ChangeLogEntry
			id, plan, actorID, role, typ, pl string
			created                          string
		)
		if err := rows.Scan(&id, &plan, &actorID, &role, &typ, &pl, &created); err != nil {
			return nil, fmt.Errorf("scanning change log entry: %w", err)
		}
		e.Actor.Role = domain.Role(role)
		e.ChangeType = domain.ChangeType(typ)
		if e.ID, err = parseID(id); err != nil {
			return nil, err
		}
		if e.PlanID, err = parseID(plan); err != nil {
			return nil, err
		}
		if e.Actor.ID, err = parseID(actorID); err != nil {
			return nil, err
		}
		if err = fromJSON(pl, &e.Payload); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *changeLogRepo) DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM plan_change_log WHERE plan_id = ?`, planID.Hex()); err != nil {
		return fmt.Errorf("deleting change log: %w", err)
	}
	return nil
}

var _ repository.ChangeLogRepository = (*changeLogRepo)(nil)
