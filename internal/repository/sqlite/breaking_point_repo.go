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

type breakingPointRepo struct {
	q DBTX
}

func (r *breakingPointRepo) Create(ctx context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error) {
	newID(&bp.ID)
	now := time.Now().UTC()
	bp.CreatedAt, bp.UpdatedAt = now, now
	_, err := r.q.ExecContext(ctx, `INSERT INTO breaking_points
		(id, player_id, title, description, progress_percent, status, resolved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bp.ID.Hex(), bp.PlayerID.Hex(), bp.Title, bp.Description, bp.ProgressPercent, string(bp.Status),
		nullableTime(bp.ResolvedAt), formatTime(bp.CreatedAt), formatTime(bp.UpdatedAt))
	if err != nil {
		return primitive.NilObjectID, translate(err, "inserting breaking point")
	}
	return bp.ID, nil
}

func (r *breakingPointRepo) ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.BreakingPoint, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, player_id, title, description, progress_percent, status,
		resolved_at, created_at, updated_at
		FROM breaking_points WHERE player_id = ? ORDER BY created_at, id`, playerID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing breaking points: %w", err)
	}
	defer rows.Close()

	out := []domain.BreakingPoint{}
	for rows.Next() {
		var (
			bp                               domain.BreakingPoint
			id, player, status, created, upd string
			resolvedAt                       sql.NullString
		)
		if err := rows.Scan(&id, &player, &bp.Title, &bp.Description, &bp.ProgressPercent, &status,
			&resolvedAt, &created, &upd); err != nil {
			return nil, fmt.Errorf("scanning breaking point: %w", err)
		}
		bp.Status = domain.BreakingPointStatus(status)
		if bp.ID, err = parseID(id); err != nil {
			return nil, err
		}
		if bp.PlayerID, err = parseID(player); err != nil {
			return nil, err
		}
		if bp.ResolvedAt, err = parseNullableTime(resolvedAt); err != nil {
			return nil, err
		}
		if bp.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if bp.UpdatedAt, err = parseTime(upd); err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

func (r *breakingPointRepo) CountByPlayer(ctx context.Context, playerID primitive.ObjectID) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM breaking_points WHERE player_id = ?`, playerID.Hex()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting breaking points: %w", err)
	}
	return n, nil
}

func (r *breakingPointRepo) Update(ctx context.Context, bp *domain.BreakingPoint) error {
	bp.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `UPDATE breaking_points SET
		title = ?, description = ?, progress_percent = ?, status = ?, resolved_at = ?, updated_at = ?
		WHERE id = ?`,
		bp.Title, bp.Description, bp.ProgressPercent, string(bp.Status), nullableTime(bp.ResolvedAt),
		formatTime(bp.UpdatedAt), bp.ID.Hex())
	if err != nil {
		return translate(err, "updating breaking point")
	}
	return mustAffect(res, "updating breaking point")
}

var _ repository.BreakingPointRepository = (*breakingPointRepo)(nil)
