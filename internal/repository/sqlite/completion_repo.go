package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type completionRepo struct {
	q DBTX
}

func (r *completionRepo) CreateIfAbsent(ctx context.Context, c *domain.SessionCompletion) (bool, error) {
	newID(&c.ID)
	c.CreatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `INSERT INTO session_completions
		(id, event_id, player_id, assignment_id, duration_minutes, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO NOTHING`,
		c.ID.Hex(), c.EventID, c.PlayerID.Hex(), nullableID(c.AssignmentID), c.DurationMinutes,
		formatTime(c.CompletedAt), formatTime(c.CreatedAt))
	if err != nil {
		return false, translate(err, "inserting session completion")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting session completion: %w", err)
	}
	return n == 1, nil
}

func (r *completionRepo) ListByAssignments(ctx context.Context, ids []primitive.ObjectID) ([]domain.SessionCompletion, error) {
	out := []domain.SessionCompletion{}
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.Hex()
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := r.q.QueryContext(ctx, `SELECT id, event_id, player_id, assignment_id, duration_minutes, completed_at, created_at
		FROM session_completions WHERE assignment_id IN (`+placeholders+`) ORDER BY completed_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing session completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c                          domain.SessionCompletion
			id, player, completed, crt string
			assignmentID               sql.NullString
		)
		if err := rows.Scan(&id, &c.EventID, &player, &assignmentID, &c.DurationMinutes, &completed, &crt); err != nil {
			return nil, fmt.Errorf("scanning session completion: %w", err)
		}
		if c.ID, err = parseID(id); err != nil {
			return nil, err
		}
		if c.PlayerID, err = parseID(player); err != nil {
			return nil, err
		}
		if c.AssignmentID, err = parseNullableID(assignmentID); err != nil {
			return nil, err
		}
		if c.CompletedAt, err = parseTime(completed); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(crt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CompletionRepository = (*completionRepo)(nil)
