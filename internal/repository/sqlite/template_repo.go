package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

type templateRepo struct {
	q DBTX
}

const templateColumns = `id, coach_id, name, session_type, duration, learning_phase, description, created_at, updated_at`

func (r *templateRepo) Create(ctx context.Context, t *domain.SessionTemplate) (primitive.ObjectID, error) {
	newID(&t.ID)
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.q.ExecContext(ctx, `INSERT INTO session_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.Hex(), t.CoachID.Hex(), t.Name, string(t.SessionType), t.Duration, t.LearningPhase, t.Description,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return primitive.NilObjectID, translate(err, "inserting session template")
	}
	return t.ID, nil
}

func (r *templateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM session_templates WHERE id = ?`, id.Hex())
	t, err := scanTemplate(row)
	if err != nil {
		return nil, translate(err, "session template")
	}
	return t, nil
}

func (r *templateRepo) List(ctx context.Context) ([]domain.SessionTemplate, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+templateColumns+` FROM session_templates ORDER BY session_type, name`)
	if err != nil {
		return nil, fmt.Errorf("listing session templates: %w", err)
	}
	defer rows.Close()

	out := []domain.SessionTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session template: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTemplate(row scanner) (*domain.SessionTemplate, error) {
	var (
		t                                    domain.SessionTemplate
		id, coachID, sessionType, created, u string
	)
	err := row.Scan(&id, &coachID, &t.Name, &sessionType, &t.Duration, &t.LearningPhase, &t.Description, &created, &u)
	if err != nil {
		return nil, err
	}
	t.SessionType = domain.SessionType(sessionType)
	if t.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if t.CoachID, err = parseID(coachID); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(u); err != nil {
		return nil, err
	}
	return &t, nil
}

var _ repository.TemplateRepository = (*templateRepo)(nil)
