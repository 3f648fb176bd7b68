package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
)

// CreateTemplateInput describes a catalog entry.
type CreateTemplateInput struct {
	Name          string
	SessionType   domain.SessionType
	Duration      int
	LearningPhase string
	Description   string
}

// TemplateService maintains the session template catalog. Edits of daily
// assignments only ever read it.
type TemplateService interface {
	CreateTemplate(ctx context.Context, actor domain.Actor, in CreateTemplateInput) (*domain.SessionTemplate, error)
	GetTemplate(ctx context.Context, templateID primitive.ObjectID) (*domain.SessionTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.SessionTemplate, error)
}

// templateService implements the TemplateService interface.
type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
	}
}

// CreateTemplate adds a template to the catalog. Only coaches maintain it.
func (s *templateService) CreateTemplate(ctx context.Context, actor domain.Actor, in CreateTemplateInput) (*domain.SessionTemplate, error) {
	if err := requireCoach(actor, "create templates"); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	if !in.SessionType.Valid() || in.SessionType == domain.SessionRest {
		return nil, domain.NewValidationError("sessionType", "unknown training session type %q", in.SessionType)
	}
	if in.Duration <= 0 || in.Duration > planner.MaxSessionMinutes {
		return nil, domain.NewValidationError("duration", "%d minutes outside [1,%d]", in.Duration, planner.MaxSessionMinutes)
	}

	tmpl := &domain.SessionTemplate{
		CoachID:       actor.ID,
		Name:          name,
		SessionType:   in.SessionType,
		Duration:      in.Duration,
		LearningPhase: in.LearningPhase,
		Description:   in.Description,
	}
	templateID, err := s.templateRepo.Create(ctx, tmpl)
	if err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return s.GetTemplate(ctx, templateID)
}

// GetTemplate retrieves a single template.
func (s *templateService) GetTemplate(ctx context.Context, templateID primitive.ObjectID) (*domain.SessionTemplate, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, translate(err, "template", templateID.Hex())
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context) ([]domain.SessionTemplate, error) {
	return s.templateRepo.List(ctx)
}
