package api

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// --- Request DTOs ---

type PeriodRequest struct {
	Type            domain.PeriodType `json:"type" binding:"required"`
	Name            string            `json:"name"`
	StartDate       string            `json:"startDate" binding:"required"`
	EndDate         string            `json:"endDate" binding:"required"`
	WeeklyFrequency int               `json:"weeklyFrequency" binding:"required"`
	Goals           []string          `json:"goals"`
}

// CreatePlanRequest carries either periods or phaseWeeks.
type CreatePlanRequest struct {
	PlayerID          string                `json:"playerId"`
	Name              string                `json:"name"`
	StartDate         string                `json:"startDate" binding:"required"`
	EndDate           string                `json:"endDate" binding:"required"`
	WeeklyHoursTarget int                   `json:"weeklyHoursTarget" binding:"min=0"`
	Mode              domain.GenerationMode `json:"mode" binding:"omitempty,oneof=structural explicit"`
	Periods           []PeriodRequest       `json:"periods" binding:"dive"`
	PhaseWeeks        *domain.PhaseWeeks    `json:"phaseWeeks"`
	RestWeekday       *int                  `json:"restWeekday" binding:"omitempty,min=0,max=6"`
}

type BulkUpdateRequest struct {
	Week  *int                   `json:"week"`
	From  *string                `json:"from"`
	To    *string                `json:"to"`
	Patch domain.AssignmentPatch `json:"patch"`
}

type SwapRequest struct {
	Date1 string `json:"date1" binding:"required"`
	Date2 string `json:"date2" binding:"required"`
}

type RestDayRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type ReplaceRestDayRequest struct {
	ReplacementTemplateID string `json:"replacementTemplateId" binding:"required"`
}

type VolumeRequest struct {
	Hours *int `json:"hours" binding:"required"`
}

type PeriodTypeRequest struct {
	Period domain.PeriodCode `json:"period" binding:"required"`
}

type TournamentRequest struct {
	Name                 string            `json:"name" binding:"required"`
	StartDate            string            `json:"startDate" binding:"required"`
	EndDate              string            `json:"endDate" binding:"required"`
	Importance           domain.Importance `json:"importance" binding:"required,oneof=A B"`
	ToppingDurationWeeks int               `json:"toppingDurationWeeks" binding:"min=0"`
	TaperingDurationDays int               `json:"taperingDurationDays" binding:"min=0"`
}

type RescheduleRequest struct {
	NewStartDate string `json:"newStartDate" binding:"required"`
	NewEndDate   string `json:"newEndDate" binding:"required"`
}

type ReviewNoteRequest struct {
	Note string `json:"note"`
}

type CompletionRequest struct {
	EventID         string     `json:"eventId"`
	PlayerID        string     `json:"playerId"`
	AssignmentID    string     `json:"assignmentId"`
	DurationMinutes int        `json:"durationMinutes"`
	CompletedAt     *time.Time `json:"completedAt"`
}

type BreakingPointRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateTemplateRequest defines the expected JSON for creating a session template.
type CreateTemplateRequest struct {
	Name          string             `json:"name" binding:"required"`
	SessionType   domain.SessionType `json:"sessionType" binding:"required"`
	Duration      int                `json:"duration" binding:"required,min=1"`
	LearningPhase string             `json:"learningPhase"`
	Description   string             `json:"description"`
}

// --- Response DTOs ---

type PeriodResponse struct {
	ID              string            `json:"id"`
	Type            domain.PeriodType `json:"type"`
	Name            string            `json:"name"`
	StartDate       string            `json:"startDate"`
	EndDate         string            `json:"endDate"`
	WeeklyFrequency int               `json:"weeklyFrequency"`
	Goals           []string          `json:"goals,omitempty"`
}

// PlanResponse renders calendar dates as YYYY-MM-DD.
type PlanResponse struct {
	ID                string                `json:"id"`
	PlayerID          string                `json:"playerId"`
	CoachID           *string               `json:"coachId,omitempty"`
	Name              string                `json:"name"`
	StartDate         string                `json:"startDate"`
	EndDate           string                `json:"endDate"`
	TotalWeeks        int                   `json:"totalWeeks"`
	Status            domain.PlanStatus     `json:"status"`
	WeeklyHoursTarget int                   `json:"weeklyHoursTarget"`
	Mode              domain.GenerationMode `json:"mode"`
	Periods           []PeriodResponse      `json:"periods,omitempty"`
	PhaseWeeks        *domain.PhaseWeeks    `json:"phaseWeeks,omitempty"`
	RestWeekday       int                   `json:"restWeekday"`
	ReviewNote        string                `json:"reviewNote,omitempty"`
	GeneratedAt       *time.Time            `json:"generatedAt,omitempty"`
	LastModifiedAt    time.Time             `json:"lastModifiedAt"`
	CreatedAt         time.Time             `json:"createdAt"`
}

func MapPlanToResponse(p *domain.AnnualPlan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	resp := PlanResponse{
		ID:                p.ID.Hex(),
		PlayerID:          p.PlayerID.Hex(),
		Name:              p.Name,
		StartDate:         p.StartDate.Format(domain.DateLayout),
		EndDate:           p.EndDate.Format(domain.DateLayout),
		TotalWeeks:        p.TotalWeeks(),
		Status:            p.Status,
		WeeklyHoursTarget: p.WeeklyHoursTarget,
		Mode:              p.Mode,
		PhaseWeeks:        p.PhaseWeeks,
		RestWeekday:       int(p.RestWeekday),
		ReviewNote:        p.ReviewNote,
		GeneratedAt:       p.GeneratedAt,
		LastModifiedAt:    p.LastModifiedAt,
		CreatedAt:         p.CreatedAt,
	}
	if p.CoachID != nil {
		hex := p.CoachID.Hex()
		resp.CoachID = &hex
	}
	for _, period := range p.Periods {
		resp.Periods = append(resp.Periods, PeriodResponse{
			ID:              period.ID,
			Type:            period.Type,
			Name:            period.Name,
			StartDate:       period.StartDate.Format(domain.DateLayout),
			EndDate:         period.EndDate.Format(domain.DateLayout),
			WeeklyFrequency: period.WeeklyFrequency,
			Goals:           period.Goals,
		})
	}
	return resp
}

func MapPlansToResponse(plans []domain.AnnualPlan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = MapPlanToResponse(&plans[i])
	}
	return out
}

type AssignmentResponse struct {
	ID                string                  `json:"id"`
	AssignedDate      string                  `json:"assignedDate"`
	WeekNumber        int                     `json:"weekNumber"`
	DayOfWeek         string                  `json:"dayOfWeek"`
	SessionType       domain.SessionType      `json:"sessionType"`
	TemplateID        *string                 `json:"templateId,omitempty"`
	EstimatedDuration int                     `json:"estimatedDuration"`
	Period            domain.PeriodCode       `json:"period"`
	LearningPhase     string                  `json:"learningPhase,omitempty"`
	Intensity         domain.Intensity        `json:"intensity"`
	IsRestDay         bool                    `json:"isRestDay"`
	CanBeSubstituted  bool                    `json:"canBeSubstituted"`
	Status            domain.AssignmentStatus `json:"status"`
	Notes             string                  `json:"notes,omitempty"`
}

func MapAssignmentToResponse(a *domain.DailyAssignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	resp := AssignmentResponse{
		ID:                a.ID.Hex(),
		AssignedDate:      a.AssignedDate.Format(domain.DateLayout),
		WeekNumber:        a.WeekNumber,
		DayOfWeek:         a.DayOfWeek.String(),
		SessionType:       a.SessionType,
		EstimatedDuration: a.EstimatedDuration,
		Period:            a.Period,
		LearningPhase:     a.LearningPhase,
		Intensity:         a.Intensity,
		IsRestDay:         a.IsRestDay,
		CanBeSubstituted:  a.CanBeSubstituted,
		Status:            a.Status,
		Notes:             a.Notes,
	}
	if a.TemplateID != nil && *a.TemplateID != primitive.NilObjectID {
		hex := a.TemplateID.Hex()
		resp.TemplateID = &hex
	}
	return resp
}

func MapAssignmentsToResponse(assignments []domain.DailyAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		out[i] = MapAssignmentToResponse(&assignments[i])
	}
	return out
}

type TournamentResponse struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	StartDate            string            `json:"startDate"`
	EndDate              string            `json:"endDate"`
	WeekNumber           int               `json:"weekNumber"`
	Importance           domain.Importance `json:"importance"`
	ToppingStartWeek     int               `json:"toppingStartWeek"`
	ToppingDurationWeeks int               `json:"toppingDurationWeeks"`
	TaperingStartDate    string            `json:"taperingStartDate"`
	TaperingDurationDays int               `json:"taperingDurationDays"`
}

func MapTournamentToResponse(t *domain.ScheduledTournament) TournamentResponse {
	if t == nil {
		return TournamentResponse{}
	}
	return TournamentResponse{
		ID:                   t.ID.Hex(),
		Name:                 t.Name,
		StartDate:            t.StartDate.Format(domain.DateLayout),
		EndDate:              t.EndDate.Format(domain.DateLayout),
		WeekNumber:           t.WeekNumber,
		Importance:           t.Importance,
		ToppingStartWeek:     t.ToppingStartWeek,
		ToppingDurationWeeks: t.ToppingDurationWeeks,
		TaperingStartDate:    t.TaperingStartDate.Format(domain.DateLayout),
		TaperingDurationDays: t.TaperingDurationDays,
	}
}

// TemplateResponse is the DTO for returning template details.
type TemplateResponse struct {
	ID            string             `json:"id"`
	CoachID       string             `json:"coachId"`
	Name          string             `json:"name"`
	SessionType   domain.SessionType `json:"sessionType"`
	Duration      int                `json:"duration"`
	LearningPhase string             `json:"learningPhase,omitempty"`
	Description   string             `json:"description,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// MapTemplateToResponse converts a domain.SessionTemplate to TemplateResponse DTO.
func MapTemplateToResponse(t *domain.SessionTemplate) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	return TemplateResponse{
		ID:            t.ID.Hex(),
		CoachID:       t.CoachID.Hex(),
		Name:          t.Name,
		SessionType:   t.SessionType,
		Duration:      t.Duration,
		LearningPhase: t.LearningPhase,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

// MapTemplatesToResponse converts a slice of domain.SessionTemplate to a slice of TemplateResponse DTO.
func MapTemplatesToResponse(templates []domain.SessionTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	return responses
}
