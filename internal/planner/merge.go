package planner

import (
	"alcyxob/annual-plan/internal/domain"
)

// MaxSessionMinutes caps a single hand-edited session.
const MaxSessionMinutes = 24 * 60

// ValidatePatch rejects empty patches and out-of-domain values.
func ValidatePatch(p domain.AssignmentPatch) error {
	if p.Empty() {
		return domain.NewValidationError("patch", "no fields to update")
	}
	if p.SessionType != nil && !p.SessionType.Valid() {
		return domain.NewValidationError("sessionType", "unknown session type %q", *p.SessionType)
	}
	if p.EstimatedDuration != nil && (*p.EstimatedDuration < 0 || *p.EstimatedDuration > MaxSessionMinutes) {
		return domain.NewValidationError("estimatedDuration", "%d minutes outside [0,%d]", *p.EstimatedDuration, MaxSessionMinutes)
	}
	if p.Intensity != nil && !p.Intensity.Valid() {
		return domain.NewValidationError("intensity", "unknown intensity %q", *p.Intensity)
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.NewValidationError("status", "unknown status %q", *p.Status)
	}
	return nil
}

// MergeAssignment applies a manual edit to an assignment. tmpl is the template
// referenced by patch.TemplateID, already resolved by the caller; its type,
// duration and learning phase win over the patch's own values. The result is
// marked as hand-edited.
func MergeAssignment(base domain.DailyAssignment, patch domain.AssignmentPatch, tmpl *domain.SessionTemplate) domain.DailyAssignment {
	a := base

	if patch.SessionType != nil {
		a.SessionType = *patch.SessionType
	}
	if patch.EstimatedDuration != nil {
		a.EstimatedDuration = *patch.EstimatedDuration
	}
	if patch.LearningPhase != nil {
		a.LearningPhase = *patch.LearningPhase
	}
	if patch.Intensity != nil {
		a.Intensity = *patch.Intensity
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if tmpl != nil {
		id := tmpl.ID
		a.TemplateID = &id
		a.SessionType = tmpl.SessionType
		a.EstimatedDuration = tmpl.Duration
		a.LearningPhase = tmpl.LearningPhase
	}

	normalizeRest(&a)
	a.CanBeSubstituted = false
	return a
}

// ApplyTemplate turns a rest day back into a training day built from tmpl.
func ApplyTemplate(base domain.DailyAssignment, tmpl domain.SessionTemplate) domain.DailyAssignment {
	a := base
	id := tmpl.ID
	a.TemplateID = &id
	a.SessionType = tmpl.SessionType
	a.EstimatedDuration = tmpl.Duration
	a.LearningPhase = tmpl.LearningPhase
	a.IsRestDay = false
	normalizeRest(&a)
	a.CanBeSubstituted = false
	return a
}

// normalizeRest keeps IsRestDay in step with the session type.
func normalizeRest(a *domain.DailyAssignment) {
	if a.SessionType == domain.SessionRest {
		a.MakeRest("")
		return
	}
	a.IsRestDay = false
	if a.Intensity == domain.IntensityNone || a.Intensity == "" {
		a.Intensity = domain.IntensityLow
	}
}

// SwapSessions exchanges the training content of two assignments and leaves
// their dates, weeks and substitution flags alone.
func SwapSessions(a, b domain.DailyAssignment) (domain.DailyAssignment, domain.DailyAssignment) {
	a.SessionType, b.SessionType = b.SessionType, a.SessionType
	a.EstimatedDuration, b.EstimatedDuration = b.EstimatedDuration, a.EstimatedDuration
	a.LearningPhase, b.LearningPhase = b.LearningPhase, a.LearningPhase
	a.Intensity, b.Intensity = b.Intensity, a.Intensity
	a.IsRestDay, b.IsRestDay = b.IsRestDay, a.IsRestDay
	a.TemplateID, b.TemplateID = b.TemplateID, a.TemplateID
	return a, b
}

// Primary picks the assignment a date-addressed edit operates on: the first
// training session in session-type order, or the first record when the day
// is all rest.
func Primary(day []domain.DailyAssignment) (domain.DailyAssignment, bool) {
	if len(day) == 0 {
		return domain.DailyAssignment{}, false
	}
	best := -1
	for i, a := range day {
		if a.IsRestDay {
			continue
		}
		if best < 0 || a.SessionType < day[best].SessionType {
			best = i
		}
	}
	if best < 0 {
		best = 0
	}
	return day[best], true
}
