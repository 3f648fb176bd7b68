package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/service"
)

// PlanHandler serves plan creation, generation, reads and export.
type PlanHandler struct {
	plans   service.PlanService
	exports service.ExportService
	logger  *slog.Logger
}

func NewPlanHandler(plans service.PlanService, exports service.ExportService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{plans: plans, exports: exports, logger: logger}
}

// CreatePlan godoc
// @Summary Create an annual plan
// @Description Players create their own plan from dated periods; coaches create one for a player, optionally from phase week counts.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan definition"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Player already has an active plan"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	in := service.CreatePlanInput{
		Name:              req.Name,
		WeeklyHoursTarget: req.WeeklyHoursTarget,
		Mode:              req.Mode,
		PhaseWeeks:        req.PhaseWeeks,
	}
	if req.PlayerID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlayerID)
		if err != nil {
			badRequest(c, "Invalid playerId format.")
			return
		}
		in.PlayerID = id
	}
	if in.StartDate, ok = parseDateField(c, "startDate", req.StartDate); !ok {
		return
	}
	if in.EndDate, ok = parseDateField(c, "endDate", req.EndDate); !ok {
		return
	}
	if req.RestWeekday != nil {
		wd := time.Weekday(*req.RestWeekday)
		in.RestWeekday = &wd
	}
	for _, p := range req.Periods {
		period := domain.Period{Type: p.Type, Name: p.Name, WeeklyFrequency: p.WeeklyFrequency, Goals: p.Goals}
		if period.StartDate, ok = parseDateField(c, "periods.startDate", p.StartDate); !ok {
			return
		}
		if period.EndDate, ok = parseDateField(c, "periods.endDate", p.EndDate); !ok {
			return
		}
		in.Periods = append(in.Periods, period)
	}

	plan, err := h.plans.CreatePlan(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	if err := h.plans.DeletePlan(c.Request.Context(), actor, planID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) ListPlansForPlayer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	plans, err := h.plans.ListPlansForPlayer(c.Request.Context(), actor, playerID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GeneratePlan godoc
// @Summary Generate weekly periodization and daily assignments
// @Description Idempotent; re-running fills whatever a previous run left out.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} gin.H
// @Router /plans/{planId}/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	res, err := h.plans.GeneratePlan(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":         MapPlanToResponse(res.Plan),
		"weeksCreated": res.WeeksCreated,
		"daysCreated":  res.DaysCreated,
	})
}

func (h *PlanHandler) GetPeriodization(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	weeks, err := h.plans.GetPeriodization(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if weeks == nil {
		weeks = []domain.WeekPeriodization{}
	}
	c.JSON(http.StatusOK, weeks)
}

// ListAssignments returns assignments in [from, to]; both query parameters
// are optional and default to the plan span.
func (h *PlanHandler) ListAssignments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if from, ok = parseDateField(c, "from", v); !ok {
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, ok = parseDateField(c, "to", v); !ok {
			return
		}
	}
	assignments, err := h.plans.ListAssignments(c.Request.Context(), actor, planID, from, to)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapAssignmentsToResponse(assignments))
}

// ExportPlan uploads the calendar as CSV and returns a presigned download URL.
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := objectIDParam(c, "planId")
	if !ok {
		return
	}
	export, err := h.exports.ExportPlan(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}
