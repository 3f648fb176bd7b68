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

// ProgressHandler serves summaries, completion events and breaking points.
type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, logger: logger}
}

func (h *ProgressHandler) WeekSummary(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	week, ok := intParam(c, "week")
	if !ok {
		return
	}
	summary, err := h.progress.WeekSummary(c.Request.Context(), actor, planID, week)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ProgressHandler) MonthSummary(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	month, ok := intParam(c, "month")
	if !ok {
		return
	}
	summary, err := h.progress.MonthSummary(c.Request.Context(), actor, planID, year, time.Month(month))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RecordCompletion godoc
// @Summary Record a session completion event
// @Description Idempotent per eventId. Completes the linked assignment and advances the player's breaking points.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CompletionRequest true "Completion event"
// @Success 201 {object} gin.H "Recorded"
// @Success 200 {object} gin.H "Duplicate event, nothing changed"
// @Router /completions [post]
func (h *ProgressHandler) RecordCompletion(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	in := service.CompletionInput{EventID: req.EventID, DurationMinutes: req.DurationMinutes}
	if req.CompletedAt != nil {
		in.CompletedAt = *req.CompletedAt
	}
	if req.PlayerID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlayerID)
		if err != nil {
			badRequest(c, "Invalid playerId format.")
			return
		}
		in.PlayerID = id
	}
	if req.AssignmentID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignmentID)
		if err != nil {
			badRequest(c, "Invalid assignmentId format.")
			return
		}
		in.AssignmentID = &id
	}

	res, err := h.progress.RecordCompletion(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	body := gin.H{
		"eventId":        res.Completion.EventID,
		"duplicate":      res.Duplicate,
		"breakingPoints": res.BreakingPoints,
	}
	if res.Assignment != nil {
		body["assignment"] = MapAssignmentToResponse(res.Assignment)
	}
	c.JSON(status, body)
}

func (h *ProgressHandler) CreateBreakingPoint(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	var req BreakingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	bp, err := h.progress.CreateBreakingPoint(c.Request.Context(), actor, playerID, req.Title, req.Description)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, bp)
}

func (h *ProgressHandler) ListBreakingPoints(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	playerID, ok := objectIDParam(c, "playerId")
	if !ok {
		return
	}
	bps, err := h.progress.ListBreakingPoints(c.Request.Context(), actor, playerID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if bps == nil {
		bps = []domain.BreakingPoint{}
	}
	c.JSON(http.StatusOK, bps)
}
