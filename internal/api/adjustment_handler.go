package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/service"
)

// AdjustmentHandler serves manual edits of a generated plan.
type AdjustmentHandler struct {
	adjust service.AdjustmentService
	logger *slog.Logger
}

func NewAdjustmentHandler(adjust service.AdjustmentService, logger *slog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{adjust: adjust, logger: logger}
}

// planRequest reads the actor and plan id every adjustment route needs.
func planRequest(c *gin.Context) (domain.Actor, primitive.ObjectID, bool) {
	actor, ok := mustActor(c)
	if !ok {
		return domain.Actor{}, primitive.NilObjectID, false
	}
	planID, ok := objectIDParam(c, "planId")
	return actor, planID, ok
}

// UpdateAssignment godoc
// @Summary Patch the assignment on a date
// @Tags Adjustments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param patch body domain.AssignmentPatch true "Fields to change"
// @Success 200 {object} AssignmentResponse
// @Router /plans/{planId}/assignments/{date} [patch]
func (h *AdjustmentHandler) UpdateAssignment(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}
	var patch domain.AssignmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	out, err := h.adjust.UpdateSingleAssignment(c.Request.Context(), actor, planID, date, patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapAssignmentToResponse(out))
}

func (h *AdjustmentHandler) BulkUpdate(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	sel := service.Selector{Week: req.Week}
	if req.From != nil {
		from, ok := parseDateField(c, "from", *req.From)
		if !ok {
			return
		}
		sel.From = &from
	}
	if req.To != nil {
		to, ok := parseDateField(c, "to", *req.To)
		if !ok {
			return
		}
		sel.To = &to
	}

	out, err := h.adjust.BulkUpdate(c.Request.Context(), actor, planID, sel, req.Patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(out), "assignments": MapAssignmentsToResponse(out)})
}

func (h *AdjustmentHandler) Swap(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	d1, ok := parseDateField(c, "date1", req.Date1)
	if !ok {
		return
	}
	d2, ok := parseDateField(c, "date2", req.Date2)
	if !ok {
		return
	}
	out, err := h.adjust.Swap(c.Request.Context(), actor, planID, d1, d2)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapAssignmentsToResponse(out))
}

func (h *AdjustmentHandler) InsertRestDay(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	var req RestDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	date, ok := parseDateField(c, "date", req.Date)
	if !ok {
		return
	}
	out, err := h.adjust.InsertRestDay(c.Request.Context(), actor, planID, date, req.Reason)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapAssignmentToResponse(out))
}

func (h *AdjustmentHandler) RemoveRestDay(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}
	var req ReplaceRestDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.ReplacementTemplateID)
	if err != nil {
		badRequest(c, "Invalid replacementTemplateId format.")
		return
	}
	out, err := h.adjust.RemoveRestDay(c.Request.Context(), actor, planID, date, templateID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapAssignmentToResponse(out))
}

func (h *AdjustmentHandler) AdjustWeeklyVolume(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	week, ok := intParam(c, "week")
	if !ok {
		return
	}
	var req VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	res, err := h.adjust.AdjustWeeklyVolume(c.Request.Context(), actor, planID, week, *req.Hours)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"week":        res.Week,
		"sessions":    res.Sessions,
		"assignments": MapAssignmentsToResponse(res.Assignments),
	})
}

func (h *AdjustmentHandler) ChangePeriodType(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	week, ok := intParam(c, "week")
	if !ok {
		return
	}
	var req PeriodTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	out, err := h.adjust.ChangePeriodType(c.Request.Context(), actor, planID, week, req.Period)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdjustmentHandler) ScheduleTournament(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	var req TournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	in := service.TournamentInput{
		Name:                 req.Name,
		Importance:           req.Importance,
		ToppingDurationWeeks: req.ToppingDurationWeeks,
		TaperingDurationDays: req.TaperingDurationDays,
	}
	if in.StartDate, ok = parseDateField(c, "startDate", req.StartDate); !ok {
		return
	}
	if in.EndDate, ok = parseDateField(c, "endDate", req.EndDate); !ok {
		return
	}
	out, err := h.adjust.ScheduleTournament(c.Request.Context(), actor, planID, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapTournamentToResponse(out))
}

func (h *AdjustmentHandler) ListTournaments(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	list, err := h.adjust.ListTournaments(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	out := make([]TournamentResponse, len(list))
	for i := range list {
		out[i] = MapTournamentToResponse(&list[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdjustmentHandler) RescheduleTournament(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	tournamentID, ok := objectIDParam(c, "tournamentId")
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	start, ok := parseDateField(c, "newStartDate", req.NewStartDate)
	if !ok {
		return
	}
	end, ok := parseDateField(c, "newEndDate", req.NewEndDate)
	if !ok {
		return
	}
	out, err := h.adjust.RescheduleTournament(c.Request.Context(), actor, planID, tournamentID, start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapTournamentToResponse(out))
}

func (h *AdjustmentHandler) GetChangeHistory(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	entries, err := h.adjust.GetChangeHistory(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.ChangeLogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
