package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/service"
)

// ReviewHandler serves the plan review workflow.
type ReviewHandler struct {
	review service.ReviewService
	logger *slog.Logger
}

func NewReviewHandler(review service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{review: review, logger: logger}
}

type transitionFunc func(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error)

// transition binds the optional note and runs fn.
func (h *ReviewHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	var req ReviewNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	plan, err := fn(c.Request.Context(), actor, planID, req.Note)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	h.transition(c, func(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, _ string) (*domain.AnnualPlan, error) {
		return h.review.Submit(ctx, actor, planID)
	})
}

func (h *ReviewHandler) Approve(c *gin.Context) { h.transition(c, h.review.Approve) }

func (h *ReviewHandler) Reject(c *gin.Context) { h.transition(c, h.review.Reject) }

func (h *ReviewHandler) RequestRevision(c *gin.Context) { h.transition(c, h.review.RequestRevision) }

func (h *ReviewHandler) ValidatePlan(c *gin.Context) {
	actor, planID, ok := planRequest(c)
	if !ok {
		return
	}
	report, err := h.review.ValidatePlan(c.Request.Context(), actor, planID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
