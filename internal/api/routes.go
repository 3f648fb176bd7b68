package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/service"
)

// Dependencies carries everything SetupRoutes wires into handlers.
type Dependencies struct {
	Tokens    service.TokenService
	Plans     service.PlanService
	Adjust    service.AdjustmentService
	Progress  service.ProgressService
	Review    service.ReviewService
	Exports   service.ExportService
	Templates service.TemplateService
	Logger    *slog.Logger

	// Write requests per second per client IP. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	planHandler := NewPlanHandler(deps.Plans, deps.Exports, logger)
	adjustmentHandler := NewAdjustmentHandler(deps.Adjust, logger)
	progressHandler := NewProgressHandler(deps.Progress, logger)
	reviewHandler := NewReviewHandler(deps.Review, logger)
	templateHandler := NewTemplateHandler(deps.Templates, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(RequestLogger(logger), AuthMiddleware(deps.Tokens))
	if deps.RateLimit > 0 {
		apiV1.Use(RateLimitMiddleware(deps.RateLimit, deps.RateBurst))
	}

	apiV1.GET("/me", func(c *gin.Context) {
		actor, ok := mustActor(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": actor.ID.Hex(), "role": actor.Role})
	})

	// --- Plans ---
	apiV1.POST("/plans", planHandler.CreatePlan)
	apiV1.GET("/players/:playerId/plans", planHandler.ListPlansForPlayer)

	plan := apiV1.Group("/plans/:planId")
	{
		plan.GET("", planHandler.GetPlan)
		plan.DELETE("", planHandler.DeletePlan)
		plan.POST("/generate", planHandler.GeneratePlan)
		plan.GET("/periodization", planHandler.GetPeriodization)
		plan.GET("/assignments", planHandler.ListAssignments)
		plan.POST("/export", planHandler.ExportPlan)

		// --- Manual adjustments ---
		plan.PATCH("/assignments/:date", adjustmentHandler.UpdateAssignment)
		plan.POST("/assignments/bulk", adjustmentHandler.BulkUpdate)
		plan.POST("/assignments/swap", adjustmentHandler.Swap)
		plan.POST("/rest-days", adjustmentHandler.InsertRestDay)
		plan.POST("/rest-days/:date/replace", adjustmentHandler.RemoveRestDay)
		plan.PUT("/weeks/:week/volume", adjustmentHandler.AdjustWeeklyVolume)
		plan.PUT("/weeks/:week/period", adjustmentHandler.ChangePeriodType)
		plan.POST("/tournaments", adjustmentHandler.ScheduleTournament)
		plan.GET("/tournaments", adjustmentHandler.ListTournaments)
		plan.PUT("/tournaments/:tournamentId/schedule", adjustmentHandler.RescheduleTournament)
		plan.GET("/changes", adjustmentHandler.GetChangeHistory)

		// --- Progress ---
		plan.GET("/progress/weeks/:week", progressHandler.WeekSummary)
		plan.GET("/progress/months/:year/:month", progressHandler.MonthSummary)

		// --- Review workflow ---
		review := plan.Group("/review")
		review.GET("/validation", reviewHandler.ValidatePlan)
		review.POST("/submit", reviewHandler.Submit)
		review.POST("/approve", RoleMiddleware(domain.RoleCoach), reviewHandler.Approve)
		review.POST("/reject", RoleMiddleware(domain.RoleCoach), reviewHandler.Reject)
		review.POST("/revise", RoleMiddleware(domain.RoleCoach), reviewHandler.RequestRevision)
	}

	apiV1.POST("/completions", progressHandler.RecordCompletion)
	apiV1.POST("/players/:playerId/breaking-points", progressHandler.CreateBreakingPoint)
	apiV1.GET("/players/:playerId/breaking-points", progressHandler.ListBreakingPoints)

	// --- Session templates ---
	templates := apiV1.Group("/templates")
	{
		templates.POST("", RoleMiddleware(domain.RoleCoach), templateHandler.CreateTemplate)
		templates.GET("", templateHandler.ListTemplates)
		templates.GET("/:templateId", templateHandler.GetTemplate)
	}
}
