package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/annual-plan/internal/service"
)

// TemplateHandler holds the template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
	logger          *slog.Logger
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, logger: logger}
}

// CreateTemplate godoc
// @Summary Create a session template
// @Description Adds a template to the catalog used by manual edits.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body CreateTemplateRequest true "Template details"
// @Success 201 {object} TemplateResponse "Template created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not a coach)"
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation error: "+err.Error())
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	tmpl, err := h.templateService.CreateTemplate(c.Request.Context(), actor, service.CreateTemplateInput{
		Name:          req.Name,
		SessionType:   req.SessionType,
		Duration:      req.Duration,
		LearningPhase: req.LearningPhase,
		Description:   req.Description,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(tmpl))
}

// ListTemplates godoc
// @Summary List session templates
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TemplateResponse "List of templates"
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplatesToResponse(templates))
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, ok := objectIDParam(c, "templateId")
	if !ok {
		return
	}
	tmpl, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(tmpl))
}
