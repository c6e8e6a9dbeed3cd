package pipeline

import (
	"github.com/gin-gonic/gin"

	"github.com/richxcame/pricing-pipeline/pkg/common"
	"github.com/richxcame/pricing-pipeline/pkg/pagination"
)

// Handler exposes the control surface over HTTP via gin, matching
// the project's handler-wraps-service idiom.
type Handler struct {
	orchestrator *Orchestrator
}

// NewHandler builds a Handler over an Orchestrator.
func NewHandler(o *Orchestrator) *Handler {
	return &Handler{orchestrator: o}
}

// Register mounts the control surface's routes under the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/trigger", h.TriggerPipeline)
	group.GET("/status", h.GetStatus)
	group.GET("/history", h.GetHistory)
	group.GET("/last-run", h.GetLastRun)
	group.POST("/clear-changes", h.ClearChanges)
}

// TriggerPipeline handles POST /trigger?force=true|false.
func (h *Handler) TriggerPipeline(c *gin.Context) {
	force := c.Query("force") == "true"
	result := h.orchestrator.Trigger(c.Request.Context(), force)

	switch result.Status {
	case TriggerStatusAlreadyRunning:
		common.SuccessResponseWithStatus(c, 409, result, "pipeline already running")
	default:
		common.SuccessResponse(c, result)
	}
}

// GetStatus handles GET /status.
func (h *Handler) GetStatus(c *gin.Context) {
	common.SuccessResponse(c, h.orchestrator.Status())
}

// GetHistory handles GET /history?limit=&offset=.
func (h *Handler) GetHistory(c *gin.Context) {
	params := pagination.ParseParams(c)

	history, err := h.orchestrator.History(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.ErrorResponse(c, 500, "failed to load pipeline run history")
		return
	}
	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(history)))
	common.SuccessResponseWithMeta(c, history, meta)
}

// GetLastRun handles GET /last-run.
func (h *Handler) GetLastRun(c *gin.Context) {
	run, err := h.orchestrator.LastRun(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "failed to load last pipeline run")
		return
	}
	common.SuccessResponse(c, run)
}

// ClearChanges handles POST /clear-changes.
func (h *Handler) ClearChanges(c *gin.Context) {
	common.SuccessResponse(c, h.orchestrator.ClearChanges())
}
