package handler

import (
	"github.com/gin-gonic/gin"

	appcrm "github.com/lifeos/backend/internal/application/crm"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// WorkflowHandler serves workflow endpoints
type WorkflowHandler struct {
	BaseHandler
	workflowService *appcrm.WorkflowService
	leadService     *appcrm.LeadService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(workflowService *appcrm.WorkflowService, leadService *appcrm.LeadService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService, leadService: leadService}
}

// Create creates a workflow
func (h *WorkflowHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcrm.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.workflowService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get retrieves a single workflow
func (h *WorkflowHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	resp, err := h.workflowService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists workflows with pagination
func (h *WorkflowHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	filter := req.ToFilter()

	workflows, total, err := h.workflowService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, workflows, total, filter.Page, filter.PageSize)
}

// ListLeadsByStage lists leads sitting in one stage of a workflow
func (h *WorkflowHandler) ListLeadsByStage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}
	stage := c.Param("stage")

	leads, err := h.leadService.ListByStage(c.Request.Context(), userID, id, stage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leads)
}

// Update updates a workflow
func (h *WorkflowHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	var req appcrm.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.workflowService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a workflow
func (h *WorkflowHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	if err := h.workflowService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers workflow routes
func (h *WorkflowHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workflows := rg.Group("/workflows")
	{
		workflows.POST("", h.Create)
		workflows.GET("", h.List)
		workflows.GET("/:id", h.Get)
		workflows.PUT("/:id", h.Update)
		workflows.DELETE("/:id", h.Delete)
		workflows.GET("/:id/stages/:stage/leads", h.ListLeadsByStage)
	}
}
