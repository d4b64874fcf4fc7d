package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/work-assignment-api/internal/dto"
	apierrors "github.com/yukikurage/work-assignment-api/internal/errors"
	"github.com/yukikurage/work-assignment-api/internal/middleware"
	"github.com/yukikurage/work-assignment-api/internal/models"
	"github.com/yukikurage/work-assignment-api/internal/services"
	"github.com/yukikurage/work-assignment-api/internal/utils"
)

// WorkItemHandler coordinates work item HTTP handlers.
type WorkItemHandler struct {
	workItemService *services.WorkItemService
}

// NewWorkItemHandler creates a new WorkItemHandler.
func NewWorkItemHandler(workItemService *services.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{
		workItemService: workItemService,
	}
}

func getActor(c *gin.Context) (services.Actor, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return services.Actor{}, false
	}
	role, exists := middleware.GetUserRole(c)
	if !exists {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}

func parseItemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid work item ID")
		return 0, false
	}
	return id, true
}

// Assign creates a new work item for a worker.
func (h *WorkItemHandler) Assign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type AssignRequest struct {
		WorkerID     uint64    `json:"worker_id" binding:"required"`
		Task         string    `json:"task" binding:"required"`
		Description  string    `json:"description"`
		Instructions string    `json:"instructions" binding:"required"`
		Deadline     time.Time `json:"deadline" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, notified, err := h.workItemService.Assign(services.AssignInput{
		Actor:        actor,
		WorkerID:     req.WorkerID,
		Task:         req.Task,
		Description:  req.Description,
		Instructions: req.Instructions,
		Deadline:     req.Deadline,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"work_item":         dto.ToWorkItemDTO(*item),
		"notification_sent": notified,
	})
}

// List returns work items visible to the caller.
func (h *WorkItemHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListInput{
		Actor:    actor,
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.WorkItemStatus(statusStr)
		if !status.IsValid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if workerIDStr := c.Query("worker_id"); workerIDStr != "" {
		workerID, err := strconv.ParseUint(workerIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid worker_id")
			return
		}
		input.WorkerID = &workerID
	}

	items, total, err := h.workItemService.List(input)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemListResponse(items, params.Page, params.PageSize, total))
}

// ListSubmitted returns items awaiting review.
func (h *WorkItemHandler) ListSubmitted(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.workItemService.ListSubmitted(actor, params.Page, params.PageSize)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemListResponse(items, params.Page, params.PageSize, total))
}

// Stats returns item counts by status.
func (h *WorkItemHandler) Stats(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	counts, err := h.workItemService.Stats(actor)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"pending":   counts[models.StatusPending],
		"submitted": counts[models.StatusSubmitted],
		"approved":  counts[models.StatusApproved],
		"rejected":  counts[models.StatusRejected],
		"total":     total,
	})
}

// Get returns a single work item.
func (h *WorkItemHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	item, err := h.workItemService.Get(id, actor)
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemDTO(*item))
}

// Complete submits completed work for review.
func (h *WorkItemHandler) Complete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	type CompleteRequest struct {
		Explanation string  `json:"explanation"`
		WorkLink    *string `json:"work_link"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, notified, err := h.workItemService.Complete(services.CompleteInput{
		Actor:       actor,
		ItemID:      id,
		Explanation: req.Explanation,
		WorkLink:    req.WorkLink,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_item":         dto.ToWorkItemDTO(*item),
		"notification_sent": notified,
	})
}

// Approve marks a submitted item as approved.
func (h *WorkItemHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	type ApproveRequest struct {
		ReviewNotes *string `json:"review_notes"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, notified, err := h.workItemService.Approve(services.ApproveInput{
		Actor:       actor,
		ItemID:      id,
		ReviewNotes: req.ReviewNotes,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_item":         dto.ToWorkItemDTO(*item),
		"notification_sent": notified,
	})
}

// Reject sends a submitted item back to the worker.
func (h *WorkItemHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	type RejectRequest struct {
		ReviewNotes string `json:"review_notes"`
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, notified, err := h.workItemService.Reject(services.RejectInput{
		Actor:       actor,
		ItemID:      id,
		ReviewNotes: req.ReviewNotes,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_item":         dto.ToWorkItemDTO(*item),
		"notification_sent": notified,
	})
}

// Update applies an admin edit of allow-listed fields.
func (h *WorkItemHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Task         *string                `json:"task"`
		Description  *string                `json:"description"`
		Instructions *string                `json:"instructions"`
		Deadline     *time.Time             `json:"deadline"`
		Status       *models.WorkItemStatus `json:"status"`
		WorkerID     *uint64                `json:"worker_id"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.workItemService.Edit(services.EditInput{
		Actor:        actor,
		ItemID:       id,
		Task:         req.Task,
		Description:  req.Description,
		Instructions: req.Instructions,
		Deadline:     req.Deadline,
		Status:       req.Status,
		WorkerID:     req.WorkerID,
	})
	if err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemDTO(*item))
}

// Delete hard deletes a work item.
func (h *WorkItemHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	if err := h.workItemService.Delete(id, actor); err != nil {
		respondWorkItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Work item deleted successfully",
	})
}

func respondWorkItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkItemNotFound),
		errors.Is(err, services.ErrWorkerNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminRequired),
		errors.Is(err, services.ErrNotItemAssignee):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidItemState):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrWorkerInactive),
		errors.Is(err, services.ErrTaskRequired),
		errors.Is(err, services.ErrTaskTooLong),
		errors.Is(err, services.ErrInstructionsRequired),
		errors.Is(err, services.ErrDeadlineRequired),
		errors.Is(err, services.ErrExplanationRequired),
		errors.Is(err, services.ErrReviewNotesRequired),
		errors.Is(err, services.ErrInvalidWorkLink),
		errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
