package dto

import (
	"time"

	"github.com/yukikurage/work-assignment-api/internal/models"
)

// WorkItemDTO represents a work item in API responses, with the resolved
// identity summaries built once at the projection boundary. Overdue is
// derived against the current clock on every projection, never stored.
type WorkItemDTO struct {
	ID           uint64                `json:"id"`
	WorkerID     uint64                `json:"worker_id"`
	Task         string                `json:"task"`
	Description  string                `json:"description"`
	Instructions string                `json:"instructions"`
	Deadline     time.Time             `json:"deadline"`
	Status       models.WorkItemStatus `json:"status"`
	Overdue      bool                  `json:"overdue"`
	AssignedAt   time.Time             `json:"assigned_at"`
	SubmittedAt  *time.Time            `json:"submitted_at"`
	ReviewedAt   *time.Time            `json:"reviewed_at"`
	Explanation  *string               `json:"explanation"`
	WorkLink     *string               `json:"work_link"`
	ReviewNotes  *string               `json:"review_notes"`
	Worker       *UserSummaryDTO       `json:"worker,omitempty"`
	AssignedBy   *UserSummaryDTO       `json:"assigned_by,omitempty"`
	ReviewedBy   *UserSummaryDTO       `json:"reviewed_by,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// WorkItemListResponse represents a paginated list of work items
type WorkItemListResponse struct {
	WorkItems  []WorkItemDTO `json:"work_items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

// ToWorkItemDTO converts a WorkItem model to WorkItemDTO
func ToWorkItemDTO(item models.WorkItem) WorkItemDTO {
	dto := WorkItemDTO{
		ID:           item.ID,
		WorkerID:     item.WorkerID,
		Task:         item.Task,
		Description:  item.Description,
		Instructions: item.Instructions,
		Deadline:     item.Deadline,
		Status:       item.Status,
		Overdue:      item.IsOverdue(time.Now()),
		AssignedAt:   item.AssignedAt,
		SubmittedAt:  item.SubmittedAt,
		ReviewedAt:   item.ReviewedAt,
		Explanation:  item.Explanation,
		WorkLink:     item.WorkLink,
		ReviewNotes:  item.ReviewNotes,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	// Include identity summaries if preloaded
	if item.Worker.ID != 0 {
		worker := ToUserSummaryDTO(item.Worker)
		dto.Worker = &worker
	}
	if item.AssignedBy.ID != 0 {
		assignedBy := ToUserSummaryDTO(item.AssignedBy)
		dto.AssignedBy = &assignedBy
	}
	if item.ReviewedBy != nil && item.ReviewedBy.ID != 0 {
		reviewedBy := ToUserSummaryDTO(*item.ReviewedBy)
		dto.ReviewedBy = &reviewedBy
	}

	return dto
}

// ToWorkItemListResponse converts a slice of work items to WorkItemListResponse
func ToWorkItemListResponse(items []models.WorkItem, page, pageSize int, totalCount int64) WorkItemListResponse {
	dtos := make([]WorkItemDTO, len(items))
	for i, item := range items {
		dtos[i] = ToWorkItemDTO(item)
	}

	return WorkItemListResponse{
		WorkItems:  dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
