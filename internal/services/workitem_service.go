package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/work-assignment-api/internal/calendar"
	"github.com/yukikurage/work-assignment-api/internal/constants"
	"github.com/yukikurage/work-assignment-api/internal/models"
	"github.com/yukikurage/work-assignment-api/internal/notify"
	"github.com/yukikurage/work-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkItemNotFound = errors.New("work item not found")
	ErrWorkerNotFound   = errors.New("worker not found")

	ErrAdminRequired   = errors.New("only an administrator can perform this action")
	ErrNotItemAssignee = errors.New("only the assigned worker or an administrator can perform this action")

	ErrInvalidItemState = errors.New("work item is not in a state that allows this transition")

	ErrWorkerInactive       = errors.New("worker account is not active")
	ErrTaskRequired         = errors.New("task is required")
	ErrTaskTooLong          = errors.New("task exceeds the maximum length")
	ErrInstructionsRequired = errors.New("instructions are required")
	ErrDeadlineRequired     = errors.New("deadline is required")
	ErrExplanationRequired  = errors.New("explanation is required")
	ErrReviewNotesRequired  = errors.New("review notes are required")
	ErrInvalidWorkLink      = errors.New("work link must be an absolute http(s) URL")
	ErrInvalidStatus        = errors.New("invalid work item status")
)

// sideEffectTimeout bounds each notification/calendar dispatch so a slow
// external service cannot hold up the transition response.
const sideEffectTimeout = 5 * time.Second

// WorkItemService drives the work item lifecycle. Every transition checks, in
// order: existence of referenced entities, authorization, the current-state
// precondition, then field validation. Nothing is written until all four pass,
// and the single-row save is the atomic unit. Notification and calendar side
// effects run only after the save and never fail a transition; their outcome
// is reported as an advisory flag.
type WorkItemService struct {
	itemRepo repository.WorkItemRepository
	userRepo repository.UserRepository
	notifier notify.Notifier
	calendar calendar.Calendar
}

// NewWorkItemService creates a new WorkItemService. The notification and
// calendar ports are injected; pass the no-op implementations when the
// integrations are not configured.
func NewWorkItemService(
	itemRepo repository.WorkItemRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	cal calendar.Calendar,
) *WorkItemService {
	return &WorkItemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		notifier: notifier,
		calendar: cal,
	}
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AssignInput represents input for assigning a new work item
type AssignInput struct {
	Actor        Actor
	WorkerID     uint64
	Task         string
	Description  string
	Instructions string
	Deadline     time.Time
}

// CompleteInput represents input for submitting completed work
type CompleteInput struct {
	Actor       Actor
	ItemID      uint64
	Explanation string
	WorkLink    *string
}

// ApproveInput represents input for approving a submission
type ApproveInput struct {
	Actor       Actor
	ItemID      uint64
	ReviewNotes *string
}

// RejectInput represents input for rejecting a submission
type RejectInput struct {
	Actor       Actor
	ItemID      uint64
	ReviewNotes string
}

// EditInput represents an admin edit of allow-listed fields. Submission and
// review fields are deliberately absent; they only change through their
// transitions.
type EditInput struct {
	Actor        Actor
	ItemID       uint64
	Task         *string
	Description  *string
	Instructions *string
	Deadline     *time.Time
	Status       *models.WorkItemStatus
	WorkerID     *uint64
}

// ListInput represents filters for listing work items
type ListInput struct {
	Actor    Actor
	Status   *models.WorkItemStatus
	WorkerID *uint64
	Page     int
	PageSize int
}

func (s *WorkItemService) reload(id uint64) (*models.WorkItem, error) {
	item, err := s.itemRepo.FindByID(id, "Worker", "AssignedBy", "ReviewedBy")
	if err != nil {
		return nil, fmt.Errorf("failed to reload work item: %w", err)
	}
	return item, nil
}

// Assign creates a new pending work item for a worker. Returns the created
// item and whether the worker notification was delivered.
func (s *WorkItemService) Assign(input AssignInput) (*models.WorkItem, bool, error) {
	worker, err := s.userRepo.FindByID(input.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrWorkerNotFound
		}
		return nil, false, fmt.Errorf("failed to find worker: %w", err)
	}

	if !input.Actor.IsAdmin() {
		return nil, false, ErrAdminRequired
	}

	if !worker.IsActive {
		return nil, false, ErrWorkerInactive
	}
	task := strings.TrimSpace(input.Task)
	if task == "" {
		return nil, false, ErrTaskRequired
	}
	if len(task) > constants.MaxTaskLength {
		return nil, false, ErrTaskTooLong
	}
	if strings.TrimSpace(input.Instructions) == "" {
		return nil, false, ErrInstructionsRequired
	}
	if input.Deadline.IsZero() {
		return nil, false, ErrDeadlineRequired
	}

	item := &models.WorkItem{
		WorkerID:     worker.ID,
		Task:         task,
		Description:  strings.TrimSpace(input.Description),
		Instructions: strings.TrimSpace(input.Instructions),
		Deadline:     input.Deadline,
		Status:       models.StatusPending,
		AssignedAt:   time.Now(),
		AssignedByID: input.Actor.ID,
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, false, fmt.Errorf("failed to create work item: %w", err)
	}

	notified := s.dispatchNotification(worker.Email,
		fmt.Sprintf("New work item: %s", item.Task),
		fmt.Sprintf("You have been assigned %q.\n\nInstructions: %s\nDeadline: %s\n",
			item.Task, item.Instructions, item.Deadline.Format(time.RFC1123)))
	s.dispatchCalendarEvent(worker, item)

	created, err := s.reload(item.ID)
	if err != nil {
		return nil, notified, err
	}

	return created, notified, nil
}

// Complete submits completed work, moving the item from pending or rejected
// into submitted. Returns the updated item and whether the admin notifications
// were all delivered.
func (s *WorkItemService) Complete(input CompleteInput) (*models.WorkItem, bool, error) {
	item, err := s.itemRepo.FindByID(input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrWorkItemNotFound
		}
		return nil, false, fmt.Errorf("failed to find work item: %w", err)
	}

	if !input.Actor.IsAdmin() && item.WorkerID != input.Actor.ID {
		return nil, false, ErrNotItemAssignee
	}

	// approved is terminal; submitted must be reviewed first
	if item.Status != models.StatusPending && item.Status != models.StatusRejected {
		return nil, false, ErrInvalidItemState
	}

	explanation := strings.TrimSpace(input.Explanation)
	if explanation == "" {
		return nil, false, ErrExplanationRequired
	}
	workLink, err := normalizeWorkLink(input.WorkLink)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	item.Status = models.StatusSubmitted
	item.SubmittedAt = &now
	item.Explanation = &explanation
	item.WorkLink = workLink

	if err := s.itemRepo.Update(item); err != nil {
		return nil, false, fmt.Errorf("failed to update work item: %w", err)
	}

	notified := s.notifyAdmins(
		fmt.Sprintf("Work submitted: %s", item.Task),
		fmt.Sprintf("Work item %q has been submitted for review.\n\nExplanation: %s\n",
			item.Task, explanation))

	updated, err := s.reload(item.ID)
	if err != nil {
		return nil, notified, err
	}

	return updated, notified, nil
}

// Approve marks a submitted item as approved and records the reviewer.
func (s *WorkItemService) Approve(input ApproveInput) (*models.WorkItem, bool, error) {
	item, err := s.itemRepo.FindByID(input.ItemID, "Worker")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrWorkItemNotFound
		}
		return nil, false, fmt.Errorf("failed to find work item: %w", err)
	}

	if !input.Actor.IsAdmin() {
		return nil, false, ErrAdminRequired
	}

	if item.Status != models.StatusSubmitted {
		return nil, false, ErrInvalidItemState
	}

	now := time.Now()
	reviewerID := input.Actor.ID
	item.Status = models.StatusApproved
	item.ReviewedAt = &now
	item.ReviewedByID = &reviewerID
	if input.ReviewNotes != nil {
		notes := strings.TrimSpace(*input.ReviewNotes)
		if notes != "" {
			item.ReviewNotes = &notes
		}
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, false, fmt.Errorf("failed to update work item: %w", err)
	}

	notified := s.dispatchNotification(item.Worker.Email,
		fmt.Sprintf("Work approved: %s", item.Task),
		fmt.Sprintf("Your submission for %q has been approved.\n", item.Task))

	updated, err := s.reload(item.ID)
	if err != nil {
		return nil, notified, err
	}

	return updated, notified, nil
}

// Reject sends a submitted item back to the worker. The submission fields are
// cleared together so a rejected item never carries stale submission state.
func (s *WorkItemService) Reject(input RejectInput) (*models.WorkItem, bool, error) {
	item, err := s.itemRepo.FindByID(input.ItemID, "Worker")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrWorkItemNotFound
		}
		return nil, false, fmt.Errorf("failed to find work item: %w", err)
	}

	if !input.Actor.IsAdmin() {
		return nil, false, ErrAdminRequired
	}

	if item.Status != models.StatusSubmitted {
		return nil, false, ErrInvalidItemState
	}

	notes := strings.TrimSpace(input.ReviewNotes)
	if len(notes) < constants.MinReviewNotesLength {
		return nil, false, ErrReviewNotesRequired
	}

	now := time.Now()
	reviewerID := input.Actor.ID
	item.Status = models.StatusRejected
	item.ReviewedAt = &now
	item.ReviewedByID = &reviewerID
	item.ReviewNotes = &notes
	item.SubmittedAt = nil
	item.Explanation = nil
	item.WorkLink = nil

	if err := s.itemRepo.Update(item); err != nil {
		return nil, false, fmt.Errorf("failed to update work item: %w", err)
	}

	notified := s.dispatchNotification(item.Worker.Email,
		fmt.Sprintf("Work rejected: %s", item.Task),
		fmt.Sprintf("Your submission for %q was rejected.\n\nReview notes: %s\n", item.Task, notes))

	updated, err := s.reload(item.ID)
	if err != nil {
		return nil, notified, err
	}

	return updated, notified, nil
}

// Edit applies an admin edit of allow-listed fields.
func (s *WorkItemService) Edit(input EditInput) (*models.WorkItem, error) {
	item, err := s.itemRepo.FindByID(input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("failed to find work item: %w", err)
	}

	if !input.Actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	if input.Task != nil {
		task := strings.TrimSpace(*input.Task)
		if task == "" {
			return nil, ErrTaskRequired
		}
		if len(task) > constants.MaxTaskLength {
			return nil, ErrTaskTooLong
		}
		item.Task = task
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Instructions != nil {
		instructions := strings.TrimSpace(*input.Instructions)
		if instructions == "" {
			return nil, ErrInstructionsRequired
		}
		item.Instructions = instructions
	}
	if input.Deadline != nil {
		if input.Deadline.IsZero() {
			return nil, ErrDeadlineRequired
		}
		item.Deadline = *input.Deadline
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		item.Status = *input.Status
	}
	if input.WorkerID != nil {
		worker, err := s.userRepo.FindByID(*input.WorkerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrWorkerNotFound
			}
			return nil, fmt.Errorf("failed to find worker: %w", err)
		}
		if !worker.IsActive {
			return nil, ErrWorkerInactive
		}
		item.WorkerID = worker.ID
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update work item: %w", err)
	}

	return s.reload(item.ID)
}

// Delete hard deletes a work item.
func (s *WorkItemService) Delete(itemID uint64, actor Actor) error {
	if _, err := s.itemRepo.FindByID(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkItemNotFound
		}
		return fmt.Errorf("failed to find work item: %w", err)
	}

	if !actor.IsAdmin() {
		return ErrAdminRequired
	}

	if err := s.itemRepo.Delete(itemID); err != nil {
		return fmt.Errorf("failed to delete work item: %w", err)
	}

	return nil
}

// Get returns a single work item. A worker may only read their own items.
func (s *WorkItemService) Get(itemID uint64, actor Actor) (*models.WorkItem, error) {
	item, err := s.itemRepo.FindByID(itemID, "Worker", "AssignedBy", "ReviewedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkItemNotFound
		}
		return nil, fmt.Errorf("failed to find work item: %w", err)
	}

	if !actor.IsAdmin() && item.WorkerID != actor.ID {
		return nil, ErrNotItemAssignee
	}

	return item, nil
}

// List returns work items visible to the actor: admins see everything subject
// to the filters, workers see only their own items.
func (s *WorkItemService) List(input ListInput) ([]models.WorkItem, int64, error) {
	filter := repository.WorkItemFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Actor.IsAdmin() {
		filter.WorkerID = input.WorkerID
	} else {
		workerID := input.Actor.ID
		filter.WorkerID = &workerID
	}

	items, total, err := s.itemRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work items: %w", err)
	}

	return items, total, nil
}

// ListSubmitted returns all items awaiting review. Admin only.
func (s *WorkItemService) ListSubmitted(actor Actor, page, pageSize int) ([]models.WorkItem, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrAdminRequired
	}

	status := models.StatusSubmitted
	items, total, err := s.itemRepo.List(repository.WorkItemFilter{
		Status:   &status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submitted work items: %w", err)
	}

	return items, total, nil
}

// Stats returns item counts by status. Admin only.
func (s *WorkItemService) Stats(actor Actor) (map[models.WorkItemStatus]int64, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	counts, err := s.itemRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count work items: %w", err)
	}

	return counts, nil
}

// normalizeWorkLink validates an optional work link. Empty and nil are both
// treated as absent.
func normalizeWorkLink(link *string) (*string, error) {
	if link == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*link)
	if trimmed == "" {
		return nil, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, ErrInvalidWorkLink
	}

	return &trimmed, nil
}

func (s *WorkItemService) dispatchNotification(to, subject, body string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, to, subject, body); err != nil {
		log.Printf("[NOTIFY] send failed to=%s: %v", to, err)
		return false
	}
	return true
}

// notifyAdmins sends to every active admin; the advisory flag is true only if
// every delivery succeeded.
func (s *WorkItemService) notifyAdmins(subject, body string) bool {
	role := models.RoleAdmin
	active := true
	admins, err := s.userRepo.List(repository.UserFilter{Role: &role, IsActive: &active})
	if err != nil {
		log.Printf("[NOTIFY] failed to list admins: %v", err)
		return false
	}

	allSent := true
	for _, admin := range admins {
		if !s.dispatchNotification(admin.Email, subject, body) {
			allSent = false
		}
	}
	return allSent
}

func (s *WorkItemService) dispatchCalendarEvent(user *models.User, item *models.WorkItem) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.calendar.CreateEvent(ctx, user, item); err != nil {
		log.Printf("[CALENDAR] event creation failed user=%d item=%d: %v", user.ID, item.ID, err)
	}
}
