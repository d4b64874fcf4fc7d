package repository

import (
	"github.com/yukikurage/work-assignment-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkItemRepository is a GORM implementation of WorkItemRepository
type GormWorkItemRepository struct {
	db *gorm.DB
}

// NewWorkItemRepository creates a new WorkItemRepository
func NewWorkItemRepository(db *gorm.DB) WorkItemRepository {
	return &GormWorkItemRepository{db: db}
}

// Create creates a new work item
func (r *GormWorkItemRepository) Create(item *models.WorkItem) error {
	return r.db.Omit(clause.Associations).Create(item).Error
}

// FindByID finds a work item by ID with optional preloading
func (r *GormWorkItemRepository) FindByID(id uint64, preload ...string) (*models.WorkItem, error) {
	var item models.WorkItem
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&item, id).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

func applyWorkItemFilter(query *gorm.DB, filter WorkItemFilter) *gorm.DB {
	if filter.WorkerID != nil {
		query = query.Where("work_items.worker_id = ?", *filter.WorkerID)
	}
	if filter.Status != nil {
		query = query.Where("work_items.status = ?", *filter.Status)
	}
	if filter.AssignedByID != nil {
		query = query.Where("work_items.assigned_by_id = ?", *filter.AssignedByID)
	}
	return query
}

// List retrieves work items with filtering and pagination, most recently
// assigned first
func (r *GormWorkItemRepository) List(filter WorkItemFilter) ([]models.WorkItem, int64, error) {
	var items []models.WorkItem

	query := applyWorkItemFilter(r.db.Model(&models.WorkItem{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("work_items.assigned_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Worker").Preload("AssignedBy").Preload("ReviewedBy").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Update persists the full item state. Associations are never written through
// an item save; the row write is the atomic unit of a transition.
func (r *GormWorkItemRepository) Update(item *models.WorkItem) error {
	return r.db.Omit(clause.Associations).Save(item).Error
}

// Delete hard deletes a work item
func (r *GormWorkItemRepository) Delete(id uint64) error {
	return r.db.Delete(&models.WorkItem{}, id).Error
}

// Count counts work items matching the filter
func (r *GormWorkItemRepository) Count(filter WorkItemFilter) (int64, error) {
	var count int64
	err := applyWorkItemFilter(r.db.Model(&models.WorkItem{}), filter).Count(&count).Error
	return count, err
}

// CountByStatus returns item counts grouped by status
func (r *GormWorkItemRepository) CountByStatus() (map[models.WorkItemStatus]int64, error) {
	type statusCount struct {
		Status models.WorkItemStatus
		Count  int64
	}

	var rows []statusCount
	err := r.db.Model(&models.WorkItem{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.WorkItemStatus]int64{
		models.StatusPending:   0,
		models.StatusSubmitted: 0,
		models.StatusApproved:  0,
		models.StatusRejected:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
