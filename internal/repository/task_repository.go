package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestao-erp/erp-service/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskFilter struct {
	Status    model.TaskStatus
	ProjectID *uuid.UUID
	Assignee  string
	Page      Page
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.Task{}, id)
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Order("status ASC, position ASC, created_at ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Assignee != "" {
		q = q.Where("assignee = ?", filter.Assignee)
	}
	var tasks []model.Task
	if err := filter.Page.apply(q).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListBoard returns every task of a board, optionally scoped to one project.
func (r *TaskRepository) ListBoard(ctx context.Context, projectID *uuid.UUID) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Order("position ASC, created_at ASC")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// NextPosition is one past the last card in a column.
func (r *TaskRepository) NextPosition(ctx context.Context, status model.TaskStatus) (int, error) {
	var last sql.NullInt64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status = ?", status).
		Select("MAX(position)").
		Row().
		Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return 0, nil
	}
	return int(last.Int64) + 1, nil
}
