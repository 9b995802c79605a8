package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/workflow"
)

type TaskService struct {
	store *repository.Store
}

func NewTaskService(store *repository.Store) *TaskService {
	return &TaskService{store: store}
}

type TaskInput struct {
	Title       string
	Description string
	ProjectID   *uuid.UUID
	Assignee    string
	Priority    model.TaskPriority
	DueDate     *time.Time
}

type TaskFilter = repository.TaskFilter

// BoardColumn is one kanban column with its cards in position order.
type BoardColumn struct {
	Status model.TaskStatus `json:"status"`
	Tasks  []model.Task     `json:"tasks"`
}

func (in TaskInput) apply(task *model.Task) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := in.Priority
	switch priority {
	case "":
		priority = model.TaskPriorityMedium
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	task.Title = title
	task.Description = in.Description
	task.ProjectID = in.ProjectID
	task.Assignee = strings.TrimSpace(in.Assignee)
	task.Priority = priority
	task.DueDate = dateOnlyPtr(in.DueDate)
	return nil
}

func (s *TaskService) Create(ctx context.Context, principal model.Principal, input TaskInput) (*model.Task, error) {
	task := &model.Task{Status: model.TaskStatusTodo, CreatedBy: principal.UserID}
	if err := input.apply(task); err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, task.ProjectID); err != nil {
		return nil, err
	}
	position, err := s.store.Tasks.NextPosition(ctx, task.Status)
	if err != nil {
		return nil, err
	}
	task.Position = position
	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) checkProject(ctx context.Context, projectID *uuid.UUID) error {
	if projectID == nil {
		return nil
	}
	if _, err := s.store.Projects.Get(ctx, *projectID); err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return fmt.Errorf("%w: project %s does not exist", ErrInvalidInput, projectID)
		}
		return err
	}
	return nil
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.store.Tasks.Get(ctx, id)
	return task, translate(err)
}

func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !workflow.Task.Known(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Tasks.List(ctx, filter)
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, input TaskInput) (*model.Task, error) {
	task, err := s.store.Tasks.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := input.apply(task); err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, task.ProjectID); err != nil {
		return nil, err
	}
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Tasks.Delete(ctx, id))
}

// Transition moves a card to another column. Without an explicit position the
// card goes to the end of the target column.
func (s *TaskService) Transition(ctx context.Context, id uuid.UUID, target model.TaskStatus, position *int) (*model.Task, error) {
	var result *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.Get(ctx, id)
		if err != nil {
			return translate(err)
		}
		if err := workflow.Task.Check(task.Status, target); err != nil {
			return translate(err)
		}
		result = task
		switch {
		case position != nil:
			task.Position = max(*position, 0)
		case task.Status != target:
			next, err := tx.Tasks.NextPosition(ctx, target)
			if err != nil {
				return err
			}
			task.Position = next
		default:
			return nil
		}
		task.Status = target
		return tx.Tasks.Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Board groups tasks into the kanban columns followed by the cancelled column.
func (s *TaskService) Board(ctx context.Context, projectID *uuid.UUID) ([]BoardColumn, error) {
	tasks, err := s.store.Tasks.ListBoard(ctx, projectID)
	if err != nil {
		return nil, err
	}
	statuses := append(append([]model.TaskStatus{}, workflow.TaskColumns...), model.TaskStatusCancelled)
	columns := make([]BoardColumn, len(statuses))
	index := make(map[model.TaskStatus]int, len(statuses))
	for i, status := range statuses {
		columns[i] = BoardColumn{Status: status, Tasks: []model.Task{}}
		index[status] = i
	}
	for _, task := range tasks {
		if i, ok := index[task.Status]; ok {
			columns[i].Tasks = append(columns[i].Tasks, task)
		}
	}
	return columns, nil
}
