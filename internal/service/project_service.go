package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/repository"
	"github.com/gestao-erp/erp-service/internal/workflow"
)

type ProjectService struct {
	store *repository.Store
}

func NewProjectService(store *repository.Store) *ProjectService {
	return &ProjectService{store: store}
}

type ProjectInput struct {
	Name         string
	Description  string
	CustomerID   *uuid.UUID
	Progress     int
	AutoProgress bool
	StartDate    *time.Time
	DueDate      *time.Time
	Value        float64
	Checklist    []string
}

type ProjectFilter = repository.ProjectFilter

func (in ProjectInput) apply(project *model.Project) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	value := finance.Cents(in.Value)
	if value.IsNegative() {
		return fmt.Errorf("%w: value cannot be negative", ErrInvalidInput)
	}
	start, due := dateOnlyPtr(in.StartDate), dateOnlyPtr(in.DueDate)
	if start != nil && due != nil && due.Before(*start) {
		return fmt.Errorf("%w: due date is before start date", ErrInvalidInput)
	}

	project.Name = name
	project.Description = in.Description
	project.CustomerID = in.CustomerID
	project.AutoProgress = in.AutoProgress
	project.Progress = in.Progress
	project.StartDate = start
	project.DueDate = due
	project.Value = value
	return nil
}

func (s *ProjectService) Create(ctx context.Context, principal model.Principal, input ProjectInput) (*model.Project, error) {
	project := &model.Project{
		Status:    model.ProjectStatusProject,
		CreatedBy: principal.UserID,
	}
	if err := input.apply(project); err != nil {
		return nil, err
	}
	for _, title := range input.Checklist {
		if title = strings.TrimSpace(title); title != "" {
			project.Checklist = append(project.Checklist, model.ChecklistItem{Title: title, Position: len(project.Checklist)})
		}
	}
	refreshProgress(project)

	if err := s.store.Projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.store.Projects.Get(ctx, id)
	return project, translate(err)
}

func (s *ProjectService) List(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	if filter.Status != "" && !workflow.Project.Known(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	return s.store.Projects.List(ctx, filter)
}

// Update replaces the editable fields. The checklist is managed through its own
// operations and is ignored here.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input ProjectInput) (*model.Project, error) {
	project, err := s.store.Projects.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := input.apply(project); err != nil {
		return nil, err
	}
	refreshProgress(project)
	if err := s.store.Projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return translate(s.store.Projects.Delete(ctx, id))
}

func (s *ProjectService) Transition(ctx context.Context, id uuid.UUID, target model.ProjectStatus) (*model.Project, error) {
	project, err := s.store.Projects.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := workflow.Project.Check(project.Status, target); err != nil {
		return nil, translate(err)
	}
	if project.Status == target {
		return project, nil
	}
	project.Status = target
	if err := s.store.Projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) AddChecklistItem(ctx context.Context, projectID uuid.UUID, title string) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.updateChecklist(ctx, projectID, func(tx *repository.Store, project *model.Project) error {
		item := model.ChecklistItem{ProjectID: project.ID, Title: title, Position: nextChecklistPosition(project.Checklist)}
		if err := tx.Projects.AddChecklistItem(ctx, &item); err != nil {
			return err
		}
		project.Checklist = append(project.Checklist, item)
		return nil
	})
}

// SetChecklistItem marks one item done or not done.
func (s *ProjectService) SetChecklistItem(ctx context.Context, projectID, itemID uuid.UUID, done bool) (*model.Project, error) {
	return s.updateChecklist(ctx, projectID, func(tx *repository.Store, project *model.Project) error {
		item, err := tx.Projects.GetChecklistItem(ctx, projectID, itemID)
		if err != nil {
			return translate(err)
		}
		item.Done = done
		if err := tx.Projects.SaveChecklistItem(ctx, item); err != nil {
			return err
		}
		for i := range project.Checklist {
			if project.Checklist[i].ID == itemID {
				project.Checklist[i].Done = done
			}
		}
		return nil
	})
}

func (s *ProjectService) RemoveChecklistItem(ctx context.Context, projectID, itemID uuid.UUID) (*model.Project, error) {
	return s.updateChecklist(ctx, projectID, func(tx *repository.Store, project *model.Project) error {
		if err := tx.Projects.DeleteChecklistItem(ctx, projectID, itemID); err != nil {
			return translate(err)
		}
		kept := project.Checklist[:0]
		for _, item := range project.Checklist {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		project.Checklist = kept
		return nil
	})
}

// updateChecklist applies fn and recomputes the project's progress in the same
// transaction.
func (s *ProjectService) updateChecklist(ctx context.Context, projectID uuid.UUID, fn func(tx *repository.Store, project *model.Project) error) (*model.Project, error) {
	var result *model.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, err := tx.Projects.Get(ctx, projectID)
		if err != nil {
			return translate(err)
		}
		if err := fn(tx, project); err != nil {
			return err
		}
		refreshProgress(project)
		result = project
		return tx.Projects.Save(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshProgress derives progress from the checklist when the project asks for
// it, and otherwise keeps the supplied value within 0..100.
func refreshProgress(project *model.Project) {
	if project.AutoProgress {
		if progress, ok := model.ChecklistProgress(project.Checklist); ok {
			project.Progress = progress
			return
		}
	}
	project.Progress = min(max(project.Progress, 0), 100)
}

func nextChecklistPosition(items []model.ChecklistItem) int {
	next := 0
	for _, item := range items {
		if item.Position >= next {
			next = item.Position + 1
		}
	}
	return next
}
