package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusProject     ProjectStatus = "project"
	ProjectStatusDevelopment ProjectStatus = "development"
	ProjectStatusDesign      ProjectStatus = "design"
	ProjectStatusReview      ProjectStatus = "review"
	ProjectStatusLaunched    ProjectStatus = "launched"
	ProjectStatusCancelled   ProjectStatus = "cancelled"
)

type Project struct {
	Base
	Name         string          `gorm:"size:200;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customerId,omitempty"`
	BudgetID     *uuid.UUID      `gorm:"type:uuid;index" json:"budgetId,omitempty"`
	Status       ProjectStatus   `gorm:"size:16;not null;index" json:"status"`
	Progress     int             `gorm:"not null" json:"progress"`
	AutoProgress bool            `gorm:"not null" json:"autoProgress"`
	StartDate    *time.Time      `gorm:"type:date" json:"startDate,omitempty"`
	DueDate      *time.Time      `gorm:"type:date" json:"dueDate,omitempty"`
	Value        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"value"`
	Checklist    []ChecklistItem `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"checklist"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;not null" json:"createdBy"`
}

type ChecklistItem struct {
	Base
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Done      bool      `gorm:"not null" json:"done"`
	Position  int       `gorm:"not null" json:"position"`
}

// ChecklistProgress is the rounded percentage of done items, and false when the
// checklist is empty.
func ChecklistProgress(items []ChecklistItem) (int, bool) {
	if len(items) == 0 {
		return 0, false
	}
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	return (done*200 + len(items)) / (2 * len(items)), true
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	Base
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ProjectID   *uuid.UUID   `gorm:"type:uuid;index" json:"projectId,omitempty"`
	Assignee    string       `gorm:"size:120" json:"assignee"`
	Priority    TaskPriority `gorm:"size:8;not null" json:"priority"`
	Status      TaskStatus   `gorm:"size:16;not null;index" json:"status"`
	DueDate     *time.Time   `gorm:"type:date" json:"dueDate,omitempty"`
	Position    int          `gorm:"not null" json:"position"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null" json:"createdBy"`
}
