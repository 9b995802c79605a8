package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-erp/erp-service/internal/model"
)

func TestTaskCreateAppendsToTodoColumn(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	first, err := services.Tasks.Create(ctx, staff, TaskInput{Title: "Orçar material"})
	require.NoError(t, err)
	second, err := services.Tasks.Create(ctx, staff, TaskInput{Title: "Ligar para cliente", Priority: model.TaskPriorityHigh})
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusTodo, first.Status)
	assert.Equal(t, model.TaskPriorityMedium, first.Priority)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	_, err = services.Tasks.Create(ctx, staff, TaskInput{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uuid.New()
	_, err = services.Tasks.Create(ctx, staff, TaskInput{Title: "x", ProjectID: &missing})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskKanbanMoves(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	task, err := services.Tasks.Create(ctx, staff, TaskInput{Title: "Revisar contrato"})
	require.NoError(t, err)

	_, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusDone, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	task, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, task.Status)
	assert.Equal(t, 0, task.Position)

	task, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusInProgress, ptr(4))
	require.NoError(t, err)
	assert.Equal(t, 4, task.Position)

	task, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusTodo, nil)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, task.Status)

	task, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusCancelled, nil)
	require.NoError(t, err)
	_, err = services.Tasks.Transition(ctx, task.ID, model.TaskStatusTodo, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTaskBoardGroupsByColumn(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	project, err := services.Projects.Create(ctx, staff, ProjectInput{Name: "Obra"})
	require.NoError(t, err)

	a, err := services.Tasks.Create(ctx, staff, TaskInput{Title: "A", ProjectID: &project.ID})
	require.NoError(t, err)
	_, err = services.Tasks.Create(ctx, staff, TaskInput{Title: "B", ProjectID: &project.ID})
	require.NoError(t, err)
	_, err = services.Tasks.Create(ctx, staff, TaskInput{Title: "fora do projeto"})
	require.NoError(t, err)
	_, err = services.Tasks.Transition(ctx, a.ID, model.TaskStatusInProgress, nil)
	require.NoError(t, err)

	board, err := services.Tasks.Board(ctx, &project.ID)
	require.NoError(t, err)
	require.Len(t, board, 5)
	assert.Equal(t, model.TaskStatusTodo, board[0].Status)
	require.Len(t, board[0].Tasks, 1)
	assert.Equal(t, "B", board[0].Tasks[0].Title)
	require.Len(t, board[1].Tasks, 1)
	assert.Equal(t, "A", board[1].Tasks[0].Title)
	assert.Equal(t, model.TaskStatusCancelled, board[4].Status)
	assert.Empty(t, board[4].Tasks)
}
