package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerTasks(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	tasks.GET("", h.listTasks)
	tasks.POST("", h.createTask)
	tasks.GET("/board", h.taskBoard)
	tasks.GET("/:id", h.getTask)
	tasks.PUT("/:id", h.updateTask)
	tasks.DELETE("/:id", h.deleteTask)
	tasks.POST("/:id/transition", h.transitionTask)
}

type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"`
}

func (r taskRequest) input() (service.TaskInput, error) {
	projectID, err := optionalUUID(r.ProjectID)
	if err != nil {
		return service.TaskInput{}, err
	}
	due, err := optionalDate(r.DueDate)
	if err != nil {
		return service.TaskInput{}, err
	}
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		ProjectID:   projectID,
		Assignee:    r.Assignee,
		Priority:    model.TaskPriority(r.Priority),
		DueDate:     due,
	}, nil
}

func (h *Handler) listTasks(c *gin.Context) {
	projectID, err := optionalUUID(c.Query("projectId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Tasks.List(c.Request.Context(), service.TaskFilter{
		Status:    model.TaskStatus(c.Query("status")),
		ProjectID: projectID,
		Assignee:  c.Query("assignee"),
		Page:      pageFromQuery(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) taskBoard(c *gin.Context) {
	projectID, err := optionalUUID(c.Query("projectId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	columns, err := h.svc.Tasks.Board(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *Handler) createTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	task, err := h.svc.Tasks.Create(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) getTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.svc.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	task, err := h.svc.Tasks.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) deleteTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Tasks.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.svc.Tasks.Transition(c.Request.Context(), id, model.TaskStatus(req.Status), req.Position)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
