package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerProjects(api *gin.RouterGroup) {
	projects := api.Group("/projects")
	projects.GET("", h.listProjects)
	projects.POST("", h.createProject)
	projects.GET("/:id", h.getProject)
	projects.PUT("/:id", h.updateProject)
	projects.DELETE("/:id", h.deleteProject)
	projects.POST("/:id/transition", h.transitionProject)
	projects.POST("/:id/checklist", h.addChecklistItem)
	projects.PATCH("/:id/checklist/:itemId", h.setChecklistItem)
	projects.DELETE("/:id/checklist/:itemId", h.removeChecklistItem)
}

type projectRequest struct {
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	CustomerID   string         `json:"customerId"`
	Progress     int            `json:"progress"`
	AutoProgress bool           `json:"autoProgress"`
	StartDate    string         `json:"startDate"`
	DueDate      string         `json:"dueDate"`
	Value        finance.Number `json:"value"`
	Checklist    []string       `json:"checklist"`
}

func (r projectRequest) input() (service.ProjectInput, error) {
	customerID, err := optionalUUID(r.CustomerID)
	if err != nil {
		return service.ProjectInput{}, err
	}
	start, err := optionalDate(r.StartDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	due, err := optionalDate(r.DueDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		Name:         r.Name,
		Description:  r.Description,
		CustomerID:   customerID,
		Progress:     r.Progress,
		AutoProgress: r.AutoProgress,
		StartDate:    start,
		DueDate:      due,
		Value:        r.Value.Float(),
		Checklist:    r.Checklist,
	}, nil
}

func (h *Handler) listProjects(c *gin.Context) {
	customerID, err := optionalUUID(c.Query("customerId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Projects.List(c.Request.Context(), service.ProjectFilter{
		Status:     model.ProjectStatus(c.Query("status")),
		CustomerID: customerID,
		Page:       pageFromQuery(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	project, err := h.svc.Projects.Create(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.svc.Projects.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) updateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	project, err := h.svc.Projects.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) deleteProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Projects.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.svc.Projects.Transition(c.Request.Context(), id, model.ProjectStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type checklistItemRequest struct {
	Title string `json:"title" binding:"required"`
}

type checklistDoneRequest struct {
	Done *bool `json:"done" binding:"required"`
}

func (h *Handler) addChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req checklistItemRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.svc.Projects.AddChecklistItem(c.Request.Context(), id, req.Title)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) setChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req checklistDoneRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.svc.Projects.SetChecklistItem(c.Request.Context(), id, itemID, *req.Done)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) removeChecklistItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	project, err := h.svc.Projects.RemoveChecklistItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
