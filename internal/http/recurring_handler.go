package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerRecurring(api *gin.RouterGroup) {
	api.GET("/recurring-expenses", h.listRecurring)
	api.POST("/recurring-expenses", h.createRecurring)
	api.POST("/recurring-expenses/generate", h.generateRecurring)
	api.GET("/recurring-expenses/:id", h.getRecurring)
	api.PUT("/recurring-expenses/:id", h.updateRecurring)
	api.DELETE("/recurring-expenses/:id", h.deleteRecurring)
}

type recurringRequest struct {
	Description string         `json:"description" binding:"required"`
	Amount      finance.Number `json:"amount"`
	SupplierID  string         `json:"supplierId"`
	Category    string         `json:"category"`
	DayOfMonth  int            `json:"dayOfMonth" binding:"min=1,max=31"`
	StartDate   string         `json:"startDate" binding:"required"`
	EndDate     string         `json:"endDate"`
	Active      *bool          `json:"active"`
}

func (r recurringRequest) input() (service.RecurringInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.RecurringInput{}, err
	}
	end, err := optionalDate(r.EndDate)
	if err != nil {
		return service.RecurringInput{}, err
	}
	supplierID, err := optionalUUID(r.SupplierID)
	if err != nil {
		return service.RecurringInput{}, err
	}
	return service.RecurringInput{
		Description: r.Description,
		Amount:      r.Amount.Float(),
		SupplierID:  supplierID,
		Category:    r.Category,
		DayOfMonth:  r.DayOfMonth,
		StartDate:   start,
		EndDate:     end,
		Active:      r.Active,
	}, nil
}

func (h *Handler) listRecurring(c *gin.Context) {
	rows, err := h.svc.Recurring.List(c.Request.Context(), c.Query("active") == "true", pageFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createRecurring(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req recurringRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	expense, err := h.svc.Recurring.Create(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) getRecurring(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	expense, err := h.svc.Recurring.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *Handler) updateRecurring(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req recurringRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	expense, err := h.svc.Recurring.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *Handler) deleteRecurring(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Recurring.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) generateRecurring(c *gin.Context) {
	var req asOfRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	asOf, err := req.date()
	if err != nil {
		h.handleError(c, err)
		return
	}
	result, err := h.svc.Recurring.Generate(c.Request.Context(), asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
