package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerAccounts(api *gin.RouterGroup) {
	api.GET("/payables", h.listPayables)
	api.POST("/payables", h.createPayable)
	api.GET("/payables/:id", h.getPayable)
	api.PATCH("/payables/:id", h.updatePayable)
	api.DELETE("/payables/:id", h.deletePayable)
	api.POST("/payables/:id/transition", h.transitionPayable)

	api.GET("/receivables", h.listReceivables)
	api.POST("/receivables", h.createReceivable)
	api.GET("/receivables/:id", h.getReceivable)
	api.PATCH("/receivables/:id", h.updateReceivable)
	api.DELETE("/receivables/:id", h.deleteReceivable)
	api.POST("/receivables/:id/transition", h.transitionReceivable)

	api.POST("/accounts/mark-overdue", h.markOverdue)
}

type accountRequest struct {
	Description  string         `json:"description" binding:"required"`
	Amount       finance.Number `json:"amount"`
	DueDate      string         `json:"dueDate" binding:"required"`
	Category     string         `json:"category"`
	PartyID      string         `json:"partyId"`
	OrderID      string         `json:"orderId"`
	Installments finance.Number `json:"installments"`
	Notes        string         `json:"notes"`
}

func (r accountRequest) input() (service.AccountInput, error) {
	due, err := parseDate(r.DueDate)
	if err != nil {
		return service.AccountInput{}, err
	}
	partyID, err := optionalUUID(r.PartyID)
	if err != nil {
		return service.AccountInput{}, err
	}
	orderID, err := optionalUUID(r.OrderID)
	if err != nil {
		return service.AccountInput{}, err
	}
	return service.AccountInput{
		Description:  r.Description,
		Amount:       r.Amount.Float(),
		DueDate:      due,
		Category:     r.Category,
		PartyID:      partyID,
		OrderID:      orderID,
		Installments: r.Installments.Int(),
		Notes:        r.Notes,
	}, nil
}

type accountUpdateRequest struct {
	Description *string         `json:"description"`
	Amount      *finance.Number `json:"amount"`
	DueDate     *string         `json:"dueDate"`
	Category    *string         `json:"category"`
	Notes       *string         `json:"notes"`
}

func (r accountUpdateRequest) input() (service.AccountUpdateInput, error) {
	input := service.AccountUpdateInput{
		Description: r.Description,
		Amount:      optionalFloat(r.Amount),
		Category:    r.Category,
		Notes:       r.Notes,
	}
	if r.DueDate != nil {
		due, err := parseDate(*r.DueDate)
		if err != nil {
			return input, err
		}
		input.DueDate = &due
	}
	return input, nil
}

func (h *Handler) accountFilter(c *gin.Context) (service.AccountFilter, error) {
	filter := service.AccountFilter{Status: c.Query("status"), Page: pageFromQuery(c)}
	var err error
	if filter.DueFrom, err = optionalDate(c.Query("from")); err != nil {
		return filter, err
	}
	if filter.DueTo, err = optionalDate(c.Query("to")); err != nil {
		return filter, err
	}
	if filter.ParentID, err = optionalUUID(c.Query("parentId")); err != nil {
		return filter, err
	}
	if filter.PartyID, err = optionalUUID(c.Query("partyId")); err != nil {
		return filter, err
	}
	if filter.OrderID, err = optionalUUID(c.Query("orderId")); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) listPayables(c *gin.Context) {
	filter, err := h.accountFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Accounts.ListPayables(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createPayable(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req accountRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Accounts.CreatePayable(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rows})
}

func (h *Handler) getPayable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.svc.Accounts.GetPayable(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) updatePayable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req accountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	row, err := h.svc.Accounts.UpdatePayable(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) deletePayable(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Accounts.DeletePayable(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionPayable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}
	on, err := optionalDate(req.Date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	row, err := h.svc.Accounts.TransitionPayable(c.Request.Context(), id, model.PayableStatus(req.Status), on)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) listReceivables(c *gin.Context) {
	filter, err := h.accountFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Accounts.ListReceivables(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createReceivable(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req accountRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Accounts.CreateReceivable(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rows})
}

func (h *Handler) getReceivable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.svc.Accounts.GetReceivable(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) updateReceivable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req accountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	row, err := h.svc.Accounts.UpdateReceivable(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) deleteReceivable(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Accounts.DeleteReceivable(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionReceivable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}
	on, err := optionalDate(req.Date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	row, err := h.svc.Accounts.TransitionReceivable(c.Request.Context(), id, model.ReceivableStatus(req.Status), on)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

type asOfRequest struct {
	AsOf string `json:"asOf"`
}

func (r asOfRequest) date() (time.Time, error) {
	asOf, err := optionalDate(r.AsOf)
	if err != nil || asOf == nil {
		return time.Time{}, err
	}
	return *asOf, nil
}

func (h *Handler) markOverdue(c *gin.Context) {
	var req asOfRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	asOf, err := req.date()
	if err != nil {
		h.handleError(c, err)
		return
	}
	result, err := h.svc.Accounts.MarkOverdue(c.Request.Context(), asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
