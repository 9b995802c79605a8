package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerOrders(api *gin.RouterGroup) {
	api.GET("/orders", h.listOrders)
	api.POST("/orders", h.createOrder)
	api.GET("/orders/:id", h.getOrder)
	api.PATCH("/orders/:id", h.updateOrder)
	api.DELETE("/orders/:id", h.deleteOrder)
	api.POST("/orders/:id/transition", h.transitionOrder)
}

type orderItemRequest struct {
	ProductID   string         `json:"productId"`
	Description string         `json:"description"`
	Quantity    finance.Number `json:"quantity"`
	UnitPrice   finance.Number `json:"unitPrice"`
}

type orderRequest struct {
	customerRequest
	Items        []orderItemRequest `json:"items" binding:"required,min=1"`
	Costs        *costsRequest      `json:"costs"`
	SimplesRate  *finance.Number    `json:"simplesRate"`
	FirstDueDate string             `json:"firstDueDate"`
	Notes        string             `json:"notes"`
}

func (r orderRequest) input() (service.OrderInput, error) {
	snapshot, err := r.snapshot()
	if err != nil {
		return service.OrderInput{}, err
	}
	firstDue, err := optionalDate(r.FirstDueDate)
	if err != nil {
		return service.OrderInput{}, err
	}
	input := service.OrderInput{
		Customer:     snapshot,
		SimplesRate:  optionalFloat(r.SimplesRate),
		FirstDueDate: firstDue,
		Notes:        r.Notes,
	}
	if r.Costs != nil {
		costs := r.Costs.inputs()
		input.Costs = &costs
	}
	for _, item := range r.Items {
		productID, err := optionalUUID(item.ProductID)
		if err != nil {
			return service.OrderInput{}, err
		}
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID:   productID,
			Description: item.Description,
			Quantity:    item.Quantity.Float(),
			UnitPrice:   item.UnitPrice.Float(),
		})
	}
	return input, nil
}

type orderUpdateRequest struct {
	FirstDueDate *string `json:"firstDueDate"`
	Notes        *string `json:"notes"`
}

func (h *Handler) listOrders(c *gin.Context) {
	customerID, err := optionalUUID(c.Query("customerId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Orders.List(c.Request.Context(), service.OrderFilter{
		Status:     model.OrderStatus(c.Query("status")),
		CustomerID: customerID,
		Page:       pageFromQuery(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req orderRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	order, err := h.svc.Orders.Create(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req orderUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	input := service.OrderUpdateInput{Notes: req.Notes}
	if req.FirstDueDate != nil {
		firstDue, err := parseDate(*req.FirstDueDate)
		if err != nil {
			h.handleError(c, err)
			return
		}
		input.FirstDueDate = &firstDue
	}
	order, err := h.svc.Orders.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Orders.Transition(c.Request.Context(), p, id, model.OrderStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
