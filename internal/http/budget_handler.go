package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/model"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerBudgets(api *gin.RouterGroup) {
	api.POST("/budgets/preview", h.previewBudget)
	api.GET("/budgets", h.listBudgets)
	api.POST("/budgets", h.createBudget)
	api.GET("/budgets/:id", h.getBudget)
	api.PUT("/budgets/:id", h.updateBudget)
	api.DELETE("/budgets/:id", h.deleteBudget)
	api.POST("/budgets/:id/transition", h.transitionBudget)
	api.POST("/budgets/:id/convert/order", h.convertBudgetToOrder)
	api.POST("/budgets/:id/convert/project", h.convertBudgetToProject)
	api.GET("/budgets/:id/pdf", h.exportBudgetPDF)
}

// costsRequest takes every amount leniently. A laborCost sent by the client is
// not read; it is always hours times rate.
type costsRequest struct {
	LaborHours         finance.Number `json:"laborHours"`
	LaborRate          finance.Number `json:"laborRate"`
	MaterialCost       finance.Number `json:"materialCost"`
	ThirdPartyCost     finance.Number `json:"thirdPartyCost"`
	OtherDirectCosts   finance.Number `json:"otherDirectCosts"`
	IndirectCostsTotal finance.Number `json:"indirectCostsTotal"`
	ProfitMargin       finance.Number `json:"profitMargin"`
}

func (r costsRequest) inputs() finance.CostInputs {
	return finance.CostInputs{
		LaborHours:         r.LaborHours.Float(),
		LaborRate:          r.LaborRate.Float(),
		MaterialCost:       r.MaterialCost.Float(),
		ThirdPartyCost:     r.ThirdPartyCost.Float(),
		OtherDirectCosts:   r.OtherDirectCosts.Float(),
		IndirectCostsTotal: r.IndirectCostsTotal.Float(),
		ProfitMargin:       r.ProfitMargin.Float(),
	}
}

type customerRequest struct {
	CustomerID       string `json:"customerId"`
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	CustomerPhone    string `json:"customerPhone"`
	CustomerDocument string `json:"customerDocument"`
}

func (r customerRequest) snapshot() (service.CustomerSnapshot, error) {
	id, err := optionalUUID(r.CustomerID)
	if err != nil {
		return service.CustomerSnapshot{}, err
	}
	return service.CustomerSnapshot{
		CustomerID: id,
		Name:       r.CustomerName,
		Email:      r.CustomerEmail,
		Phone:      r.CustomerPhone,
		Document:   r.CustomerDocument,
	}, nil
}

type budgetRequest struct {
	customerRequest
	costsRequest
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CBSRate      *finance.Number `json:"cbsRate"`
	IBSRate      *finance.Number `json:"ibsRate"`
	IRPJRate     *finance.Number `json:"irpjRate"`
	CSLLRate     *finance.Number `json:"csllRate"`
	Installments finance.Number  `json:"installments"`
	ValidUntil   string          `json:"validUntil"`
}

func (r budgetRequest) input() (service.BudgetInput, error) {
	snapshot, err := r.snapshot()
	if err != nil {
		return service.BudgetInput{}, err
	}
	validUntil, err := optionalDate(r.ValidUntil)
	if err != nil {
		return service.BudgetInput{}, err
	}
	return service.BudgetInput{
		Customer:     snapshot,
		Title:        r.Title,
		Description:  r.Description,
		Costs:        r.inputs(),
		CBSRate:      optionalFloat(r.CBSRate),
		IBSRate:      optionalFloat(r.IBSRate),
		IRPJRate:     optionalFloat(r.IRPJRate),
		CSLLRate:     optionalFloat(r.CSLLRate),
		Installments: r.Installments.Int(),
		ValidUntil:   validUntil,
	}, nil
}

func optionalFloat(n *finance.Number) *float64 {
	if n == nil {
		return nil
	}
	v := n.Float()
	return &v
}

func (h *Handler) previewBudget(c *gin.Context) {
	var req budgetRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Budgets.Preview(service.BudgetInput{
		Costs:    req.inputs(),
		CBSRate:  optionalFloat(req.CBSRate),
		IBSRate:  optionalFloat(req.IBSRate),
		IRPJRate: optionalFloat(req.IRPJRate),
		CSLLRate: optionalFloat(req.CSLLRate),
	}))
}

func (h *Handler) listBudgets(c *gin.Context) {
	customerID, err := optionalUUID(c.Query("customerId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	rows, err := h.svc.Budgets.List(c.Request.Context(), service.BudgetFilter{
		Status:     model.BudgetStatus(c.Query("status")),
		CustomerID: customerID,
		Page:       pageFromQuery(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createBudget(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req budgetRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	budget, err := h.svc.Budgets.Create(c.Request.Context(), p, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *Handler) getBudget(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	budget, err := h.svc.Budgets.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *Handler) updateBudget(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req budgetRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.handleError(c, err)
		return
	}
	budget, err := h.svc.Budgets.Update(c.Request.Context(), p, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *Handler) deleteBudget(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Budgets.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transitionBudget(c *gin.Context) {
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
	budget, err := h.svc.Budgets.Transition(c.Request.Context(), p, id, model.BudgetStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *Handler) convertBudgetToOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Budgets.ConvertToOrder(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) convertBudgetToProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.svc.Budgets.ConvertToProject(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) exportBudgetPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	file, err := h.svc.Budgets.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypePDF, file)
}
