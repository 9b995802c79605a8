package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestao-erp/erp-service/internal/finance"
	"github.com/gestao-erp/erp-service/internal/service"
)

func (h *Handler) registerCatalog(api *gin.RouterGroup) {
	api.GET("/customers", h.listCustomers)
	api.POST("/customers", h.createCustomer)
	api.GET("/customers/:id", h.getCustomer)
	api.PUT("/customers/:id", h.updateCustomer)
	api.DELETE("/customers/:id", h.deleteCustomer)

	api.GET("/suppliers", h.listSuppliers)
	api.POST("/suppliers", h.createSupplier)
	api.GET("/suppliers/:id", h.getSupplier)
	api.PUT("/suppliers/:id", h.updateSupplier)
	api.DELETE("/suppliers/:id", h.deleteSupplier)

	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)
	api.GET("/products/:id", h.getProduct)
	api.PUT("/products/:id", h.updateProduct)
	api.DELETE("/products/:id", h.deleteProduct)
}

type partyRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state" binding:"omitempty,uf"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

func (r partyRequest) input() service.PartyInput {
	return service.PartyInput{
		Name:     r.Name,
		Document: r.Document,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Category: r.Category,
		Notes:    r.Notes,
	}
}

type productRequest struct {
	Name        string         `json:"name" binding:"required"`
	SKU         string         `json:"sku"`
	Description string         `json:"description"`
	UnitPrice   finance.Number `json:"unitPrice"`
	CostPrice   finance.Number `json:"costPrice"`
	Unit        string         `json:"unit"`
	Active      *bool          `json:"active"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		UnitPrice:   r.UnitPrice.Float(),
		CostPrice:   r.CostPrice.Float(),
		Unit:        r.Unit,
		Active:      r.Active,
	}
}

func (h *Handler) listCustomers(c *gin.Context) {
	rows, err := h.svc.Catalog.ListCustomers(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createCustomer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req partyRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.svc.Catalog.CreateCustomer(c.Request.Context(), p, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.svc.Catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req partyRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.svc.Catalog.UpdateCustomer(c.Request.Context(), id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Catalog.DeleteCustomer(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	rows, err := h.svc.Catalog.ListSuppliers(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req partyRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.svc.Catalog.CreateSupplier(c.Request.Context(), p, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.svc.Catalog.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req partyRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.svc.Catalog.UpdateSupplier(c.Request.Context(), id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Catalog.DeleteSupplier(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	rows, err := h.svc.Catalog.ListProducts(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) createProduct(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.svc.Catalog.CreateProduct(c.Request.Context(), p, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Catalog.DeleteProduct(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
