package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerReports(api *gin.RouterGroup) {
	api.GET("/reports/dashboard", h.dashboard)
	api.GET("/reports/accounts.xlsx", h.exportAccounts)
	api.GET("/calendar", h.calendar)
}

// dateRange reads from/to query params. Missing bounds stay zero.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return from, to, err
		}
		to = parsed
	}
	return from, to, nil
}

func (h *Handler) dashboard(c *gin.Context) {
	summary, err := h.svc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) calendar(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	events, err := h.svc.Reports.Calendar(c.Request.Context(), from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *Handler) exportAccounts(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	file, err := h.svc.Reports.ExportAccounts(c.Request.Context(), from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, file)
}
