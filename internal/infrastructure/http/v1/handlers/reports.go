package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/domain/reports"
	"bookkeeper/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// periodReport serves a report computed over ?from=&to=.
func periodReport[R any](h *BaseHandler, build func(context.Context, reports.Period) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.PeriodQuery
		if !h.BindQuery(c, &q) {
			return
		}
		p, err := q.ToPeriod()
		if err != nil {
			h.Error(c, err)
			return
		}
		report, err := build(c.Request.Context(), p)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, report)
	}
}

// asOfReport serves a report computed at ?asOf=, today by default.
func asOfReport[R any](h *BaseHandler, build func(context.Context, *time.Time) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.AsOfQuery
		if !h.BindQuery(c, &q) {
			return
		}
		asOf, err := q.ToTime()
		if err != nil {
			h.Error(c, err)
			return
		}
		report, err := build(c.Request.Context(), asOf)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, report)
	}
}

// snapshotReport serves a report of current balances.
func snapshotReport[R any](h *BaseHandler, build func(context.Context) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := build(c.Request.Context())
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, report)
	}
}

// RegisterRoutes registers the report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/trial-balance", periodReport(h.BaseHandler, h.service.TrialBalance))
	rg.GET("/income-statement", periodReport(h.BaseHandler, h.service.IncomeStatement))
	rg.GET("/cash-flow", periodReport(h.BaseHandler, h.service.CashFlow))
	rg.GET("/sales", periodReport(h.BaseHandler, h.service.Sales))
	rg.GET("/expenses", periodReport(h.BaseHandler, h.service.Expenses))
	rg.GET("/balance-sheet", asOfReport(h.BaseHandler, h.service.BalanceSheet))
	rg.GET("/receivables", asOfReport(h.BaseHandler, h.service.Receivables))
	rg.GET("/inventory", snapshotReport(h.BaseHandler, h.service.Inventory))
	rg.GET("/payables", snapshotReport(h.BaseHandler, h.service.Payables))
}
