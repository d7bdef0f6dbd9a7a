package handlers

import (
	"github.com/gin-gonic/gin"

	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/infrastructure/http/v1/dto"
)

// ReceivableHandler serves credit-sale receivables and their collections.
type ReceivableHandler struct {
	*BaseHandler
	sales *sale.Service
}

// NewReceivableHandler creates a new receivable handler.
func NewReceivableHandler(base *BaseHandler, sales *sale.Service) *ReceivableHandler {
	return &ReceivableHandler{BaseHandler: base, sales: sales}
}

// Outstanding handles GET /sales/receivable: credit sales still owed, oldest first.
func (h *ReceivableHandler) Outstanding(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.sales.Outstanding(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Collect handles POST /sales/receivable.
func (h *ReceivableHandler) Collect(c *gin.Context) {
	var req dto.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	col := req.ToDomain()
	if err := h.sales.Collect(c.Request.Context(), col); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, col)
}

// Collections handles GET /sales/receivable/collections; counterpartyId filters by sale.
func (h *ReceivableHandler) Collections(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.sales.ListCollections(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /sales/receivable/:id.
func (h *ReceivableHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	col, err := h.sales.GetCollection(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, col)
}

// Delete handles DELETE /sales/receivable/:id and restores the sale's payable.
func (h *ReceivableHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.sales.DeleteCollection(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the receivable routes.
func (h *ReceivableHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Outstanding)
	rg.POST("", h.Collect)
	rg.GET("/collections", h.Collections)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
