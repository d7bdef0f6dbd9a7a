package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/infrastructure/http/v1/dto"
)

// TransactionHandler serves the journal. Manual entries are created, edited
// and deleted here; other transactions change only through their documents.
type TransactionHandler struct {
	*BaseHandler
	recorder *ledger.Recorder
	manual   *manual_entry.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, recorder *ledger.Recorder, manual *manual_entry.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, recorder: recorder, manual: manual}
}

// List handles GET /transactions: transactions with entries, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	var q dto.TransactionQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.recorder.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	t, err := h.recorder.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Create handles POST /transactions: records a manual entry and answers with
// its transaction.
func (h *TransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ManualEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToDomain(0)
	if err := h.manual.Create(ctx, m); err != nil {
		h.Error(c, err)
		return
	}
	h.respondRecorded(c, ctx, m)
}

// Update handles PUT /transactions/:id for manual entries. The entry is
// re-recorded, so the answer carries a new transaction ID.
func (h *TransactionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ManualEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entryID, err := h.manual.EntryID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	m := req.ToDomain(entryID)
	if err := h.manual.Update(ctx, m); err != nil {
		h.Error(c, err)
		return
	}
	h.respondRecorded(c, ctx, m)
}

// Delete handles DELETE /transactions/:id for manual entries.
func (h *TransactionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	entryID, err := h.manual.EntryID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.manual.Delete(ctx, entryID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TransactionHandler) respondRecorded(c *gin.Context, ctx context.Context, m *manual_entry.ManualEntry) {
	t, err := h.recorder.GetByReference(ctx, m.Reference())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// RegisterRoutes registers the journal routes.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
