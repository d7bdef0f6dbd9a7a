package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/domain"
	"bookkeeper/internal/infrastructure/http/v1/dto"
)

// DocumentService defines the interface that services must implement for DocumentHandler.
type DocumentService[T any] interface {
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// DocumentHandler provides generic HTTP handlers for posting documents.
// Create and update post immediately and answer 200 with the stored document.
type DocumentHandler[T any, Req any] struct {
	*BaseHandler
	service DocumentService[T]

	// toDomain builds the document from a request; id is zero on create
	toDomain func(req Req, id int64) T
}

// DocumentHandlerConfig configures the document handler.
type DocumentHandlerConfig[T any, Req any] struct {
	Service  DocumentService[T]
	ToDomain func(req Req, id int64) T
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler[T any, Req any](base *BaseHandler, cfg DocumentHandlerConfig[T, Req]) *DocumentHandler[T, Req] {
	return &DocumentHandler[T, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		toDomain:    cfg.ToDomain,
	}
}

// List handles GET /{entity}
func (h *DocumentHandler[T, Req]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /{entity}/:id
func (h *DocumentHandler[T, Req]) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /{entity}
func (h *DocumentHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.toDomain(req, 0)
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Update handles PUT /{entity}/:id
func (h *DocumentHandler[T, Req]) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.toDomain(req, id)
	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /{entity}/:id
func (h *DocumentHandler[T, Req]) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers standard routes.
func (h *DocumentHandler[T, Req]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
