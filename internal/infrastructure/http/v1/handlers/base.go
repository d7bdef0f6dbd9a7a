// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/idempotency"
	"bookkeeper/internal/infrastructure/http/v1/dto"
	"bookkeeper/pkg/logger"
)

// Gin context keys set by the idempotency middleware.
const (
	IdempotencyKeyCtx   = "idempotency_key"
	IdempotencyStoreCtx = "idempotency_store"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		appErr := apperror.NewValidation("invalid request body")
		if fields, ok := dto.FieldErrors(err); ok {
			appErr = appErr.WithDetail("fields", fields)
		} else {
			appErr = appErr.WithDetail("error", err.Error())
		}
		h.Error(c, appErr)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		appErr := apperror.NewValidation("invalid query parameters")
		if fields, ok := dto.FieldErrors(err); ok {
			appErr = appErr.WithDetail("fields", fields)
		} else {
			appErr = appErr.WithDetail("error", err.Error())
		}
		h.Error(c, appErr)
		return false
	}
	return true
}

// ParseID reads a positive integer path parameter.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail(param, raw))
		return 0, false
	}
	return id, true
}

// Error registers error on Gin context and aborts request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CompleteIdempotency stores the response under the request's idempotency key
// so that retries replay it.
func (h *BaseHandler) CompleteIdempotency(c *gin.Context, statusCode int, contentType string, response any) {
	key := c.GetString(IdempotencyKeyCtx)
	if key == "" {
		return
	}
	store, ok := c.MustGet(IdempotencyStoreCtx).(idempotency.Store)
	if !ok {
		return
	}
	if err := store.Complete(c.Request.Context(), key, statusCode, contentType, response); err != nil {
		logger.Warn(c.Request.Context(), "failed to store idempotent response", "key", key, "error", err)
	}
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	h.CompleteIdempotency(c, http.StatusOK, "application/json", data)
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	// 204 must replay as 204 with empty body.
	h.CompleteIdempotency(c, http.StatusNoContent, "", nil)
	c.Status(http.StatusNoContent)
}
