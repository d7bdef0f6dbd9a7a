// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/infrastructure/http/v1/handlers"
	"bookkeeper/pkg/logger"
)

// Recovery turns a panic in a handler into a 500 INTERNAL_ERROR reply.
// A panic unwinds past ErrorHandler, so the reply is written here. Any
// idempotency key held by the request is released so the till can retry.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"idempotency_key", c.GetString(handlers.IdempotencyKeyCtx),
				"panic", rec,
				"stack", string(debug.Stack()),
			)

			c.Abort()
			if c.Writer.Written() {
				return
			}
			writeError(c, apperror.NewInternal(fmt.Errorf("panic: %v", rec)))
		}()
		c.Next()
	}
}
