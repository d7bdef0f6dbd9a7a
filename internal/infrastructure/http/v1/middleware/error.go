package middleware

import (
	"github.com/gin-gonic/gin"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/idempotency"
	"bookkeeper/internal/infrastructure/http/v1/dto"
	"bookkeeper/internal/infrastructure/http/v1/handlers"
	"bookkeeper/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			appErr = apperror.NewInternal(err)
		} else if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		writeError(c, appErr)
	}
}

// writeError renders appErr as the JSON error envelope and settles the
// request's idempotency key.
func writeError(c *gin.Context, appErr *apperror.AppError) {
	body := dto.FromAppError(appErr)
	if appErr.Code == apperror.CodeInternal {
		body.Error = "Internal server error"
		body.Details = map[string]any{"request_id": c.GetString("request_id")}
	}

	status := apperror.GetHTTPStatus(appErr)

	failIdempotency(c, status, body)
	c.JSON(status, body)
}

// failIdempotency records the error reply under the request's key, best-effort.
// Retryable errors free the key instead, so the client's retry runs again.
func failIdempotency(c *gin.Context, status int, body dto.ErrorResponse) {
	key := c.GetString(handlers.IdempotencyKeyCtx)
	if key == "" {
		return
	}
	v, ok := c.Get(handlers.IdempotencyStoreCtx)
	if !ok {
		return
	}
	store, ok := v.(idempotency.Store)
	if !ok || store == nil {
		return
	}
	if idempotency.Retryable(status, body.Code) {
		if err := store.Release(c.Request.Context(), key); err != nil {
			logger.Warn(c.Request.Context(), "failed to release idempotency key", "key", key, "error", err)
		}
		return
	}
	if err := store.Fail(c.Request.Context(), key, status, "application/json", body); err != nil {
		logger.Warn(c.Request.Context(), "failed to store idempotent error", "key", key, "error", err)
	}
}
