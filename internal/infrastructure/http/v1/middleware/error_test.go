package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/infrastructure/storage/memory"
)

func keyedEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(), Idempotency(memory.New().Idempotency(time.Hour)))
	r.POST("/api/sales", handler)
	return r
}

func postKeyed(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderIdempotencyKey, key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_RetryableErrorFreesIdempotencyKey(t *testing.T) {
	calls := 0
	r := keyedEngine(func(c *gin.Context) {
		calls++
		if calls == 1 {
			_ = c.Error(apperror.NewConflict("concurrent update of product, retry the request"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": 1})
	})

	first := postKeyed(r, "till-1")
	require.Equal(t, http.StatusConflict, first.Code)
	assert.Contains(t, first.Body.String(), apperror.CodeConflict)

	second := postKeyed(r, "till-1")
	assert.Equal(t, http.StatusOK, second.Code, second.Body.String())
	assert.Equal(t, 2, calls)
}

func TestErrorHandler_InternalErrorFreesIdempotencyKey(t *testing.T) {
	calls := 0
	r := keyedEngine(func(c *gin.Context) {
		calls++
		_ = c.Error(apperror.NewInternal(assert.AnError))
	})

	assert.Equal(t, http.StatusInternalServerError, postKeyed(r, "till-2").Code)
	assert.Equal(t, http.StatusInternalServerError, postKeyed(r, "till-2").Code)
	assert.Equal(t, 2, calls)
}

func TestErrorHandler_BusinessErrorIsReplayed(t *testing.T) {
	calls := 0
	r := keyedEngine(func(c *gin.Context) {
		calls++
		_ = c.Error(apperror.NewInsufficientStock(1, 5, 2))
	})

	first := postKeyed(r, "till-3")
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)

	second := postKeyed(r, "till-3")
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}
