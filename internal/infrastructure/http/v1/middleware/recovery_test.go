package middleware

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/infrastructure/http/v1/dto"
	"bookkeeper/internal/infrastructure/storage/memory"
)

func recoveringEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler(), Idempotency(memory.New().Idempotency(time.Hour)))
	r.POST("/api/sales", handler)
	return r
}

func TestRecovery_PanicRendersInternalError(t *testing.T) {
	r := recoveringEngine(func(c *gin.Context) {
		panic("nil stock ledger")
	})

	w := postKeyed(r, "till-9")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotEmpty(t, body.Details["request_id"])
	assert.NotContains(t, w.Body.String(), "nil stock ledger")
}

func TestRecovery_PanicFreesIdempotencyKey(t *testing.T) {
	calls := 0
	r := recoveringEngine(func(c *gin.Context) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		c.JSON(http.StatusCreated, gin.H{"id": 1})
	})

	require.Equal(t, http.StatusInternalServerError, postKeyed(r, "till-10").Code)
	assert.Equal(t, http.StatusCreated, postKeyed(r, "till-10").Code)
	assert.Equal(t, 2, calls)
}
