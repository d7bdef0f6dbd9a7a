package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/app"
	"bookkeeper/internal/config"
	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/infrastructure/http/v1/middleware"
	"bookkeeper/pkg/logger"
)

type testServer struct {
	app    *app.App
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{StorageDriver: config.DriverMemory, IdempotencyTTL: time.Hour}
	a, err := app.Build(context.Background(), cfg, app.MemoryRepositories(cfg))
	require.NoError(t, err)

	return &testServer{
		app: a,
		router: NewRouter(RouterConfig{
			App:           a,
			Logger:        logger.NewNop(),
			StorageDriver: cfg.StorageDriver,
			Version:       "test",
		}),
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createProduct(t *testing.T, stock int, price float64) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/products", gin.H{"name": "Mug", "stock": stock, "price": price})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return int64(decode(t, w)["id"].(float64))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "memory", decode(t, w)["storage"])
}

func TestCreateSale(t *testing.T) {
	s := newTestServer(t)
	productID := s.createProduct(t, 10, 40)

	w := s.do(t, http.MethodPost, "/api/sales", gin.H{
		"items":         []gin.H{{"productId": productID, "quantity": 2, "price": 50}},
		"customerName":  "Ali",
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(100), body["totalPrice"])
	assert.NotEmpty(t, body["number"])

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), decode(t, w)["stock"])

	w = s.do(t, http.MethodGet, "/api/transactions?type=Sale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, float64(1), list["totalCount"])
}

func TestCreateSale_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/sales", gin.H{
		"items":         []gin.H{},
		"paymentMethod": "Barter",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body["details"], "fields")
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	s := newTestServer(t)
	productID := s.createProduct(t, 1, 40)

	w := s.do(t, http.MethodPost, "/api/sales", gin.H{
		"items":         []gin.H{{"productId": productID, "quantity": 5, "price": 50}},
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInsufficientStock, decode(t, w)["code"])
}

func TestGetMissingDocument(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/purchases/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/purchases/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSale_NoContent(t *testing.T) {
	s := newTestServer(t)
	productID := s.createProduct(t, 3, 10)

	w := s.do(t, http.MethodPost, "/api/sales", gin.H{
		"items":         []gin.H{{"productId": productID, "quantity": 1, "price": 15}},
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusOK, w.Code)
	id := int64(decode(t, w)["id"].(float64))

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/sales/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	assert.Equal(t, float64(3), decode(t, w)["stock"])
}

func TestIdempotentReplay(t *testing.T) {
	s := newTestServer(t)
	productID := s.createProduct(t, 10, 40)
	payload := gin.H{
		"items":         []gin.H{{"productId": productID, "quantity": 1, "price": 50}},
		"paymentMethod": "Cash",
	}

	first := s.do(t, http.MethodPost, "/api/sales", payload, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := s.do(t, http.MethodPost, "/api/sales", payload, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	assert.Equal(t, float64(9), decode(t, w)["stock"])

	payload["paymentMethod"] = "Credit"
	mismatch := s.do(t, http.MethodPost, "/api/sales", payload, middleware.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusConflict, mismatch.Code)
}

func TestManualEntryViaTransactions(t *testing.T) {
	s := newTestServer(t)
	cash := s.app.Roles["cash"]
	equity := s.app.Roles["owner_equity"]

	w := s.do(t, http.MethodPost, "/api/transactions", gin.H{
		"description": "Owner investment",
		"lines": []gin.H{
			{"ledgerAccountId": cash, "type": "Debit", "amount": 1000},
			{"ledgerAccountId": equity, "type": "Credit", "amount": 1000},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Manual Entry", body["type"])
	id := int64(body["id"].(float64))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/transactions/%d", id), gin.H{
		"lines": []gin.H{
			{"ledgerAccountId": cash, "type": "Debit", "amount": 500},
			{"ledgerAccountId": equity, "type": "Credit", "amount": 400},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeUnbalancedEntry, decode(t, w)["code"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReportsRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/reports/trial-balance",
		"/api/reports/income-statement",
		"/api/reports/balance-sheet",
		"/api/reports/cash-flow",
		"/api/reports/sales",
		"/api/reports/expenses",
		"/api/reports/inventory",
		"/api/reports/receivables",
		"/api/reports/payables",
	} {
		w := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path+": "+w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/reports/trial-balance?from=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
