package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	numberingapp "github.com/backoffice/backend/internal/application/numbering"
	domainnumbering "github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type documentNumberTestEnv struct {
	engine   *gin.Engine
	tenantID uuid.UUID
	orders   *fakeOrderRepo
}

func newDocumentNumberTestEnv(t *testing.T) *documentNumberTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tenantID := uuid.New()
	orders := &fakeOrderRepo{}
	registry := newFakeRegistry()
	service := numberingapp.NewDocumentNumberService(
		domainnumbering.NewAllocator(registry), registry, orders, zap.NewNop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			TenantID: tenantID.String(),
			UserID:   uuid.NewString(),
			Username: "admin",
			IsAdmin:  true,
		})
	})
	api := router.Group("/api/v1")
	NewDocumentNumberHandler(service).RegisterRoutes(api)

	return &documentNumberTestEnv{engine: router, tenantID: tenantID, orders: orders}
}

func (env *documentNumberTestEnv) addOrder(t *testing.T) uuid.UUID {
	t.Helper()
	order, err := trade.NewSalesOrder(
		env.tenantID, uuid.New(), "SO-1001", trade.OrderStatusApproved,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100))
	require.NoError(t, err)
	env.orders.orders = append(env.orders.orders, *order)
	return order.ID
}

func (env *documentNumberTestEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func TestDocumentNumberHandler_Assign(t *testing.T) {
	t.Run("assigns a number and repeats it on retry", func(t *testing.T) {
		env := newDocumentNumberTestEnv(t)
		orderID := env.addOrder(t)

		first := env.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/document-number")
		require.Equal(t, http.StatusOK, first.Code)

		var firstResp struct {
			Data DocumentNumberResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
		assert.NotEmpty(t, firstResp.Data.DocumentNumber)

		second := env.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/document-number")
		require.Equal(t, http.StatusOK, second.Code)

		var secondResp struct {
			Data DocumentNumberResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
		assert.Equal(t, firstResp.Data.DocumentNumber, secondResp.Data.DocumentNumber)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		env := newDocumentNumberTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/document-number")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed order id returns 400", func(t *testing.T) {
		env := newDocumentNumberTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/v1/orders/nope/document-number")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDocumentNumberHandler_Get(t *testing.T) {
	t.Run("returns 404 before assignment and the number after", func(t *testing.T) {
		env := newDocumentNumberTestEnv(t)
		orderID := env.addOrder(t)

		before := env.do(t, http.MethodGet, "/api/v1/orders/"+orderID.String()+"/document-number")
		assert.Equal(t, http.StatusNotFound, before.Code)

		assigned := env.do(t, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/document-number")
		require.Equal(t, http.StatusOK, assigned.Code)

		after := env.do(t, http.MethodGet, "/api/v1/orders/"+orderID.String()+"/document-number")
		assert.Equal(t, http.StatusOK, after.Code)
	})
}
