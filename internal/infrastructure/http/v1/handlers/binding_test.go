package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadroute/internal/infrastructure/http/v1/dto"
	"breadroute/internal/infrastructure/http/v1/middleware"
)

// Requests that fail body validation must come back as 400 VALIDATION, never
// reach the service. The handlers under test therefore carry a nil service:
// a request that slips past binding would panic instead of passing silently.
func newBindingTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())

	inventoryHandler := NewInventoryHandler(nil)
	settlementHandler := NewSettlementHandler(nil)
	router.POST("/sellers/:id/recharges", inventoryHandler.Recharge)
	router.PUT("/sellers/:id/inventory", inventoryHandler.Adjust)
	router.POST("/sellers/:id/settlements", settlementHandler.Commit)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBinding_RejectsMalformedBodies(t *testing.T) {
	router := newBindingTestRouter()
	sellerPath := "/sellers/019142e0-0000-7000-8000-000000000001"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{
			name:   "recharge item without qty",
			method: http.MethodPost,
			path:   sellerPath + "/recharges",
			body:   `{"items":[{"productId":"019142e0-0000-7000-8000-0000000000aa"}]}`,
		},
		{
			name:   "recharge with empty items",
			method: http.MethodPost,
			path:   sellerPath + "/recharges",
			body:   `{"items":[]}`,
		},
		{
			name:   "adjust item without carry",
			method: http.MethodPut,
			path:   sellerPath + "/inventory",
			body:   `{"items":[{"productId":"019142e0-0000-7000-8000-0000000000aa","r1":1,"r2":0,"r3":0}]}`,
		},
		{
			name:   "settlement line without finalQty",
			method: http.MethodPost,
			path:   sellerPath + "/settlements",
			body:   `{"commissionPercent":10,"lines":[{"productId":"019142e0-0000-7000-8000-0000000000aa","changesQty":0}]}`,
		},
		{
			name:   "settlement line without changesQty",
			method: http.MethodPost,
			path:   sellerPath + "/settlements",
			body:   `{"commissionPercent":10,"lines":[{"productId":"019142e0-0000-7000-8000-0000000000aa","finalQty":0}]}`,
		},
		{
			name:   "settlement with empty lines",
			method: http.MethodPost,
			path:   sellerPath + "/settlements",
			body:   `{"commissionPercent":10,"lines":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION")
		})
	}
}

// Zero is a legal quantity; only a missing field is rejected. A zero-qty line
// must clear binding so domain validation gets to decide.
func TestBinding_ZeroQuantityPassesBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.POST("/bindcheck", func(c *gin.Context) {
		var req dto.RechargeRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	rec := doJSON(t, router, http.MethodPost, "/bindcheck",
		`{"items":[{"productId":"019142e0-0000-7000-8000-0000000000aa","qty":0}]}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
