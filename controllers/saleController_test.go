package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/common"
)

func setupRouter(t *testing.T) (*gin.Engine, services.OrderService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	ingredient := models.Ingredient{Name: "Rice", Unit: "g", CostPerUnit: 0.01}
	require.NoError(t, db.Create(&ingredient).Error)
	product := models.Product{
		Name:  "Rice Bowl",
		Price: 1000,
		Recipe: []models.RecipeComponent{
			{IngredientID: common.PtrUint(ingredient.ID), Qty: 250},
		},
	}
	require.NoError(t, db.Create(&product).Error)
	_, err = services.NewStockService(db).RecordMovement(services.MovementInput{
		IngredientID: ingredient.ID,
		Type:         models.MovementIn,
		Reason:       models.ReasonPurchase,
		Qty:          5000,
		DateKey:      "2026-08-30",
	})
	require.NoError(t, err)

	r := gin.New()
	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", uint(1))
			c.Set("role", models.RoleCashier)
			h(c)
		}
	}
	r.POST("/sales/from-order/:orderId", authed(CreateSaleFromOrder))
	r.GET("/sales/:id", authed(GetSale))
	r.POST("/sales/:id/pay", authed(PaySale))
	r.POST("/sales/:id/void", authed(VoidSale))

	svc := services.NewOrderService(db)
	return r, svc
}

func newOrder(t *testing.T, svc services.OrderService) *models.Order {
	t.Helper()
	var product models.Product
	require.NoError(t, config.DB.First(&product).Error)
	order, err := svc.Create(services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: product.ID, Qty: 1}},
	})
	require.NoError(t, err)
	return order
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaleEndpointsStatusMapping(t *testing.T) {
	r, orders := setupRouter(t)
	order := newOrder(t, orders)

	// create-or-get
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/sales/from-order/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sale models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, models.SaleDraft, sale.Status)

	again := doJSON(r, http.MethodPost, fmt.Sprintf("/sales/from-order/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, again.Code)

	// unknown sale -> 404
	w = doJSON(r, http.MethodGet, "/sales/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// void of an unpaid sale -> 409
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/sales/%d/void", sale.ID), gin.H{"reason": "oops"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// underpayment -> 400
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/sales/%d/pay", sale.ID), gin.H{
		"date_key": "2026-08-31",
		"payments": []gin.H{{"method": "cash", "amount": 900}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// full payment -> 200 paid
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/sales/%d/pay", sale.ID), gin.H{
		"date_key": "2026-08-31",
		"payments": []gin.H{{"method": "cash", "amount": 600}, {"method": "transfer", "amount": 400}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, models.SalePaid, sale.Status)

	// void the paid sale, then void again (idempotent 200)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/sales/%d/void", sale.ID), gin.H{"reason": "customer cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/sales/%d/void", sale.ID), gin.H{"reason": "retry"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, models.SaleVoided, sale.Status)
}
