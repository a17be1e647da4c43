package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/common"
)

func TestCloseCashSessionScopedToOwnSession(t *testing.T) {
	r, orders := setupRouter(t)

	authedAs := func(userID uint, h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("role", models.RoleCashier)
			h(c)
		}
	}
	r.POST("/cash-sessions", authedAs(1, OpenCashSession))
	r.POST("/cash-sessions/close", authedAs(1, CloseCashSession))

	w := doJSON(r, http.MethodPost, "/cash-sessions", gin.H{"opening_cash": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	var session models.CashSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	// a cash sale paid by the session owner lands in the session
	order := newOrder(t, orders)
	userID := uint(1)
	_, err := services.NewCheckoutService(config.DB).Checkout(order.ID, "2026-08-31", []services.PaymentInput{
		{Method: models.PaymentCash, Amount: 1000},
	}, &userID)
	require.NoError(t, err)

	var cm models.CashMovement
	require.NoError(t, config.DB.Where("ref_type = ?", models.RefSale).First(&cm).Error)
	require.NotNil(t, cm.SessionID)
	assert.Equal(t, session.ID, *cm.SessionID)

	// drawer activity from another cashier's session must not leak in
	other := models.CashMovement{
		Direction: models.CashIn,
		Amount:    7777,
		DateKey:   "2026-08-31",
		SessionID: common.PtrUint(999),
	}
	require.NoError(t, config.DB.Create(&other).Error)

	w = doJSON(r, http.MethodPost, "/cash-sessions/close", gin.H{"closing_cash": 1100})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	assert.Equal(t, "closed", session.Status)
	assert.Equal(t, float64(1000), session.TotalCashIn)
	assert.Equal(t, float64(1100), session.ExpectedCash)
	require.NotNil(t, session.Difference)
	assert.Zero(t, *session.Difference)
}
