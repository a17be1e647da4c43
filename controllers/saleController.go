package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/pagination"
	"resto-api/utils/response"
)

func currentUserID(c *gin.Context) *uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

// Create-or-get: the unique order_id index makes repeated calls return
// the same sale.
func CreateSaleFromOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	sale, svcErr := services.NewCheckoutService(config.DB).EnsureSale(uint(orderID))
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func GetSale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sale, err := services.NewCheckoutService(config.DB).GetSale(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func ListSales(c *gin.Context) {
	p := pagination.FromQuery(c)

	db := config.DB.Model(&models.Sale{})
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}
	if dateKey := c.Query("date_key"); dateKey != "" {
		db = db.Where("date_key = ?", dateKey)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var sales []models.Sale
	if err := db.Preload("Payments").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p.Response(sales, total))
}

func PaySale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input struct {
		DateKey  string                  `json:"date_key"`
		Payments []services.PaymentInput `json:"payments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sale, err := services.NewCheckoutService(config.DB).Pay(id, input.DateKey, input.Payments, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func VoidSale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input struct {
		Reason  *string `json:"reason,omitempty"`
		DateKey string  `json:"date_key"`
	}
	_ = c.ShouldBindJSON(&input)

	sale, err := services.NewCheckoutService(config.DB).Void(id, input.Reason, input.DateKey, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Checkout is the one-shot path: create-or-get the sale for an order and
// pay it in the same request.
func CheckoutOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var input struct {
		DateKey  string                  `json:"date_key"`
		Payments []services.PaymentInput `json:"payments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sale, svcErr := services.NewCheckoutService(config.DB).Checkout(uint(orderID), input.DateKey, input.Payments, currentUserID(c))
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, sale)
}
