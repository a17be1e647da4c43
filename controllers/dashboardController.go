package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
)

type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
}

func GetDashboard(c *gin.Context) {
	today := services.NewCalendar().Today()

	var todayRevenue float64
	config.DB.Model(&models.Sale{}).
		Where("status = ? AND paid_date_key = ?", models.SalePaid, today).
		Select("COALESCE(SUM(total), 0)").
		Scan(&todayRevenue)

	var todaySales int64
	config.DB.Model(&models.Sale{}).
		Where("status = ? AND paid_date_key = ?", models.SalePaid, today).
		Count(&todaySales)

	// ingredients below par level
	balances, err := services.NewStockService(config.DB).Balances()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	parLevels := map[uint]float64{}
	var ingredients []models.Ingredient
	config.DB.Where("par_level IS NOT NULL").Find(&ingredients)
	for _, ing := range ingredients {
		parLevels[ing.ID] = *ing.ParLevel
	}
	var lowStock []models.IngredientBalance
	for _, b := range balances {
		if par, ok := parLevels[b.IngredientID]; ok && b.Balance < par {
			lowStock = append(lowStock, b)
		}
	}

	var topProducts []TopProduct
	config.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.qty) AS qty").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN sales ON sales.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("sales.status = ?", models.SalePaid).
		Group("order_items.product_id, products.name").
		Order("qty DESC").
		Limit(5).
		Scan(&topProducts)

	c.JSON(http.StatusOK, gin.H{
		"today_revenue": todayRevenue,
		"today_sales":   todaySales,
		"low_stock":     lowStock,
		"top_products":  topProducts,
	})
}
