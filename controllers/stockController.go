package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/common"
	"resto-api/utils/pagination"
	"resto-api/utils/response"
)

func GetStockBalances(c *gin.Context) {
	balances, err := services.NewStockService(config.DB).Balances()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func GetStockMovements(c *gin.Context) {
	var filter services.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := pagination.FromQuery(c)

	movements, total, err := services.NewStockService(config.DB).Movements(filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Response(movements, total))
}

// CreateManualMovements posts one ledger entry per item. The caller's
// Idempotency-Key makes the whole batch safe to retry.
func CreateManualMovements(c *gin.Context) {
	var input struct {
		Type    string  `json:"type" binding:"required"`
		Reason  string  `json:"reason"`
		DateKey string  `json:"date_key"`
		Note    *string `json:"note,omitempty"`
		Items   []struct {
			IngredientID uint    `json:"ingredient_id" binding:"required"`
			Qty          float64 `json:"qty" binding:"required"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no items provided"})
		return
	}

	reason := input.Reason
	if reason == "" {
		reason = models.ReasonManual
	}

	dateKey, err := services.NewCalendar().Normalize(input.DateKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	idemKey := c.GetHeader("Idempotency-Key")
	refType := models.RefManual
	service := services.NewStockService(config.DB)

	var movements []models.StockMovement
	for i, item := range input.Items {
		var dedupeKey *string
		if idemKey != "" {
			dedupeKey = common.PtrString(fmt.Sprintf("manual:%s:%d", idemKey, i))
		}

		mv, err := service.RecordMovement(services.MovementInput{
			IngredientID: item.IngredientID,
			Type:         input.Type,
			Reason:       reason,
			Qty:          item.Qty,
			DateKey:      dateKey,
			RefType:      &refType,
			DedupeKey:    dedupeKey,
			Note:         input.Note,
			UserID:       currentUserID(c),
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		movements = append(movements, *mv)
	}

	c.JSON(http.StatusCreated, gin.H{"movements": movements})
}

func ReverseStockMovement(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input struct {
		DateKey string `json:"date_key"`
	}
	_ = c.ShouldBindJSON(&input)

	dateKey, err := services.NewCalendar().Normalize(input.DateKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	var dedupeKey *string
	if idemKey := c.GetHeader("Idempotency-Key"); idemKey != "" {
		dedupeKey = common.PtrString("reverse:" + idemKey)
	}

	mv, err := services.NewStockService(config.DB).Reverse(id, dateKey, dedupeKey, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, mv)
}
