package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
)

func OpenCashSession(c *gin.Context) {
	db := config.DB
	userID := c.MustGet("user_id").(uint)

	var input struct {
		OpeningCash float64 `json:"opening_cash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.CashSession
	if err := db.Where("user_id = ? AND status = 'open'", userID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a cash session is already open"})
		return
	}

	session := models.CashSession{
		UserID:      userID,
		OpeningCash: input.OpeningCash,
		Status:      "open",
		OpenedAt:    time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}

func GetCurrentCashSession(c *gin.Context) {
	db := config.DB
	userID := c.MustGet("user_id").(uint)

	var session models.CashSession
	if err := db.Where("user_id = ? AND status = 'open'", userID).
		First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open cash session"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// CloseCashSession reconciles counted cash against the cash movement
// records checkout and void stamped with this session.
func CloseCashSession(c *gin.Context) {
	db := config.DB
	userID := c.MustGet("user_id").(uint)

	var input struct {
		ClosingCash float64 `json:"closing_cash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var session models.CashSession
	if err := db.Where("user_id = ? AND status = 'open'", userID).
		First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open cash session"})
		return
	}

	now := time.Now()

	var result struct {
		TotalIn  float64
		TotalOut float64
	}
	db.Model(&models.CashMovement{}).
		Select(`
			COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE 0 END), 0) AS total_in,
			COALESCE(SUM(CASE WHEN direction = 'out' THEN amount ELSE 0 END), 0) AS total_out
		`).
		Where("session_id = ?", session.ID).
		Scan(&result)

	expected := session.OpeningCash + result.TotalIn - result.TotalOut
	diff := input.ClosingCash - expected

	session.TotalCashIn = result.TotalIn
	session.TotalCashOut = result.TotalOut
	session.ExpectedCash = expected
	session.ClosingCash = &input.ClosingCash
	session.Difference = &diff
	session.Status = "closed"
	session.ClosedAt = &now

	if err := db.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}
