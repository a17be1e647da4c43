package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
)

// Admin: record attendance manually
func CreateAttendance(c *gin.Context) {
	var input struct {
		UserID uint   `json:"user_id" binding:"required"`
		Status string `json:"status" binding:"required,oneof=present absent off"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	today := services.NewCalendar().Today()

	var existing models.Attendance
	if err := config.DB.Where("user_id = ? AND date_key = ?", input.UserID, today).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "attendance already recorded for today"})
		return
	}

	var note *string
	if input.Note != "" {
		note = &input.Note
	}

	attendance := models.Attendance{
		UserID:  input.UserID,
		DateKey: today,
		Status:  input.Status,
		Note:    note,
	}
	if err := config.DB.Create(&attendance).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Preload("User").First(&attendance, attendance.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, attendance)
}

func GetTodayAttendance(c *gin.Context) {
	var attendances []models.Attendance
	today := services.NewCalendar().Today()

	if err := config.DB.Preload("User").Where("date_key = ?", today).Find(&attendances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attendances)
}

func GetAttendanceHistory(c *gin.Context) {
	var attendances []models.Attendance
	if err := config.DB.Preload("User").Order("date_key DESC").Find(&attendances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attendances)
}

func GetAttendances(c *gin.Context) {
	var attendances []models.Attendance
	if err := config.DB.Preload("User").Find(&attendances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attendances)
}
