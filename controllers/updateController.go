package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
)

// Weekly update threads for managers/admins.

func CreateUpdateThread(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thread := models.UpdateThread{
		WeekKey:  services.NewCalendar().WeekKey(),
		Title:    input.Title,
		AuthorID: userID,
		Messages: []models.UpdateMessage{
			{AuthorID: userID, Body: input.Body},
		},
	}
	if err := config.DB.Create(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Preload("Author").Preload("Messages.Author").First(&thread, thread.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func ListUpdateThreads(c *gin.Context) {
	db := config.DB.Preload("Author").Preload("Messages.Author")
	if week := c.Query("week_key"); week != "" {
		db = db.Where("week_key = ?", week)
	}

	var threads []models.UpdateThread
	if err := db.Order("created_at DESC").Find(&threads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, threads)
}

func ReplyUpdateThread(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uint)

	var thread models.UpdateThread
	if err := config.DB.First(&thread, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.UpdateMessage{
		ThreadID: thread.ID,
		AuthorID: userID,
		Body:     input.Body,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Preload("Author").First(&message, message.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, message)
}
