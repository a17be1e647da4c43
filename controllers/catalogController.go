package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/response"
)

func GetProducts(c *gin.Context) {
	var products []models.Product
	db := config.DB.Preload("Recipe.Ingredient").Preload("Recipe.Preparation")
	if c.Query("active") == "true" {
		db = db.Where("active = ?", true)
	}
	if err := db.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func GetProductByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	product, err := services.NewCatalogService(config.DB).GetProduct(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductCost returns the recipe cost roll-up next to the sell price.
func GetProductCost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	service := services.NewCatalogService(config.DB)
	product, err := service.GetProduct(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	cost, err := service.ProductCost(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price,
		"cost":       cost,
		"margin":     product.Price - cost,
	})
}

func CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if product.Name == "" || product.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and price must not be negative"})
		return
	}

	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Active = input.Active
	product.ImageURL = input.ImageURL

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Recipe != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.RecipeComponent{}).Error; err != nil {
				return err
			}
			for i := range input.Recipe {
				input.Recipe[i].ID = 0
				input.Recipe[i].ProductID = product.ID
			}
			if len(input.Recipe) > 0 {
				if err := tx.Create(&input.Recipe).Error; err != nil {
					return err
				}
			}
		}
		return tx.Omit("Recipe").Save(&product).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func GetIngredients(c *gin.Context) {
	var ingredients []models.Ingredient
	if err := config.DB.Order("name").Find(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func CreateIngredient(c *gin.Context) {
	var ingredient models.Ingredient
	if err := c.ShouldBindJSON(&ingredient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ingredient.Name == "" || ingredient.Unit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and unit are required"})
		return
	}

	if err := config.DB.Create(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func UpdateIngredient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var ingredient models.Ingredient
	if err := config.DB.First(&ingredient, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}

	var input models.Ingredient
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient.Name = input.Name
	ingredient.Unit = input.Unit
	ingredient.CostPerUnit = input.CostPerUnit
	ingredient.ParLevel = input.ParLevel

	if err := config.DB.Save(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func GetPreparations(c *gin.Context) {
	var preparations []models.Preparation
	if err := config.DB.Preload("Items.Ingredient").Order("name").Find(&preparations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, preparations)
}

func CreatePreparation(c *gin.Context) {
	var preparation models.Preparation
	if err := c.ShouldBindJSON(&preparation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if preparation.Name == "" || preparation.Yield <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and yield must be positive"})
		return
	}

	if err := config.DB.Create(&preparation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, preparation)
}
