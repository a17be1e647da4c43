package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"resto-api/models"
)

var DB *gorm.DB

func ConnectDatabase() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	DB = db
	log.Println("Database connected")
}

// Migrate is shared with the sqlite-backed test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Attendance{},
		&models.Ingredient{},
		&models.Preparation{},
		&models.PreparationIngredient{},
		&models.Product{},
		&models.RecipeComponent{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sale{},
		&models.Payment{},
		&models.StockMovement{},
		&models.CashMovement{},
		&models.CashSession{},
		&models.UpdateThread{},
		&models.UpdateMessage{},
		&models.AuditLog{},
	)
}
