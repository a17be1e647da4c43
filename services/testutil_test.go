package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resto-api/config"
	"resto-api/models"
	"resto-api/utils/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a pooled :memory: connection is a separate empty database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	flour   models.Ingredient
	cheese  models.Ingredient
	dough   models.Preparation
	pizza   models.Product // price 600
	icedTea models.Product // price 400
}

// seedCatalog builds a small catalog: a pizza using a dough preparation
// plus cheese, and an iced tea using flour directly (close enough for
// ledger math), with opening stock on both ingredients.
func seedCatalog(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		flour:  models.Ingredient{Name: "Flour", Unit: "g", CostPerUnit: 0.01},
		cheese: models.Ingredient{Name: "Cheese", Unit: "g", CostPerUnit: 0.08},
	}
	require.NoError(t, db.Create(&f.flour).Error)
	require.NoError(t, db.Create(&f.cheese).Error)

	f.dough = models.Preparation{
		Name:  "Dough",
		Yield: 4,
		Items: []models.PreparationIngredient{
			{IngredientID: f.flour.ID, Qty: 1000},
		},
	}
	require.NoError(t, db.Create(&f.dough).Error)

	f.pizza = models.Product{
		Name:  "Pizza",
		Price: 600,
		Recipe: []models.RecipeComponent{
			{PreparationID: &f.dough.ID, Qty: 1},
			{IngredientID: common.PtrUint(f.cheese.ID), Qty: 120},
		},
	}
	require.NoError(t, db.Create(&f.pizza).Error)

	f.icedTea = models.Product{
		Name:  "Iced Tea",
		Price: 400,
		Recipe: []models.RecipeComponent{
			{IngredientID: common.PtrUint(f.flour.ID), Qty: 10},
		},
	}
	require.NoError(t, db.Create(&f.icedTea).Error)

	stock := NewStockService(db)
	for _, ing := range []models.Ingredient{f.flour, f.cheese} {
		_, err := stock.RecordMovement(MovementInput{
			IngredientID: ing.ID,
			Type:         models.MovementIn,
			Reason:       models.ReasonPurchase,
			Qty:          10000,
			DateKey:      "2026-08-30",
		})
		require.NoError(t, err)
	}
	return f
}

func draftOrder(t *testing.T, db *gorm.DB, f fixture) *models.Order {
	t.Helper()
	order, err := NewOrderService(db).Create(CreateOrderInput{
		Fulfillment: models.FulfillmentDineIn,
		Items: []OrderItemInput{
			{ProductID: f.pizza.ID, Qty: 1},
			{ProductID: f.icedTea.ID, Qty: 1},
		},
	})
	require.NoError(t, err)
	return order
}
