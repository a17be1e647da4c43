package seeders

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"resto-api/config"
	"resto-api/models"
	"resto-api/services"
	"resto-api/utils/common"
)

func hashPassword(plain string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}
	return string(hashed)
}

func Seed() {
	db := config.DB

	// ============= Users =============
	users := []models.User{
		{Username: "admin", Password: hashPassword("admin123"), Role: models.RoleAdmin},
		{Username: "manager1", Password: hashPassword("manager123"), Role: models.RoleManager},
		{Username: "cashier1", Password: hashPassword("cashier123"), Role: models.RoleCashier},
	}
	for _, user := range users {
		db.FirstOrCreate(&user, models.User{Username: user.Username})
	}

	// ============= Ingredients =============
	ingredients := []models.Ingredient{
		{Name: "Flour", Unit: "g", CostPerUnit: 0.01, ParLevel: common.PtrFloat(5000)},
		{Name: "Tomato Sauce", Unit: "ml", CostPerUnit: 0.02, ParLevel: common.PtrFloat(2000)},
		{Name: "Mozzarella", Unit: "g", CostPerUnit: 0.08, ParLevel: common.PtrFloat(1500)},
		{Name: "Chicken", Unit: "g", CostPerUnit: 0.05, ParLevel: common.PtrFloat(3000)},
		{Name: "Rice", Unit: "g", CostPerUnit: 0.008, ParLevel: common.PtrFloat(10000)},
		{Name: "Cooking Oil", Unit: "ml", CostPerUnit: 0.015},
		{Name: "Tea Leaves", Unit: "g", CostPerUnit: 0.03},
		{Name: "Sugar", Unit: "g", CostPerUnit: 0.012},
	}
	for _, ingredient := range ingredients {
		db.FirstOrCreate(&ingredient, models.Ingredient{Name: ingredient.Name})
	}

	byName := map[string]uint{}
	var allIngredients []models.Ingredient
	db.Find(&allIngredients)
	for _, ing := range allIngredients {
		byName[ing.Name] = ing.ID
	}

	// ============= Preparations =============
	dough := models.Preparation{
		Name:  "Pizza Dough",
		Yield: 4, // one batch makes 4 bases
		Items: []models.PreparationIngredient{
			{IngredientID: byName["Flour"], Qty: 1000},
			{IngredientID: byName["Cooking Oil"], Qty: 50},
		},
	}
	db.FirstOrCreate(&dough, models.Preparation{Name: dough.Name})

	// ============= Products =============
	products := []models.Product{
		{
			Name:  "Margherita Pizza",
			Price: 65000,
			Recipe: []models.RecipeComponent{
				{PreparationID: &dough.ID, Qty: 1},
				{IngredientID: common.PtrUint(byName["Tomato Sauce"]), Qty: 80},
				{IngredientID: common.PtrUint(byName["Mozzarella"]), Qty: 120},
			},
		},
		{
			Name:  "Chicken Rice Bowl",
			Price: 45000,
			Recipe: []models.RecipeComponent{
				{IngredientID: common.PtrUint(byName["Chicken"]), Qty: 150},
				{IngredientID: common.PtrUint(byName["Rice"]), Qty: 250},
				{IngredientID: common.PtrUint(byName["Cooking Oil"]), Qty: 15},
			},
		},
		{
			Name:  "Sweet Iced Tea",
			Price: 12000,
			Recipe: []models.RecipeComponent{
				{IngredientID: common.PtrUint(byName["Tea Leaves"]), Qty: 5},
				{IngredientID: common.PtrUint(byName["Sugar"]), Qty: 20},
			},
		},
	}
	for _, product := range products {
		db.FirstOrCreate(&product, models.Product{Name: product.Name})
	}

	// ============= Opening stock =============
	stock := services.NewStockService(db)
	today := services.NewCalendar().Today()
	refType := models.RefSeed
	opening := map[string]float64{
		"Flour": 20000, "Tomato Sauce": 5000, "Mozzarella": 4000,
		"Chicken": 8000, "Rice": 25000, "Cooking Oil": 3000,
		"Tea Leaves": 500, "Sugar": 2000,
	}
	for name, qty := range opening {
		id := byName[name]
		// dedupe key makes reseeding on every boot a no-op
		_, err := stock.RecordMovement(services.MovementInput{
			IngredientID: id,
			Type:         models.MovementIn,
			Reason:       models.ReasonPurchase,
			Qty:          qty,
			DateKey:      today,
			RefType:      &refType,
			DedupeKey:    common.PtrString(fmt.Sprintf("seed:opening:%d", id)),
		})
		if err != nil {
			log.Printf("seed: opening stock for %s: %v", name, err)
		}
	}

	log.Println("Seeding done: users, catalog, opening stock")
}
