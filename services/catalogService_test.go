package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
)

func TestProductCostRollsUpPreparations(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCatalogService(db)

	// dough batch: 1000g flour * 0.01 = 10, yield 4 -> 2.5 per base
	// cheese: 120g * 0.08 = 9.6
	cost, err := svc.ProductCost(f.pizza.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.1, cost, 1e-9)

	_, err = svc.ProductCost(9999)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConsumptionFlattensRecipes(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCatalogService(db)

	consumed, err := svc.Consumption([]models.OrderItem{
		{ProductID: f.pizza.ID, Qty: 2},
		{ProductID: f.icedTea.ID, Qty: 3},
	})
	require.NoError(t, err)

	// pizza x2: dough 2 * (1000/4) = 500 flour, cheese 2 * 120 = 240
	// iced tea x3: 30 flour
	assert.InDelta(t, 530, consumed[f.flour.ID], 1e-9)
	assert.InDelta(t, 240, consumed[f.cheese.ID], 1e-9)
}
