package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
	"resto-api/utils/common"
)

func paymentsCash600Transfer400() []PaymentInput {
	return []PaymentInput{
		{Method: models.PaymentCash, Amount: 600},
		{Method: models.PaymentTransfer, Amount: 400},
	}
}

func TestEnsureSaleIsCreateOrGet(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	order := draftOrder(t, db, f)

	first, err := svc.EnsureSale(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleDraft, first.Status)
	assert.Equal(t, float64(1000), first.Total)
	assert.NotEmpty(t, first.Number)

	second, err := svc.EnsureSale(order.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureSaleRejectsTerminalOrders(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	order := draftOrder(t, db, f)
	_, err := NewOrderService(db).Cancel(order.ID)
	require.NoError(t, err)

	_, err = svc.EnsureSale(order.ID)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = svc.EnsureSale(9999)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

// Scenario: order totaling 1000, cash 600 + transfer 400.
func TestCheckoutDebitsLedgerAtomically(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)
	stock := NewStockService(db)

	order := draftOrder(t, db, f)

	flourBefore, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)
	cheeseBefore, err := stock.Balance(f.cheese.ID)
	require.NoError(t, err)

	sale, err := svc.Checkout(order.ID, "2026-08-31", paymentsCash600Transfer400(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.SalePaid, sale.Status)
	assert.Equal(t, float64(1000), sale.Total)
	require.NotNil(t, sale.PaidDateKey)
	assert.Equal(t, "2026-08-31", *sale.PaidDateKey)
	require.Len(t, sale.Payments, 2)

	// pizza: 1 dough batch share (1000g flour / yield 4 = 250) + 120 cheese
	// iced tea: 10 flour
	flourAfter, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)
	cheeseAfter, err := stock.Balance(f.cheese.ID)
	require.NoError(t, err)
	assert.InDelta(t, flourBefore-260, flourAfter, 1e-9)
	assert.InDelta(t, cheeseBefore-120, cheeseAfter, 1e-9)

	var movements []models.StockMovement
	require.NoError(t, db.Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).Find(&movements).Error)
	require.Len(t, movements, 2)
	for _, mv := range movements {
		assert.Equal(t, models.MovementOut, mv.Type)
		assert.Equal(t, models.ReasonSale, mv.Reason)
		assert.Negative(t, mv.Qty)
	}

	// checkout froze the draft order
	frozen, err := NewOrderService(db).Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, frozen.Status)

	// the cash portion hit the drawer
	var cash models.CashMovement
	require.NoError(t, db.Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).First(&cash).Error)
	assert.Equal(t, models.CashIn, cash.Direction)
	assert.Equal(t, float64(600), cash.Amount)
}

// Scenario: underpayment is rejected and leaves no trace.
func TestUnderpaymentRejectedWithoutSideEffects(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	order := draftOrder(t, db, f)
	sale, err := svc.EnsureSale(order.ID)
	require.NoError(t, err)

	_, err = svc.Pay(sale.ID, "2026-08-31", []PaymentInput{
		{Method: models.PaymentCash, Amount: 900},
	}, nil)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	reloaded, err := svc.GetSale(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleDraft, reloaded.Status)
	assert.Empty(t, reloaded.Payments)

	var movements int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).
		Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestPayValidatesAmountsAndMethods(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	sale, err := svc.EnsureSale(draftOrder(t, db, f).ID)
	require.NoError(t, err)

	var validation *models.ValidationError

	_, err = svc.Pay(sale.ID, "", nil, nil)
	require.ErrorAs(t, err, &validation)

	_, err = svc.Pay(sale.ID, "", []PaymentInput{{Method: models.PaymentCash, Amount: -5}}, nil)
	require.ErrorAs(t, err, &validation)

	_, err = svc.Pay(sale.ID, "", []PaymentInput{{Method: "iou", Amount: 1000}}, nil)
	require.ErrorAs(t, err, &validation)

	_, err = svc.Pay(sale.ID, "2026-13-99", []PaymentInput{{Method: models.PaymentCash, Amount: 1000}}, nil)
	require.ErrorAs(t, err, &validation)
}

func TestOverpaymentRecordsChange(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	sale, err := svc.Checkout(draftOrder(t, db, f).ID, "", []PaymentInput{
		{Method: models.PaymentCash, Amount: 1500},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SalePaid, sale.Status)
	require.NotNil(t, sale.Change)
	assert.Equal(t, float64(500), *sale.Change)
}

// Scenario: void restores every balance and is idempotent.
func TestVoidReversesExactlyAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)
	stock := NewStockService(db)

	order := draftOrder(t, db, f)

	flourBefore, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)
	cheeseBefore, err := stock.Balance(f.cheese.ID)
	require.NoError(t, err)

	sale, err := svc.Checkout(order.ID, "2026-08-31", paymentsCash600Transfer400(), nil)
	require.NoError(t, err)

	var originals []models.StockMovement
	require.NoError(t, db.Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).Find(&originals).Error)
	require.Len(t, originals, 2)

	voided, err := svc.Void(sale.ID, common.PtrString("customer cancelled"), "2026-08-31", nil)
	require.NoError(t, err)
	assert.Equal(t, models.SaleVoided, voided.Status)
	assert.Equal(t, "customer cancelled", common.GetStringValue(voided.VoidReason))

	// one reversal per original, exact negation, pointing at the original
	for _, original := range originals {
		var reversal models.StockMovement
		require.NoError(t, db.Where("ref_type = ? AND ref_id = ?", models.RefMovement, original.ID).First(&reversal).Error)
		assert.Equal(t, models.MovementReversal, reversal.Type)
		assert.Equal(t, -original.Qty, reversal.Qty)
	}

	flourAfter, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)
	cheeseAfter, err := stock.Balance(f.cheese.ID)
	require.NoError(t, err)
	assert.InDelta(t, flourBefore, flourAfter, 1e-9)
	assert.InDelta(t, cheeseBefore, cheeseAfter, 1e-9)

	// the drawer nets to zero for this sale
	var net float64
	require.NoError(t, db.Model(&models.CashMovement{}).
		Select("COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE -amount END), 0)").
		Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).
		Scan(&net).Error)
	assert.Zero(t, net)

	// second void: same terminal state, no extra movements
	var movementsBefore int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&movementsBefore).Error)

	again, err := svc.Void(sale.ID, common.PtrString("retry"), "2026-08-31", nil)
	require.NoError(t, err)
	assert.Equal(t, models.SaleVoided, again.Status)
	assert.Equal(t, "customer cancelled", common.GetStringValue(again.VoidReason))

	var movementsAfter int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&movementsAfter).Error)
	assert.Equal(t, movementsBefore, movementsAfter)
}

func TestVoidRequiresPaidSale(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	sale, err := svc.EnsureSale(draftOrder(t, db, f).ID)
	require.NoError(t, err)

	_, err = svc.Void(sale.ID, nil, "", nil)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = svc.Void(9999, nil, "", nil)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

// Scenario: duplicate concurrent checkouts of the same order end with
// exactly one sale, one set of movements and one set of payments.
func TestConcurrentCheckoutRetriesAreSafe(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	order := draftOrder(t, db, f)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Checkout(order.ID, "2026-08-31", paymentsCash600Transfer400(), nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, results[0])
	require.NoError(t, results[1])

	var sales int64
	require.NoError(t, db.Model(&models.Sale{}).Where("order_id = ?", order.ID).Count(&sales).Error)
	assert.EqualValues(t, 1, sales)

	var sale models.Sale
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&sale).Error)

	var movements int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).
		Count(&movements).Error)
	assert.EqualValues(t, 2, movements)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Where("sale_id = ?", sale.ID).Count(&payments).Error)
	assert.EqualValues(t, 2, payments)
}

// A product with no recipe consumes nothing, so the ingredient lock set
// is empty; the sale lock alone must keep duplicate retries single-entry.
func TestConcurrentCheckoutOfRecipelessProductStaysSingleEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db)

	fee := models.Product{Name: "Delivery Fee", Price: 200}
	require.NoError(t, db.Create(&fee).Error)

	order, err := NewOrderService(db).Create(CreateOrderInput{
		Items: []OrderItemInput{{ProductID: fee.ID, Qty: 1}},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Checkout(order.ID, "2026-08-31", []PaymentInput{
				{Method: models.PaymentCash, Amount: 200},
			}, nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, results[0])
	require.NoError(t, results[1])

	var sale models.Sale
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&sale).Error)
	assert.Equal(t, models.SalePaid, sale.Status)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Where("sale_id = ?", sale.ID).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)

	var cashRows int64
	require.NoError(t, db.Model(&models.CashMovement{}).
		Where("ref_type = ? AND ref_id = ?", models.RefSale, sale.ID).
		Count(&cashRows).Error)
	assert.EqualValues(t, 1, cashRows)

	var movements int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestPayAlreadyPaidSaleIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewCheckoutService(db)

	order := draftOrder(t, db, f)
	first, err := svc.Checkout(order.ID, "2026-08-31", paymentsCash600Transfer400(), nil)
	require.NoError(t, err)

	second, err := svc.Checkout(order.ID, "2026-08-31", paymentsCash600Transfer400(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Payments, 2)
}

func TestCheckoutDraftDeliveryOrderStillNeedsAddress(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)

	order, err := NewOrderService(db).Create(CreateOrderInput{
		Fulfillment: models.FulfillmentDelivery,
		Items:       []OrderItemInput{{ProductID: f.pizza.ID, Qty: 1}},
	})
	require.NoError(t, err)

	_, err = NewCheckoutService(db).Checkout(order.ID, "", []PaymentInput{
		{Method: models.PaymentCash, Amount: 600},
	}, nil)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}
