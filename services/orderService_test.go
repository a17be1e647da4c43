package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
	"resto-api/utils/common"
)

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewOrderService(db)

	_, err := svc.Create(CreateOrderInput{})
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.Create(CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.pizza.ID, Qty: 0}},
	})
	require.ErrorAs(t, err, &validation)

	_, err = svc.Create(CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 9999, Qty: 1}},
	})
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)

	order := draftOrder(t, db, f)
	require.Len(t, order.Items, 2)
	assert.Equal(t, float64(600), order.Items[0].UnitPrice)
	assert.Equal(t, float64(600), order.Items[0].LineTotal)

	// a later price change must not leak into the placed order
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", f.pizza.ID).Update("price", 900).Error)

	reloaded, err := NewOrderService(db).Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(600), reloaded.Items[0].UnitPrice)
}

func TestEditNonDraftOrderConflicts(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewOrderService(db)

	order := draftOrder(t, db, f)
	_, err := svc.Accept(order.ID)
	require.NoError(t, err)

	_, err = svc.Update(order.ID, UpdateOrderInput{Note: common.PtrString("late note")})
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDeliveryOrderNeedsAddressToLeaveDraft(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewOrderService(db)

	order, err := svc.Create(CreateOrderInput{
		Fulfillment: models.FulfillmentDelivery,
		Items:       []OrderItemInput{{ProductID: f.pizza.ID, Qty: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Accept(order.ID)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.Update(order.ID, UpdateOrderInput{
		Customer: &models.CustomerSnapshot{
			Name:     common.PtrString("Budi"),
			Address1: common.PtrString("Jl. Melati 5"),
		},
	})
	require.NoError(t, err)

	accepted, err := svc.Accept(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, accepted.Status)
}

func TestOrderTerminalTransitions(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewOrderService(db)

	rejected, err := svc.Reject(draftOrder(t, db, f).ID, common.PtrString("out of stock"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, rejected.Status)
	assert.Equal(t, "out of stock", common.GetStringValue(rejected.RejectedReason))

	// terminal: no way back
	_, err = svc.Accept(rejected.ID)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	cancelled, err := svc.Cancel(draftOrder(t, db, f).ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// deliver only from accepted
	order := draftOrder(t, db, f)
	_, err = svc.Deliver(order.ID)
	require.ErrorAs(t, err, &conflict)

	_, err = svc.Accept(order.ID)
	require.NoError(t, err)
	delivered, err := svc.Deliver(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, delivered.Status)
}

func TestRejectCancelTouchNothing(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	svc := NewOrderService(db)
	stock := NewStockService(db)

	before, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)

	_, err = svc.Reject(draftOrder(t, db, f).ID, nil)
	require.NoError(t, err)
	_, err = svc.Cancel(draftOrder(t, db, f).ID)
	require.NoError(t, err)

	after, err := stock.Balance(f.flour.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	var sales int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales)
}
