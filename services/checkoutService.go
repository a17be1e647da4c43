package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resto-api/models"
	"resto-api/utils/audit"
	"resto-api/utils/common"
	"resto-api/utils/notify"
)

// Per-sale write locks, same discipline as the ingredient locks. The
// ingredient set can be empty (a product with no recipe rows), so Pay and
// Void must serialize on the sale itself as well. Always taken before the
// ingredient locks.
var saleLocks sync.Map

func lockSale(id uint) func() {
	v, _ := saleLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type PaymentInput struct {
	Method string  `json:"method" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Note   *string `json:"note,omitempty"`
}

// CheckoutService is the only component that crosses aggregate
// boundaries: it composes Order, Sale, payment reconciliation and the
// stock ledger into one transaction, forward (Pay) and backward (Void).
type CheckoutService struct {
	db       *gorm.DB
	stock    *StockService
	catalog  CatalogService
	calendar *Calendar
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{
		db:       db,
		stock:    NewStockService(db),
		catalog:  NewCatalogService(db),
		calendar: NewCalendar(),
	}
}

func (s *CheckoutService) GetSale(id uint) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.Preload("Payments").First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("sale %d not found", id)
	}
	if err != nil {
		return nil, models.Externalf(err, "load sale %d", id)
	}
	return &sale, nil
}

func (s *CheckoutService) loadOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("order %d not found", orderID)
	}
	if err != nil {
		return nil, models.Externalf(err, "load order %d", orderID)
	}
	return &order, nil
}

// EnsureSale creates the sale for an order, or returns the existing one.
// The unique order_id index makes concurrent duplicate creates safe: the
// loser observes the constraint violation and re-reads.
func (s *CheckoutService) EnsureSale(orderID uint) (*models.Sale, error) {
	var existing models.Sale
	err := s.db.Preload("Payments").Where("order_id = ?", orderID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.Externalf(err, "lookup sale for order %d", orderID)
	}

	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderRejected || order.Status == models.OrderCancelled {
		return nil, models.Conflictf("order %d is %s, cannot create a sale", orderID, order.Status)
	}

	var total float64
	for _, item := range order.Items {
		total += item.LineTotal
	}

	sale := models.Sale{
		Number:  "S-" + uuid.NewString(),
		OrderID: orderID,
		Status:  models.SaleDraft,
		Total:   total,
		DateKey: s.calendar.Today(),
	}
	if err := s.db.Create(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race, the other caller's sale wins
			if lookupErr := s.db.Preload("Payments").Where("order_id = ?", orderID).First(&existing).Error; lookupErr != nil {
				return nil, models.Externalf(lookupErr, "lookup sale for order %d", orderID)
			}
			return &existing, nil
		}
		return nil, models.Externalf(err, "create sale for order %d", orderID)
	}
	return &sale, nil
}

func reconcilePayments(payments []PaymentInput, total float64) (float64, error) {
	if len(payments) == 0 {
		return 0, models.Validationf("at least one payment is required")
	}
	var sum float64
	for _, p := range payments {
		if !models.ValidPaymentMethod(p.Method) {
			return 0, models.Validationf("invalid payment method %q", p.Method)
		}
		if p.Amount <= 0 {
			return 0, models.Validationf("payment amount must be positive")
		}
		sum += p.Amount
	}
	if sum < total {
		return 0, models.Validationf("payments %.2f below sale total %.2f", sum, total)
	}
	return sum, nil
}

// openSessionID resolves the acting user's open cash session, if any, so
// drawer records reconcile per session instead of per time window.
func openSessionID(tx *gorm.DB, userID *uint) *uint {
	if userID == nil {
		return nil
	}
	var session models.CashSession
	if err := tx.Where("user_id = ? AND status = ?", *userID, "open").First(&session).Error; err != nil {
		return nil
	}
	return &session.ID
}

func cashPortion(payments []models.Payment) float64 {
	var cash float64
	for _, p := range payments {
		if p.Method == models.PaymentCash {
			cash += p.Amount
		}
	}
	return cash
}

// Checkout runs the forward pipeline for an order: ensure the sale, then
// pay it.
func (s *CheckoutService) Checkout(orderID uint, dateKey string, payments []PaymentInput, userID *uint) (*models.Sale, error) {
	sale, err := s.EnsureSale(orderID)
	if err != nil {
		return nil, err
	}
	return s.Pay(sale.ID, dateKey, payments, userID)
}

// Pay moves a sale to paid and debits the ledger for every consumed
// ingredient in a single transaction. Paying an already-paid sale is an
// idempotent success so retried requests never double-post; the per-sale
// movement dedupe keys back that up at the constraint level.
func (s *CheckoutService) Pay(saleID uint, dateKey string, payments []PaymentInput, userID *uint) (*models.Sale, error) {
	sale, err := s.GetSale(saleID)
	if err != nil {
		return nil, err
	}
	switch sale.Status {
	case models.SalePaid:
		return sale, nil
	case models.SaleVoided:
		return nil, models.Conflictf("sale %d is voided", saleID)
	}

	paid, err := reconcilePayments(payments, sale.Total)
	if err != nil {
		return nil, err
	}

	dateKey, err = s.calendar.Normalize(dateKey)
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(sale.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderRejected || order.Status == models.OrderCancelled {
		return nil, models.Conflictf("order %d is %s, cannot pay its sale", order.ID, order.Status)
	}
	if order.Status == models.OrderDraft {
		// paying freezes the order; the same delivery guard applies
		if err := acceptGuard(order); err != nil {
			return nil, err
		}
	}

	consumed, err := s.catalog.Consumption(order.Items)
	if err != nil {
		return nil, err
	}
	ingredientIDs := make([]uint, 0, len(consumed))
	for id, qty := range consumed {
		if qty > 0 {
			ingredientIDs = append(ingredientIDs, id)
		}
	}
	sort.Slice(ingredientIDs, func(i, j int) bool { return ingredientIDs[i] < ingredientIDs[j] })

	unlockSale := lockSale(saleID)
	defer unlockSale()
	unlock := lockIngredients(ingredientIDs)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// authoritative re-check under the transaction
		var current models.Sale
		if err := tx.First(&current, saleID).Error; err != nil {
			return models.Externalf(err, "reload sale %d", saleID)
		}
		if current.Status == models.SalePaid {
			return errAlreadySettled
		}
		if current.Status == models.SaleVoided {
			return models.Conflictf("sale %d is voided", saleID)
		}

		if order.Status == models.OrderDraft {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", models.OrderAccepted).Error; err != nil {
				return models.Externalf(err, "accept order %d", order.ID)
			}
		}

		rows := make([]models.Payment, 0, len(payments))
		for _, p := range payments {
			rows = append(rows, models.Payment{SaleID: saleID, Method: p.Method, Amount: p.Amount, Note: p.Note})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return models.Externalf(err, "store payments for sale %d", saleID)
		}

		updates := map[string]any{
			"status":        models.SalePaid,
			"paid_date_key": dateKey,
		}
		if paid > current.Total {
			updates["change"] = paid - current.Total
		}
		if err := tx.Model(&models.Sale{}).Where("id = ?", saleID).Updates(updates).Error; err != nil {
			return models.Externalf(err, "mark sale %d paid", saleID)
		}

		after := current
		after.Status = models.SalePaid
		after.PaidDateKey = &dateKey
		if err := audit.LogSale(tx, "pay", &current, &after, userID, "checkout"); err != nil {
			return models.Externalf(err, "audit sale %d", saleID)
		}

		refType := models.RefSale
		for _, ingredientID := range ingredientIDs {
			mv := &models.StockMovement{
				DateKey:         dateKey,
				IngredientID:    ingredientID,
				Type:            models.MovementOut,
				Reason:          models.ReasonSale,
				Qty:             -consumed[ingredientID],
				RefType:         &refType,
				RefID:           &saleID,
				DedupeKey:       common.PtrString(fmt.Sprintf("sale:%d:ing:%d", saleID, ingredientID)),
				CreatedByUserID: userID,
			}
			if err := s.stock.insertMovement(tx, mv); err != nil {
				return err
			}
		}

		if cash := cashPortionInputs(payments); cash > 0 {
			cm := models.CashMovement{
				Direction: models.CashIn,
				Amount:    cash,
				DateKey:   dateKey,
				SessionID: openSessionID(tx, userID),
				RefType:   &refType,
				RefID:     &saleID,
			}
			if err := tx.Create(&cm).Error; err != nil {
				return models.Externalf(err, "store cash movement for sale %d", saleID)
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, errAlreadySettled) {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// retried checkout raced us; whoever committed wins
			if settled, lookupErr := s.GetSale(saleID); lookupErr == nil && settled.Status == models.SalePaid {
				return settled, nil
			}
		}
		var validation *models.ValidationError
		var conflict *models.ConflictError
		var notFound *models.NotFoundError
		if errors.As(err, &validation) || errors.As(err, &conflict) || errors.As(err, &notFound) {
			return nil, err
		}
		return nil, models.Externalf(err, "commit checkout for sale %d", saleID)
	}

	sale, err = s.GetSale(saleID)
	if err != nil {
		return nil, err
	}
	s.notifyPaid(order, sale)
	return sale, nil
}

// errAlreadySettled aborts the transaction without treating it as a
// failure: a concurrent retry already committed the same outcome.
var errAlreadySettled = errors.New("sale already settled")

func cashPortionInputs(payments []PaymentInput) float64 {
	var cash float64
	for _, p := range payments {
		if p.Method == models.PaymentCash {
			cash += p.Amount
		}
	}
	return cash
}

// Void reverses a paid sale: one reversal per original ledger debit, a
// compensating cash-out, and the voided status, all in one transaction.
// Voiding an already-voided sale is an idempotent no-op.
func (s *CheckoutService) Void(saleID uint, reason *string, dateKey string, userID *uint) (*models.Sale, error) {
	sale, err := s.GetSale(saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == models.SaleVoided {
		return sale, nil
	}
	if sale.Status != models.SalePaid {
		return nil, models.Conflictf("sale %d is %s, only paid sales can be voided", saleID, sale.Status)
	}

	dateKey, err = s.calendar.Normalize(dateKey)
	if err != nil {
		return nil, err
	}

	var movements []models.StockMovement
	if err := s.db.Where("ref_type = ? AND ref_id = ? AND reason = ?", models.RefSale, saleID, models.ReasonSale).
		Find(&movements).Error; err != nil {
		return nil, models.Externalf(err, "load movements for sale %d", saleID)
	}

	ingredientIDs := make([]uint, 0, len(movements))
	for _, mv := range movements {
		ingredientIDs = append(ingredientIDs, mv.IngredientID)
	}

	unlockSale := lockSale(saleID)
	defer unlockSale()
	unlock := lockIngredients(ingredientIDs)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Sale
		if err := tx.First(&current, saleID).Error; err != nil {
			return models.Externalf(err, "reload sale %d", saleID)
		}
		if current.Status == models.SaleVoided {
			return errAlreadySettled
		}
		if current.Status != models.SalePaid {
			return models.Conflictf("sale %d is %s, only paid sales can be voided", saleID, current.Status)
		}

		updates := map[string]any{"status": models.SaleVoided}
		if reason != nil {
			updates["void_reason"] = *reason
		}
		if err := tx.Model(&models.Sale{}).Where("id = ?", saleID).Updates(updates).Error; err != nil {
			return models.Externalf(err, "mark sale %d voided", saleID)
		}

		after := current
		after.Status = models.SaleVoided
		after.VoidReason = reason
		if err := audit.LogSale(tx, "void", &current, &after, userID, common.GetStringValue(reason)); err != nil {
			return models.Externalf(err, "audit sale %d", saleID)
		}

		refType := models.RefMovement
		for _, mv := range movements {
			reversal := &models.StockMovement{
				DateKey:         dateKey,
				IngredientID:    mv.IngredientID,
				Type:            models.MovementReversal,
				Reason:          mv.Reason,
				Qty:             -mv.Qty,
				RefType:         &refType,
				RefID:           common.PtrUint(mv.ID),
				DedupeKey:       common.PtrString(fmt.Sprintf("void:%d:mv:%d", saleID, mv.ID)),
				Note:            reason,
				CreatedByUserID: userID,
			}
			if err := s.stock.insertMovement(tx, reversal); err != nil {
				return err
			}
		}

		if cash := cashPortion(sale.Payments); cash > 0 {
			saleRef := models.RefSale
			cm := models.CashMovement{
				Direction: models.CashOut,
				Amount:    cash,
				DateKey:   dateKey,
				SessionID: openSessionID(tx, userID),
				RefType:   &saleRef,
				RefID:     &saleID,
				Note:      reason,
			}
			if err := tx.Create(&cm).Error; err != nil {
				return models.Externalf(err, "store cash movement for sale %d", saleID)
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, errAlreadySettled) {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if settled, lookupErr := s.GetSale(saleID); lookupErr == nil && settled.Status == models.SaleVoided {
				return settled, nil
			}
		}
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, models.Externalf(err, "commit void for sale %d", saleID)
	}

	sale, err = s.GetSale(saleID)
	if err != nil {
		return nil, err
	}
	s.notifyVoided(sale)
	return sale, nil
}

func (s *CheckoutService) notifyPaid(order *models.Order, sale *models.Sale) {
	phone := common.GetStringValue(order.Customer.Phone)
	if phone == "" {
		return
	}
	go func() {
		if err := notify.SendWhatsApp(phone, notify.FormatSalePaid(sale)); err != nil {
			log.Printf("whatsapp notify failed for sale %d: %v", sale.ID, err)
		}
	}()
}

func (s *CheckoutService) notifyVoided(sale *models.Sale) {
	var order models.Order
	if err := s.db.First(&order, sale.OrderID).Error; err != nil {
		return
	}
	phone := common.GetStringValue(order.Customer.Phone)
	if phone == "" {
		return
	}
	go func() {
		if err := notify.SendWhatsApp(phone, notify.FormatSaleVoided(sale)); err != nil {
			log.Printf("whatsapp notify failed for sale %d: %v", sale.ID, err)
		}
	}()
}
