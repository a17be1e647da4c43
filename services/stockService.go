package services

import (
	"errors"
	"math"
	"sort"
	"sync"

	"gorm.io/gorm"

	"resto-api/models"
	"resto-api/utils/pagination"
)

// Per-ingredient write locks shared by every StockService instance. Two
// operations touching the same ingredient's balance must serialize; locks
// are always taken in ascending ingredient order to avoid deadlock.
var ingredientLocks sync.Map

func lockIngredients(ids []uint) func() {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var held []*sync.Mutex
	var last uint
	for i, id := range sorted {
		if i > 0 && id == last {
			continue
		}
		last = id
		v, _ := ingredientLocks.LoadOrStore(id, &sync.Mutex{})
		mu := v.(*sync.Mutex)
		mu.Lock()
		held = append(held, mu)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

type MovementInput struct {
	IngredientID uint
	Type         string
	Reason       string
	Qty          float64
	DateKey      string
	RefType      *string
	RefID        *uint
	DedupeKey    *string
	Note         *string
	UserID       *uint
}

type MovementFilter struct {
	IngredientID uint   `form:"ingredient_id"`
	DateKey      string `form:"date_key"`
	RefType      string `form:"ref_type"`
	RefID        uint   `form:"ref_id"`
}

type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// normalizeQty applies the sign implied by the movement type. IN and OUT
// ignore the caller's sign; ADJUST and REVERSAL keep it.
func normalizeQty(movementType string, qty float64) float64 {
	switch movementType {
	case models.MovementIn:
		return math.Abs(qty)
	case models.MovementOut:
		return -math.Abs(qty)
	default:
		return qty
	}
}

// insertMovement appends one ledger row inside the given transaction. The
// caller must hold the ingredient lock. Sign is assumed normalized.
func (s *StockService) insertMovement(tx *gorm.DB, mv *models.StockMovement) error {
	var exists int64
	if err := tx.Model(&models.Ingredient{}).Where("id = ?", mv.IngredientID).Count(&exists).Error; err != nil {
		return models.Externalf(err, "check ingredient %d", mv.IngredientID)
	}
	if exists == 0 {
		return models.NotFoundf("ingredient %d not found", mv.IngredientID)
	}

	var balance float64
	if err := tx.Model(&models.StockMovement{}).
		Where("ingredient_id = ?", mv.IngredientID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&balance).Error; err != nil {
		return models.Externalf(err, "sum balance for ingredient %d", mv.IngredientID)
	}

	mv.QtyAfter = balance + mv.Qty
	if err := tx.Create(mv).Error; err != nil {
		return err
	}
	return nil
}

// RecordMovement appends a single movement. A repeated dedupeKey is a
// no-op that returns the previously inserted row; the uniqueness lives in
// the index, not in a check-then-insert.
func (s *StockService) RecordMovement(input MovementInput) (*models.StockMovement, error) {
	if !models.ValidMovementType(input.Type) {
		return nil, models.Validationf("invalid movement type %q", input.Type)
	}
	if !models.ValidMovementReason(input.Reason) {
		return nil, models.Validationf("invalid movement reason %q", input.Reason)
	}
	if input.Qty == 0 {
		return nil, models.Validationf("movement qty must not be zero")
	}

	mv := &models.StockMovement{
		DateKey:         input.DateKey,
		IngredientID:    input.IngredientID,
		Type:            input.Type,
		Reason:          input.Reason,
		Qty:             normalizeQty(input.Type, input.Qty),
		RefType:         input.RefType,
		RefID:           input.RefID,
		DedupeKey:       input.DedupeKey,
		Note:            input.Note,
		CreatedByUserID: input.UserID,
	}

	unlock := lockIngredients([]uint{input.IngredientID})
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.insertMovement(tx, mv)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) && input.DedupeKey != nil {
		var prior models.StockMovement
		if lookupErr := s.db.Where("dedupe_key = ?", *input.DedupeKey).First(&prior).Error; lookupErr != nil {
			return nil, models.Externalf(lookupErr, "lookup movement by dedupe key")
		}
		return &prior, nil
	}
	if err != nil {
		var validation *models.ValidationError
		var notFound *models.NotFoundError
		if errors.As(err, &validation) || errors.As(err, &notFound) {
			return nil, err
		}
		return nil, models.Externalf(err, "record movement")
	}
	return mv, nil
}

// Reverse appends the exact negation of an existing movement. The original
// row is never touched.
func (s *StockService) Reverse(movementID uint, dateKey string, dedupeKey *string, userID *uint) (*models.StockMovement, error) {
	var original models.StockMovement
	if err := s.db.First(&original, movementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("movement %d not found", movementID)
		}
		return nil, models.Externalf(err, "load movement %d", movementID)
	}

	refType := models.RefMovement
	return s.RecordMovement(MovementInput{
		IngredientID: original.IngredientID,
		Type:         models.MovementReversal,
		Reason:       original.Reason,
		Qty:          -original.Qty,
		DateKey:      dateKey,
		RefType:      &refType,
		RefID:        &original.ID,
		DedupeKey:    dedupeKey,
		UserID:       userID,
	})
}

func (s *StockService) Balance(ingredientID uint) (float64, error) {
	var exists int64
	if err := s.db.Model(&models.Ingredient{}).Where("id = ?", ingredientID).Count(&exists).Error; err != nil {
		return 0, models.Externalf(err, "check ingredient %d", ingredientID)
	}
	if exists == 0 {
		return 0, models.NotFoundf("ingredient %d not found", ingredientID)
	}

	var balance float64
	if err := s.db.Model(&models.StockMovement{}).
		Where("ingredient_id = ?", ingredientID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&balance).Error; err != nil {
		return 0, models.Externalf(err, "sum balance for ingredient %d", ingredientID)
	}
	return balance, nil
}

func (s *StockService) Balances() ([]models.IngredientBalance, error) {
	var balances []models.IngredientBalance
	err := s.db.Model(&models.Ingredient{}).
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.unit, COALESCE(SUM(stock_movements.qty), 0) AS balance").
		Joins("LEFT JOIN stock_movements ON stock_movements.ingredient_id = ingredients.id").
		Group("ingredients.id, ingredients.name, ingredients.unit").
		Order("ingredients.name").
		Scan(&balances).Error
	if err != nil {
		return nil, models.Externalf(err, "list balances")
	}
	return balances, nil
}

func (s *StockService) Movements(filter MovementFilter, p pagination.Pagination) ([]models.StockMovement, int64, error) {
	db := s.db.Model(&models.StockMovement{})
	if filter.IngredientID != 0 {
		db = db.Where("ingredient_id = ?", filter.IngredientID)
	}
	if filter.DateKey != "" {
		db = db.Where("date_key = ?", filter.DateKey)
	}
	if filter.RefType != "" {
		db = db.Where("ref_type = ?", filter.RefType)
	}
	if filter.RefID != 0 {
		db = db.Where("ref_id = ?", filter.RefID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.Externalf(err, "count movements")
	}

	var movements []models.StockMovement
	if err := db.Preload("Ingredient").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&movements).Error; err != nil {
		return nil, 0, models.Externalf(err, "list movements")
	}
	return movements, total, nil
}
