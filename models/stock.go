package models

import "time"

const (
	MovementIn       = "in"
	MovementOut      = "out"
	MovementAdjust   = "adjust"
	MovementReversal = "reversal"
)

const (
	ReasonManual     = "manual"
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonWaste      = "waste"
	ReasonCount      = "count"
	ReasonTransfer   = "transfer"
	ReasonProduction = "production"
	ReasonAdjustment = "adjustment"
)

// Ref discriminators for the aggregate that caused a movement.
const (
	RefSale     = "sale"
	RefMovement = "movement" // reversal pointing at the entry it negates
	RefManual   = "manual"
	RefSeed     = "seed"
)

// StockMovement is one entry in the append-only inventory ledger. Rows are
// never updated or deleted; a mistake is corrected by a reversal entry.
// QtyAfter is the running balance at insertion time, kept for audit only;
// the authoritative balance is always SUM(qty).
type StockMovement struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	DateKey         string     `gorm:"size:10;index;not null" json:"date_key"`
	IngredientID    uint       `gorm:"index;not null" json:"ingredient_id"`
	Ingredient      Ingredient `json:"ingredient"`
	Type            string     `gorm:"size:10;not null" json:"type"`
	Reason          string     `gorm:"size:20;not null" json:"reason"`
	Qty             float64    `gorm:"not null" json:"qty"` // signed: in > 0, out < 0
	QtyAfter        float64    `gorm:"not null" json:"qty_after"`
	RefType         *string    `gorm:"size:20;index:idx_stock_ref" json:"ref_type,omitempty"`
	RefID           *uint      `gorm:"index:idx_stock_ref" json:"ref_id,omitempty"`
	DedupeKey       *string    `gorm:"size:100;uniqueIndex" json:"dedupe_key,omitempty"`
	Note            *string    `json:"note,omitempty"`
	CreatedByUserID *uint      `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func ValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust, MovementReversal:
		return true
	}
	return false
}

func ValidMovementReason(r string) bool {
	switch r {
	case ReasonManual, ReasonPurchase, ReasonSale, ReasonWaste,
		ReasonCount, ReasonTransfer, ReasonProduction, ReasonAdjustment:
		return true
	}
	return false
}

// IngredientBalance is the derived running balance view.
type IngredientBalance struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Balance      float64 `json:"balance"`
}
