package models

import "time"

const (
	CashIn  = "in"
	CashOut = "out"
)

// CashMovement records physical cash entering or leaving the drawer.
// Checkout writes an "in" row for the cash portion of a sale; voiding a
// paid sale writes the compensating "out" row.
type CashMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Direction string    `gorm:"size:5;not null" json:"direction"`
	Amount    float64   `gorm:"not null" json:"amount"`
	DateKey   string    `gorm:"size:10;index;not null" json:"date_key"`
	SessionID *uint     `gorm:"index" json:"session_id,omitempty"`
	RefType   *string   `gorm:"size:20;index:idx_cash_ref" json:"ref_type,omitempty"`
	RefID     *uint     `gorm:"index:idx_cash_ref" json:"ref_id,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CashSession struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Status       string     `gorm:"size:10;not null;default:'open'" json:"status"` // open, closed
	OpeningCash  float64    `gorm:"not null" json:"opening_cash"`
	TotalCashIn  float64    `json:"total_cash_in"`
	TotalCashOut float64    `json:"total_cash_out"`
	ExpectedCash float64    `json:"expected_cash"`
	ClosingCash  *float64   `json:"closing_cash,omitempty"`
	Difference   *float64   `json:"difference,omitempty"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}
