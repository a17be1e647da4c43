package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SaleDraft   = "draft"
	SalePending = "pending"
	SalePaid    = "paid"
	SaleVoided  = "voided"
)

const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
	PaymentOther    = "other"
)

// Sale is the financial side of an order. Total is snapshotted from the
// order items when the sale is created and never recomputed.
type Sale struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Number      string         `gorm:"uniqueIndex;size:40;not null" json:"number"`
	OrderID     uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	Status      string         `gorm:"size:20;not null;default:'draft'" json:"status"`
	Total       float64        `gorm:"not null" json:"total"`
	Change      *float64       `json:"change,omitempty"` // overpayment, informational
	DateKey     string         `gorm:"size:10;index;not null" json:"date_key"`
	PaidDateKey *string        `gorm:"size:10;index" json:"paid_date_key,omitempty"`
	VoidReason  *string        `json:"void_reason,omitempty"`
	Payments    []Payment      `json:"payments"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Payment struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	SaleID uint    `gorm:"index;not null" json:"sale_id"`
	Method string  `gorm:"size:20;not null" json:"method"`
	Amount float64 `gorm:"not null" json:"amount"`
	Note   *string `json:"note,omitempty"`
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentOther:
		return true
	}
	return false
}
