package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderDraft     = "draft"
	OrderAccepted  = "accepted"
	OrderRejected  = "rejected"
	OrderCancelled = "cancelled"
	OrderDelivered = "delivered"
)

const (
	FulfillmentDineIn   = "dine_in"
	FulfillmentTakeaway = "takeaway"
	FulfillmentDelivery = "delivery"
)

// CustomerSnapshot is captured at order time. It never follows later
// edits to the linked Customer row.
type CustomerSnapshot struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address1 *string `json:"address1,omitempty"`
	Address2 *string `json:"address2,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type Order struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Branch         string           `gorm:"size:30;not null;default:'main'" json:"branch"`
	Status         string           `gorm:"size:20;not null;default:'draft'" json:"status"`
	Fulfillment    string           `gorm:"size:20;not null;default:'dine_in'" json:"fulfillment"`
	CustomerID     *uint            `gorm:"index" json:"customer_id,omitempty"`
	Customer       CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items          []OrderItem      `json:"items"`
	Note           *string          `gorm:"type:text" json:"note,omitempty"`
	RejectedReason *string          `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"product"`
	Qty       int     `gorm:"not null" json:"qty"`
	Note      *string `json:"note,omitempty"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"` // price snapshot at order time
	LineTotal float64 `gorm:"not null" json:"line_total"`
}

// Terminal reports whether no further status transition is possible.
func (o *Order) Terminal() bool {
	return o.Status == OrderRejected || o.Status == OrderCancelled || o.Status == OrderDelivered
}
