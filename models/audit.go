package models

import "time"

// AuditLog keeps a before/after JSON trail for sale transitions.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityType  string    `gorm:"size:30;index:idx_audit_entity;not null" json:"entity_type"`
	EntityID    uint      `gorm:"index:idx_audit_entity;not null" json:"entity_id"`
	Action      string    `gorm:"size:20;not null" json:"action"`
	UserID      *uint     `json:"user_id,omitempty"`
	OldValue    *string   `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    *string   `gorm:"type:text" json:"new_value,omitempty"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
