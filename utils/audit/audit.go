package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"resto-api/models"
)

func toJSONString(v any) *string {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// LogSale writes one audit row for a sale transition, inside whatever
// transaction the caller is running.
func LogSale(db *gorm.DB, action string, oldSale, newSale *models.Sale, userID *uint, description string) error {
	entityID := uint(0)
	if newSale != nil {
		entityID = newSale.ID
	} else if oldSale != nil {
		entityID = oldSale.ID
	}

	row := models.AuditLog{
		EntityType:  "sale",
		EntityID:    entityID,
		Action:      action,
		UserID:      userID,
		OldValue:    toJSONString(oldSale),
		NewValue:    toJSONString(newSale),
		Description: description,
	}
	return db.Create(&row).Error
}
