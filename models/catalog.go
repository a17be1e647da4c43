package models

import (
	"time"

	"gorm.io/gorm"
)

// Ingredient is the unit the stock ledger tracks. CostPerUnit feeds the
// recipe cost roll-up; ParLevel feeds the low-stock dashboard.
type Ingredient struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Unit        string         `gorm:"size:20;not null" json:"unit"` // g, ml, pcs
	CostPerUnit float64        `gorm:"not null;default:0" json:"cost_per_unit"`
	ParLevel    *float64       `json:"par_level,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Preparation is an intermediate recipe (a dough, a sauce). Yield is how
// many base units one batch produces; products consume fractions of a batch.
type Preparation struct {
	ID        uint                    `gorm:"primaryKey" json:"id"`
	Name      string                  `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Yield     float64                 `gorm:"not null;default:1" json:"yield"`
	Items     []PreparationIngredient `json:"items"`
	CreatedAt time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt          `gorm:"index" json:"-"`
}

type PreparationIngredient struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PreparationID uint       `gorm:"index;not null" json:"preparation_id"`
	IngredientID  uint       `gorm:"index;not null" json:"ingredient_id"`
	Ingredient    Ingredient `json:"ingredient"`
	Qty           float64    `gorm:"not null" json:"qty"`
}

type Product struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string           `json:"description,omitempty"`
	Price       float64           `gorm:"not null" json:"price"`
	Active      bool              `gorm:"not null;default:true" json:"active"`
	ImageURL    *string           `json:"image_url,omitempty"`
	Recipe      []RecipeComponent `json:"recipe"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// RecipeComponent links a product to either a raw ingredient or a
// preparation batch fraction. Exactly one of the two refs is set.
type RecipeComponent struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ProductID     uint         `gorm:"index;not null" json:"product_id"`
	IngredientID  *uint        `gorm:"index" json:"ingredient_id,omitempty"`
	Ingredient    *Ingredient  `json:"ingredient,omitempty"`
	PreparationID *uint        `gorm:"index" json:"preparation_id,omitempty"`
	Preparation   *Preparation `json:"preparation,omitempty"`
	Qty           float64      `gorm:"not null" json:"qty"`
}

// Customer is the address book; orders keep their own snapshot so later
// edits here never change a placed order.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Phone     *string        `gorm:"size:30" json:"phone,omitempty"`
	Address1  *string        `json:"address1,omitempty"`
	Address2  *string        `json:"address2,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
