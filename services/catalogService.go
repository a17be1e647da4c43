package services

import (
	"errors"

	"gorm.io/gorm"

	"resto-api/models"
)

// CatalogService is the read-only collaborator of the checkout pipeline:
// price/cost lookups and recipe-implied ingredient consumption. Catalog
// maintenance itself stays in the controllers.
type CatalogService interface {
	GetProduct(id uint) (*models.Product, error)
	ProductCost(id uint) (float64, error)
	Consumption(items []models.OrderItem) (map[uint]float64, error)
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("Recipe.Ingredient").
		Preload("Recipe.Preparation.Items.Ingredient").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("product %d not found", id)
	}
	if err != nil {
		return nil, models.Externalf(err, "load product %d", id)
	}
	return &product, nil
}

// ProductCost rolls the recipe up to a cost per portion: raw ingredients
// at cost-per-unit, preparations as a batch fraction of their own roll-up.
func (s *catalogService) ProductCost(id uint) (float64, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return 0, err
	}

	var cost float64
	for _, comp := range product.Recipe {
		switch {
		case comp.IngredientID != nil && comp.Ingredient != nil:
			cost += comp.Qty * comp.Ingredient.CostPerUnit
		case comp.PreparationID != nil && comp.Preparation != nil:
			batch := preparationCost(comp.Preparation)
			if comp.Preparation.Yield > 0 {
				cost += comp.Qty * batch / comp.Preparation.Yield
			}
		}
	}
	return cost, nil
}

func preparationCost(prep *models.Preparation) float64 {
	var cost float64
	for _, item := range prep.Items {
		cost += item.Qty * item.Ingredient.CostPerUnit
	}
	return cost
}

// Consumption flattens order items into per-ingredient quantities: direct
// recipe ingredients plus preparation components scaled by batch yield.
func (s *catalogService) Consumption(items []models.OrderItem) (map[uint]float64, error) {
	consumed := make(map[uint]float64)

	for _, item := range items {
		product, err := s.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}

		qty := float64(item.Qty)
		for _, comp := range product.Recipe {
			switch {
			case comp.IngredientID != nil:
				consumed[*comp.IngredientID] += comp.Qty * qty
			case comp.PreparationID != nil && comp.Preparation != nil:
				if comp.Preparation.Yield <= 0 {
					return nil, models.Validationf("preparation %d has non-positive yield", *comp.PreparationID)
				}
				share := comp.Qty * qty / comp.Preparation.Yield
				for _, prepItem := range comp.Preparation.Items {
					consumed[prepItem.IngredientID] += prepItem.Qty * share
				}
			}
		}
	}
	return consumed, nil
}
