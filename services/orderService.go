package services

import (
	"errors"

	"gorm.io/gorm"

	"resto-api/models"
	"resto-api/utils/common"
	"resto-api/utils/pagination"
)

type OrderItemInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Qty       int     `json:"qty" binding:"required"`
	Note      *string `json:"note,omitempty"`
}

type CreateOrderInput struct {
	Branch      string                   `json:"branch"`
	Fulfillment string                   `json:"fulfillment"`
	CustomerID  *uint                    `json:"customer_id,omitempty"`
	Customer    *models.CustomerSnapshot `json:"customer,omitempty"`
	Items       []OrderItemInput         `json:"items"`
	Note        *string                  `json:"note,omitempty"`
}

type UpdateOrderInput struct {
	Fulfillment *string                  `json:"fulfillment,omitempty"`
	Customer    *models.CustomerSnapshot `json:"customer,omitempty"`
	Items       []OrderItemInput         `json:"items,omitempty"`
	Note        *string                  `json:"note,omitempty"`
}

type OrderFilter struct {
	Status  string `form:"status"`
	Branch  string `form:"branch"`
	DateKey string `form:"date_key"`
}

type OrderService interface {
	Create(input CreateOrderInput) (*models.Order, error)
	Update(id uint, input UpdateOrderInput) (*models.Order, error)
	Get(id uint) (*models.Order, error)
	List(filter OrderFilter, p pagination.Pagination) ([]models.Order, int64, error)
	Accept(id uint) (*models.Order, error)
	Reject(id uint, reason *string) (*models.Order, error)
	Cancel(id uint) (*models.Order, error)
	Deliver(id uint) (*models.Order, error)
}

type orderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func validFulfillment(f string) bool {
	switch f {
	case models.FulfillmentDineIn, models.FulfillmentTakeaway, models.FulfillmentDelivery:
		return true
	}
	return false
}

// buildItems resolves products and snapshots their current price onto the
// order lines.
func (s *orderService) buildItems(inputs []OrderItemInput) ([]models.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, models.Validationf("order must contain at least one item")
	}

	var items []models.OrderItem
	for _, in := range inputs {
		if in.Qty <= 0 {
			return nil, models.Validationf("invalid qty for product %d", in.ProductID)
		}

		var product models.Product
		if err := s.db.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NotFoundf("product %d not found", in.ProductID)
			}
			return nil, models.Externalf(err, "load product %d", in.ProductID)
		}
		if !product.Active {
			return nil, models.Validationf("product %q is not sellable", product.Name)
		}

		items = append(items, models.OrderItem{
			ProductID: in.ProductID,
			Qty:       in.Qty,
			Note:      in.Note,
			UnitPrice: product.Price,
			LineTotal: float64(in.Qty) * product.Price,
		})
	}
	return items, nil
}

func (s *orderService) Create(input CreateOrderInput) (*models.Order, error) {
	fulfillment := input.Fulfillment
	if fulfillment == "" {
		fulfillment = models.FulfillmentDineIn
	}
	if !validFulfillment(fulfillment) {
		return nil, models.Validationf("invalid fulfillment %q", fulfillment)
	}

	items, err := s.buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		Branch:      input.Branch,
		Status:      models.OrderDraft,
		Fulfillment: fulfillment,
		CustomerID:  input.CustomerID,
		Items:       items,
		Note:        input.Note,
	}
	if order.Branch == "" {
		order.Branch = "main"
	}

	if input.Customer != nil {
		order.Customer = *input.Customer
	} else if input.CustomerID != nil {
		// snapshot the linked customer record at order time
		var customer models.Customer
		if err := s.db.First(&customer, *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NotFoundf("customer %d not found", *input.CustomerID)
			}
			return nil, models.Externalf(err, "load customer %d", *input.CustomerID)
		}
		order.Customer = models.CustomerSnapshot{
			Name:     common.PtrString(customer.Name),
			Phone:    customer.Phone,
			Address1: customer.Address1,
			Address2: customer.Address2,
			Notes:    customer.Notes,
		}
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, models.Externalf(err, "create order")
	}
	return s.Get(order.ID)
}

func (s *orderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("order %d not found", id)
	}
	if err != nil {
		return nil, models.Externalf(err, "load order %d", id)
	}
	return &order, nil
}

func (s *orderService) List(filter OrderFilter, p pagination.Pagination) ([]models.Order, int64, error) {
	db := s.db.Model(&models.Order{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Branch != "" {
		db = db.Where("branch = ?", filter.Branch)
	}
	if filter.DateKey != "" {
		db = db.Where("DATE(created_at) = ?", filter.DateKey)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.Externalf(err, "count orders")
	}

	var orders []models.Order
	if err := db.Preload("Items.Product").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&orders).Error; err != nil {
		return nil, 0, models.Externalf(err, "list orders")
	}
	return orders, total, nil
}

func (s *orderService) Update(id uint, input UpdateOrderInput) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, models.Conflictf("order %d is %s, only draft orders can be edited", id, order.Status)
	}

	if input.Fulfillment != nil {
		if !validFulfillment(*input.Fulfillment) {
			return nil, models.Validationf("invalid fulfillment %q", *input.Fulfillment)
		}
		order.Fulfillment = *input.Fulfillment
	}
	if input.Customer != nil {
		order.Customer = *input.Customer
	}
	if input.Note != nil {
		order.Note = input.Note
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.Items != nil {
			items, err := s.buildItems(input.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return models.Externalf(err, "replace order items")
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return models.Externalf(err, "replace order items")
			}
			order.Items = nil
		}
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return models.Externalf(err, "save order %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// acceptGuard enforces the delivery precondition for leaving draft.
func acceptGuard(order *models.Order) error {
	if order.Fulfillment != models.FulfillmentDelivery {
		return nil
	}
	if common.GetStringValue(order.Customer.Name) == "" || common.GetStringValue(order.Customer.Address1) == "" {
		return models.Validationf("delivery order needs customer name and address")
	}
	return nil
}

func (s *orderService) transition(id uint, from []string, to string, mutate func(*models.Order) error) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, f := range from {
		if order.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, models.Conflictf("order %d is %s, cannot move to %s", id, order.Status, to)
	}

	if mutate != nil {
		if err := mutate(order); err != nil {
			return nil, err
		}
	}
	order.Status = to

	if err := s.db.Omit("Items").Save(order).Error; err != nil {
		return nil, models.Externalf(err, "save order %d", id)
	}
	return order, nil
}

func (s *orderService) Accept(id uint) (*models.Order, error) {
	return s.transition(id, []string{models.OrderDraft}, models.OrderAccepted, acceptGuard)
}

func (s *orderService) Reject(id uint, reason *string) (*models.Order, error) {
	return s.transition(id, []string{models.OrderDraft}, models.OrderRejected, func(o *models.Order) error {
		o.RejectedReason = reason
		return nil
	})
}

func (s *orderService) Cancel(id uint) (*models.Order, error) {
	return s.transition(id, []string{models.OrderDraft}, models.OrderCancelled, nil)
}

func (s *orderService) Deliver(id uint) (*models.Order, error) {
	return s.transition(id, []string{models.OrderAccepted}, models.OrderDelivered, nil)
}
