package repository

import (
	"errors"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderAlreadyPaid      = errors.New("order is already paid")
	ErrOrderNotPaid          = errors.New("order is not paid")
	ErrOrderAlreadyDelivered = errors.New("order is already delivered")
)

type OrderRepository interface {
	CreateFromCart(order *model.Order, cartID uint) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint, limit, offset int) ([]model.Order, int64, error)
	MarkPaid(id uint, result *model.PaymentResult, paidAt time.Time) (*model.Order, error)
	MarkDelivered(id uint, deliveredAt time.Time) (*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

// CreateFromCart inserts the order with its items and empties the cart it
// was built from. Either all of it happens or none of it.
func (r *orderRepository) CreateFromCart(order *model.Order, cartID uint) error {
	logger.Debug("Creating order from cart in database", map[string]interface{}{
		"user_id":     order.UserID,
		"cart_id":     cartID,
		"items":       len(order.OrderItems),
		"total_price": order.TotalPrice.StringFixed(2),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Model(&model.Cart{ID: cartID}).
			Select("items", "items_price", "shipping_price", "tax_price", "total_price").
			Updates(&model.Cart{
				Items:         []model.CartItem{},
				ItemsPrice:    decimal.Zero,
				ShippingPrice: decimal.Zero,
				TaxPrice:      decimal.Zero,
				TotalPrice:    decimal.Zero,
			}).Error
	})
	if err != nil {
		logger.Error("Failed to create order from cart in database", err, map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder(r.db).First(&order, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint, limit, offset int) ([]model.Order, int64, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	})

	var total int64
	if err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders by user ID", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	orders := []model.Order{}
	query := r.preloadOrder(r.db).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
		"total":   total,
	})
	return orders, total, nil
}

// MarkPaid settles the order once. The order row stays locked while stock is
// taken for each line, so a replayed settlement sees is_paid and returns
// ErrOrderAlreadyPaid without touching anything.
func (r *orderRepository) MarkPaid(id uint, result *model.PaymentResult, paidAt time.Time) (*model.Order, error) {
	logger.Debug("Marking order paid in database", map[string]interface{}{
		"order_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("OrderItems").
			First(&order, id).Error; err != nil {
			return err
		}
		if order.IsPaid {
			return ErrOrderAlreadyPaid
		}

		for _, item := range order.OrderItems {
			if err := tx.Model(&model.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", item.Qty, item.Qty)).
				Error; err != nil {
				return err
			}
		}

		return tx.Model(&order).
			Select("is_paid", "paid_at", "payment_result").
			Updates(&model.Order{
				IsPaid:        true,
				PaidAt:        &paidAt,
				PaymentResult: result,
			}).Error
	})
	if err != nil {
		if !errors.Is(err, ErrOrderAlreadyPaid) && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to mark order paid in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}

	return r.FindByID(id)
}

func (r *orderRepository) MarkDelivered(id uint, deliveredAt time.Time) (*model.Order, error) {
	logger.Debug("Marking order delivered in database", map[string]interface{}{
		"order_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return err
		}
		if !order.IsPaid {
			return ErrOrderNotPaid
		}
		if order.IsDelivered {
			return ErrOrderAlreadyDelivered
		}

		return tx.Model(&order).
			Select("is_delivered", "delivered_at").
			Updates(&model.Order{IsDelivered: true, DeliveredAt: &deliveredAt}).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(id)
}
