package service

import (
	"context"
	"errors"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/events"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentUnavailable = errors.New("card payments are not configured")

// PaymentIntentCreator opens a card payment with the gateway.
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, orderID uint) (*stripe.PaymentIntent, error)
}

type OrderPage struct {
	Data       []model.Order `json:"data"`
	TotalPages int           `json:"total_pages"`
	Total      int64         `json:"total"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, sessionCartID string, userID *uint) ActionResult
	GetOrderByID(ctx context.Context, caller *model.User, orderID uint) (*model.Order, error)
	GetMyOrders(ctx context.Context, userID uint, page, limit int) (*OrderPage, error)
	MarkOrderPaid(ctx context.Context, orderID uint, result *model.PaymentResult) (*model.Order, error)
	UpdateOrderToPaidCOD(ctx context.Context, orderID uint) ActionResult
	UpdateOrderToDelivered(ctx context.Context, orderID uint) ActionResult
	CreateStripePaymentIntent(ctx context.Context, caller *model.User, orderID uint) (*stripe.PaymentIntent, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	publisher events.Publisher
	payments  PaymentIntentCreator
	pageSize  int
	now       func() time.Time
}

// NewOrderService wires the order flow. publisher and payments may be nil:
// settlements are then not announced and card payments are refused.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	payments PaymentIntentCreator,
) OrderService {
	if publisher == nil {
		publisher = events.NewInlinePublisher(nil)
	}
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		publisher: publisher,
		payments:  payments,
		pageSize:  12,
		now:       time.Now,
	}
}

// CreateOrder turns the caller's cart into an order. The user must have a
// shipping address and a payment method on file.
func (s *orderService) CreateOrder(ctx context.Context, sessionCartID string, userID *uint) (result ActionResult) {
	defer guard(&result, "create order")

	if userID == nil || *userID == 0 {
		return failure(ErrUnauthenticated, "create order")
	}

	cart, err := s.cartRepo.FindByUserID(*userID)
	if errors.Is(err, gorm.ErrRecordNotFound) && sessionCartID != "" {
		cart, err = s.cartRepo.FindBySessionID(sessionCartID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrCartEmpty, "create order")
		}
		return failure(err, "create order")
	}
	if len(cart.Items) == 0 {
		return failure(ErrCartEmpty, "create order")
	}

	user, err := s.userRepo.FindByID(*userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrUserNotFound, "create order")
		}
		return failure(err, "create order")
	}
	if user.Address == nil {
		return failure(ErrNoShippingAddress, "create order")
	}
	if user.PaymentMethod == "" {
		return failure(ErrNoPaymentMethod, "create order")
	}

	prices := CalcPrices(cart.Items)
	order := &model.Order{
		UserID:          user.ID,
		ShippingAddress: *user.Address,
		PaymentMethod:   user.PaymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		ShippingPrice:   prices.ShippingPrice,
		TaxPrice:        prices.TaxPrice,
		TotalPrice:      prices.TotalPrice,
	}
	for _, item := range cart.Items {
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			Image:     item.Image,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}

	if err := s.orderRepo.CreateFromCart(order, cart.ID); err != nil {
		return failure(err, "create order")
	}

	logger.FromContext(ctx).Info("Order created", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"payment_method": order.PaymentMethod,
		"total_price":    order.TotalPrice.StringFixed(2),
	})
	return succeed("Order created successfully", order)
}

// GetOrderByID returns the order if the caller owns it or is an admin.
func (s *orderService) GetOrderByID(ctx context.Context, caller *model.User, orderID uint) (*model.Order, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != caller.ID && !caller.IsAdmin() {
		logger.FromContext(ctx).Warn("Order access denied", map[string]interface{}{
			"order_id": orderID,
			"user_id":  caller.ID,
		})
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderService) GetMyOrders(ctx context.Context, userID uint, page, limit int) (*OrderPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orderRepo.FindByUserID(userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Data:       orders,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Total:      total,
	}, nil
}

// MarkOrderPaid settles the order and announces it. A second settlement of
// the same order returns ErrOrderAlreadyPaid and publishes nothing.
func (s *orderService) MarkOrderPaid(ctx context.Context, orderID uint, result *model.PaymentResult) (*model.Order, error) {
	log := logger.FromContext(ctx)

	order, err := s.orderRepo.MarkPaid(orderID, result, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		if errors.Is(err, ErrOrderAlreadyPaid) {
			log.Warn("Order already paid", map[string]interface{}{
				"order_id": orderID,
			})
		}
		return nil, err
	}

	log.Info("Order paid", map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"total_price": order.TotalPrice.StringFixed(2),
	})

	event := events.OrderPaidEvent{
		Type:       events.TypeOrderPaid,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice.StringFixed(2),
		PaidAt:     *order.PaidAt,
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishOrderPaid(ctx, event); err != nil {
		log.Error("Failed to publish order paid event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
	return order, nil
}

// UpdateOrderToPaidCOD lets an admin record cash collected on delivery.
func (s *orderService) UpdateOrderToPaidCOD(ctx context.Context, orderID uint) (result ActionResult) {
	defer guard(&result, "mark order paid")

	order, err := s.MarkOrderPaid(ctx, orderID, nil)
	if err != nil {
		return failure(err, "mark order paid")
	}
	return succeed("Order marked as paid", order)
}

func (s *orderService) UpdateOrderToDelivered(ctx context.Context, orderID uint) (result ActionResult) {
	defer guard(&result, "mark order delivered")

	order, err := s.orderRepo.MarkDelivered(orderID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrOrderNotFound, "mark order delivered")
		}
		return failure(err, "mark order delivered")
	}

	logger.FromContext(ctx).Info("Order delivered", map[string]interface{}{
		"order_id": order.ID,
	})
	return succeed("Order has been marked as delivered", order)
}

// CreateStripePaymentIntent opens a card payment for an unpaid order. The
// order id travels in the intent metadata and comes back on the webhook.
func (s *orderService) CreateStripePaymentIntent(ctx context.Context, caller *model.User, orderID uint) (*stripe.PaymentIntent, error) {
	if s.payments == nil {
		return nil, ErrPaymentUnavailable
	}

	order, err := s.GetOrderByID(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return nil, ErrOrderAlreadyPaid
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, order.TotalPrice, order.ID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to create payment intent", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}
	return intent, nil
}
