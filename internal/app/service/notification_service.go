package service

import (
	"context"
	"errors"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/events"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/mail"
	"gorm.io/gorm"
)

// NotificationService emails customers about their orders.
type NotificationService interface {
	SendPurchaseReceipt(ctx context.Context, order *model.Order) error
	HandleOrderPaid(ctx context.Context, event events.OrderPaidEvent) error
}

type notificationService struct {
	orderRepo    repository.OrderRepository
	sender       mail.Sender
	from         string
	imageBaseURL string
}

func NewNotificationService(orderRepo repository.OrderRepository, sender mail.Sender, from, imageBaseURL string) NotificationService {
	return &notificationService{
		orderRepo:    orderRepo,
		sender:       sender,
		from:         from,
		imageBaseURL: imageBaseURL,
	}
}

// SendPurchaseReceipt renders the receipt for a paid order and mails it to
// the customer. order.User must be loaded.
func (s *notificationService) SendPurchaseReceipt(ctx context.Context, order *model.Order) error {
	if order.User == nil || order.User.Email == "" {
		return mail.ErrNoRecipient
	}

	purchasedAt := order.CreatedAt
	if order.PaidAt != nil {
		purchasedAt = *order.PaidAt
	}

	receipt := mail.Receipt{
		OrderID:       order.ID,
		PurchasedAt:   purchasedAt,
		ItemsPrice:    order.ItemsPrice,
		TaxPrice:      order.TaxPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		ImageBaseURL:  s.imageBaseURL,
	}
	for _, item := range order.OrderItems {
		receipt.Lines = append(receipt.Lines, mail.ReceiptLine{
			Name:  item.Name,
			Qty:   item.Qty,
			Image: item.Image,
			Price: item.Price,
		})
	}

	html, err := mail.RenderReceipt(receipt)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, mail.Message{
		From:    s.from,
		To:      order.User.Email,
		Subject: mail.ReceiptSubject(order.ID),
		HTML:    html,
	})
}

// HandleOrderPaid is the events.Handler that sends the receipt.
func (s *notificationService) HandleOrderPaid(ctx context.Context, event events.OrderPaidEvent) error {
	log := logger.FromContext(ctx)

	order, err := s.orderRepo.FindByID(event.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Paid order vanished before its receipt was sent", map[string]interface{}{
				"order_id": event.OrderID,
			})
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.SendPurchaseReceipt(ctx, order); err != nil {
		log.Error("Failed to send purchase receipt", err, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  order.UserID,
		})
		return err
	}

	log.Info("Purchase receipt sent", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}
