package service

import (
	"context"
	"errors"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v76"
)

// PaymentStatusCompleted is recorded on orders settled by the gateway.
const PaymentStatusCompleted = "COMPLETED"

// WebhookOutcome tells the receiver what a verified event did.
type WebhookOutcome string

const (
	WebhookSettled   WebhookOutcome = "settled"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
)

// EventVerifier authenticates a webhook body against its signature header.
type EventVerifier interface {
	ParseEvent(payload []byte, signatureHeader string) (stripego.Event, error)
}

type PaymentService interface {
	HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) (WebhookOutcome, error)
}

type paymentService struct {
	verifier EventVerifier
	orders   OrderService
}

func NewPaymentService(verifier EventVerifier, orders OrderService) PaymentService {
	return &paymentService{verifier: verifier, orders: orders}
}

// HandleStripeWebhook verifies the event and settles the order named in the
// charge metadata. Nothing is written unless the signature checks out. A
// replayed charge for an already paid order reports WebhookDuplicate without
// error so the gateway stops retrying.
func (s *paymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) (WebhookOutcome, error) {
	log := logger.FromContext(ctx)

	if s.verifier == nil {
		return "", stripe.ErrNotConfigured
	}

	event, err := s.verifier.ParseEvent(payload, signatureHeader)
	if err != nil {
		return "", err
	}

	if string(event.Type) != stripe.EventChargeSucceeded {
		log.Debug("Ignoring Stripe event", map[string]interface{}{
			"event_id":   event.ID,
			"event_type": string(event.Type),
		})
		return WebhookIgnored, nil
	}

	charge, err := stripe.ChargeFromEvent(event)
	if err != nil {
		log.Warn("Unusable charge.succeeded event", map[string]interface{}{
			"event_id": event.ID,
			"error":    err.Error(),
		})
		return "", err
	}

	result := &model.PaymentResult{
		ID:           charge.ID,
		Status:       PaymentStatusCompleted,
		EmailAddress: charge.Email,
		PricePaid:    decimal.New(charge.Amount, -2).StringFixed(2),
	}

	if _, err := s.orders.MarkOrderPaid(ctx, charge.OrderID, result); err != nil {
		if errors.Is(err, ErrOrderAlreadyPaid) {
			return WebhookDuplicate, nil
		}
		log.Error("Failed to settle order from webhook", err, map[string]interface{}{
			"event_id":  event.ID,
			"order_id":  charge.OrderID,
			"charge_id": charge.ID,
		})
		return "", err
	}

	log.Info("Order settled from webhook", map[string]interface{}{
		"event_id":   event.ID,
		"order_id":   charge.OrderID,
		"charge_id":  charge.ID,
		"price_paid": result.PricePaid,
	})
	return WebhookSettled, nil
}
