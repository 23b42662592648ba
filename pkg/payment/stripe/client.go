package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Client verifies webhooks and creates payment intents.
type Client struct {
	config Config
	api    *client.API
}

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Currency == "" {
		config.Currency = "usd"
	}

	c := &Client{config: config}
	if config.SecretKey != "" {
		c.api = client.New(config.SecretKey, nil)
	}
	return c, nil
}

// ParseEvent verifies the signature header against the raw body and decodes
// the event. Any verification failure is reported as ErrInvalidSignature.
func (c *Client) ParseEvent(payload []byte, signatureHeader string) (stripego.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.config.WebhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                webhook.DefaultTolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		logger.Warn("Stripe webhook verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return stripego.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// ChargeFromEvent extracts the settlement data of a charge.succeeded event.
func ChargeFromEvent(event stripego.Event) (*Charge, error) {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, ErrInvalidPayload
	}

	var charge stripego.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw, ok := charge.Metadata[OrderIDMetadataKey]
	if !ok || raw == "" {
		return nil, ErrMissingOrderID
	}
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		return nil, fmt.Errorf("%w: orderId %q", ErrInvalidPayload, raw)
	}

	result := &Charge{
		ID:      charge.ID,
		OrderID: uint(orderID),
		Amount:  charge.Amount,
	}
	if charge.BillingDetails != nil {
		result.Email = charge.BillingDetails.Email
	}
	return result, nil
}

// MinorUnits converts a price to whole cents, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CreatePaymentIntent asks Stripe for an intent covering amount and tags it
// with the order id so the webhook can find the order again.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, orderID uint) (*PaymentIntent, error) {
	if c.api == nil {
		return nil, ErrNoSecretKey
	}

	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(MinorUnits(amount)),
		Currency: stripego.String(c.config.Currency),
	}
	params.Context = ctx
	params.AddMetadata(OrderIDMetadataKey, strconv.FormatUint(uint64(orderID), 10))

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		logger.Error("Failed to create Stripe payment intent", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}
