package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/middleware"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
)

// StripeSignatureHeader carries the HMAC the gateway signs each delivery with.
const StripeSignatureHeader = "Stripe-Signature"

type WebhookController struct {
	paymentService service.PaymentService
}

func NewWebhookController(paymentService service.PaymentService) *WebhookController {
	return &WebhookController{paymentService: paymentService}
}

// Stripe receives gateway events. Only a verified charge.succeeded settles
// an order. Any 5xx makes the gateway deliver the event again.
// POST /api/webhooks/stripe
func (ctrl *WebhookController) Stripe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	payload, err := c.GetRawData()
	if err != nil {
		log.Warn("Unreadable webhook body", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error"})
		return
	}

	outcome, err := ctrl.paymentService.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader(StripeSignatureHeader))
	if err != nil {
		if errors.Is(err, stripe.ErrInvalidSignature) ||
			errors.Is(err, stripe.ErrInvalidPayload) ||
			errors.Is(err, stripe.ErrMissingOrderID) {
			log.Warn("Rejected webhook", map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error"})
			return
		}

		log.Error("Webhook processing failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	if outcome == service.WebhookIgnored {
		c.JSON(http.StatusOK, gin.H{"message": "event is not charge.succeeded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updateOrderToPaid was successful"})
}
