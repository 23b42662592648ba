package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Create turns the caller's cart into an order and empties the cart
// POST /api/v1/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	result := ctrl.orderService.CreateOrder(c.Request.Context(), middleware.GetSessionCartID(c), middleware.GetUserIDPtr(c))
	if result.Success {
		c.JSON(http.StatusCreated, result)
		return
	}
	respondAction(c, result)
}

// Mine pages through the caller's orders, newest first
// GET /api/v1/orders?page=
func (ctrl *OrderController) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	page, err := ctrl.orderService.GetMyOrders(c.Request.Context(), userID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns one order to its owner or an admin
// GET /api/v1/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), caller(c), id)
	if err != nil {
		respondServiceError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// PaymentIntent opens a card payment for an unpaid order
// POST /api/v1/orders/:id/payment-intent
func (ctrl *OrderController) PaymentIntent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	intent, err := ctrl.orderService.CreateStripePaymentIntent(c.Request.Context(), caller(c), id)
	if err != nil {
		respondServiceError(c, err, "create payment intent")
		return
	}

	log.Info("Payment intent created", map[string]interface{}{
		"order_id":  id,
		"intent_id": intent.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"client_secret": intent.ClientSecret,
		"intent_id":     intent.ID,
	})
}

// MarkPaid records a cash-on-delivery payment (admin only)
// PUT /api/v1/orders/:id/pay
func (ctrl *OrderController) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	respondAction(c, ctrl.orderService.UpdateOrderToPaidCOD(c.Request.Context(), id))
}

// Deliver marks a paid order as delivered (admin only)
// PUT /api/v1/orders/:id/deliver
func (ctrl *OrderController) Deliver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	respondAction(c, ctrl.orderService.UpdateOrderToDelivered(c.Request.Context(), id))
}
