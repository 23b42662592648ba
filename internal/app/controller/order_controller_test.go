package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/service"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderResponse struct {
	actionBody
	Data model.Order `json:"data"`
}

var testAddress = map[string]interface{}{
	"full_name":      "Jane Buyer",
	"street_address": "1 Main St",
	"city":           "Springfield",
	"postal_code":    "12345",
	"country":        "USA",
}

func TestOrderController_Checkout(t *testing.T) {
	api := setupTestAPI(t)
	buyer, buyerToken := api.seedUser(t, "buyer@example.com", model.RoleUser)
	_, otherToken := api.seedUser(t, "other@example.com", model.RoleUser)
	_, adminToken := api.seedUser(t, "admin@example.com", model.RoleAdmin)
	product := api.seedProduct(t, "boots", "25.00", 10)

	const session = "checkout-session"
	for i := 0; i < 2; i++ {
		w := api.do(t, request{
			method:  http.MethodPost,
			path:    "/api/v1/cart/items",
			body:    map[string]interface{}{"product_id": product.ID},
			token:   buyerToken,
			session: session,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	t.Run("needs an address first", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: buyerToken, session: session})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body actionBody
		decode(t, w, &body)
		assert.Equal(t, "No shipping address", body.Message)
		assert.Equal(t, apperrors.ValidationRequired, body.Code)
	})

	w := api.do(t, request{method: http.MethodPut, path: "/api/v1/users/me/address", body: testAddress, token: buyerToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(t, request{method: http.MethodPut, path: "/api/v1/users/me/payment-method", body: map[string]string{"type": model.PaymentMethodCashOnDelivery}, token: buyerToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: buyerToken, session: session})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created orderResponse
	decode(t, w, &created)
	assert.Equal(t, "Order created successfully", created.Message)
	order := created.Data
	assert.Equal(t, buyer.ID, order.UserID)
	assert.Equal(t, "67.50", order.TotalPrice.StringFixed(2))
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 2, order.OrderItems[0].Qty)

	orderPath := fmt.Sprintf("/api/v1/orders/%d", order.ID)

	t.Run("cart is emptied", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/orders", token: buyerToken, session: session})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body actionBody
		decode(t, w, &body)
		assert.Equal(t, apperrors.CartEmpty, body.Code)
	})

	t.Run("access", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, api.do(t, request{method: http.MethodGet, path: orderPath, token: buyerToken}).Code)
		assert.Equal(t, http.StatusOK, api.do(t, request{method: http.MethodGet, path: orderPath, token: adminToken}).Code)
		assert.Equal(t, http.StatusForbidden, api.do(t, request{method: http.MethodGet, path: orderPath, token: otherToken}).Code)
		assert.Equal(t, http.StatusUnauthorized, api.do(t, request{method: http.MethodGet, path: orderPath}).Code)
		assert.Equal(t, http.StatusNotFound, api.do(t, request{method: http.MethodGet, path: "/api/v1/orders/9999", token: adminToken}).Code)
	})

	t.Run("my orders", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodGet, path: "/api/v1/orders", token: buyerToken})
		require.Equal(t, http.StatusOK, w.Code)

		var page service.OrderPage
		decode(t, w, &page)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.TotalPages)

		w = api.do(t, request{method: http.MethodGet, path: "/api/v1/orders", token: otherToken})
		page = service.OrderPage{}
		decode(t, w, &page)
		assert.Zero(t, page.Total)
	})

	t.Run("card payments are not configured", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: orderPath + "/payment-intent", token: buyerToken})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("admin settles and delivers", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPut, path: orderPath + "/deliver", token: adminToken})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body actionBody
		decode(t, w, &body)
		assert.Equal(t, apperrors.OrderNotPaid, body.Code)

		w = api.do(t, request{method: http.MethodPut, path: orderPath + "/pay", token: buyerToken})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = api.do(t, request{method: http.MethodPut, path: orderPath + "/pay", token: adminToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = api.do(t, request{method: http.MethodPut, path: orderPath + "/pay", token: adminToken})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = api.do(t, request{method: http.MethodPut, path: orderPath + "/deliver", token: adminToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var delivered orderResponse
		decode(t, w, &delivered)
		assert.Equal(t, "Order has been marked as delivered", delivered.Message)
		assert.True(t, delivered.Data.IsDelivered)

		var stored model.Product
		require.NoError(t, api.db.First(&stored, product.ID).Error)
		assert.Equal(t, 8, stored.Stock)
	})
}
