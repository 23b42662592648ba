package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/app/validator"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// Get returns the visitor's cart, or null when nothing was added yet
// GET /api/v1/cart
func (ctrl *CartController) Get(c *gin.Context) {
	cart, err := ctrl.cartService.GetMyCart(c.Request.Context(), middleware.GetSessionCartID(c), middleware.GetUserIDPtr(c))
	if err != nil {
		respondServiceError(c, err, "get cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem adds one unit of a product, creating the cart on first use
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req validator.CartItemInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.cartService.AddItemToCart(
		c.Request.Context(),
		middleware.GetSessionCartID(c),
		middleware.GetUserIDPtr(c),
		req,
	))
}

// RemoveItem takes one unit of a product out of the cart
// DELETE /api/v1/cart/items/:product_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, ok := parseID(c, "product_id")
	if !ok {
		return
	}

	respondAction(c, ctrl.cartService.RemoveItemFromCart(
		c.Request.Context(),
		middleware.GetSessionCartID(c),
		middleware.GetUserIDPtr(c),
		productID,
	))
}
