package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/app/validator"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// UpdateAddress stores the caller's shipping address
// PUT /api/v1/users/me/address
func (ctrl *UserController) UpdateAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req validator.ShippingAddressInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.userService.UpdateUserAddress(c.Request.Context(), userID, req))
}

// UpdatePaymentMethod stores the caller's preferred payment method
// PUT /api/v1/users/me/payment-method
func (ctrl *UserController) UpdatePaymentMethod(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req validator.PaymentMethodInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.userService.UpdateUserPaymentMethod(c.Request.Context(), userID, req))
}

// List pages through all users (admin only)
// GET /api/v1/users?page=
func (ctrl *UserController) List(c *gin.Context) {
	page, err := ctrl.userService.ListUsers(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Update changes a user's name and role (admin only)
// PUT /api/v1/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req validator.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	respondAction(c, ctrl.userService.UpdateUser(c.Request.Context(), id, req))
}

// Delete removes a user (admin only)
// DELETE /api/v1/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	respondAction(c, ctrl.userService.DeleteUser(c.Request.Context(), id))
}
