package service

import (
	"errors"
	"fmt"

	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
)

var (
	ErrUnauthenticated       = errors.New("user is not authenticated")
	ErrForbidden             = errors.New("you are not allowed to do this")
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrCartEmpty             = errors.New("your cart is empty")
	ErrOutOfStock            = errors.New("not enough stock")
	ErrNoShippingAddress     = errors.New("no shipping address")
	ErrNoPaymentMethod       = errors.New("no payment method")
	ErrOrderAlreadyPaid      = repository.ErrOrderAlreadyPaid
	ErrOrderNotPaid          = repository.ErrOrderNotPaid
	ErrOrderAlreadyDelivered = repository.ErrOrderAlreadyDelivered
)

// ActionResult is what every mutation returns instead of an error: whether
// it worked and a message fit to show the user.
type ActionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func succeed(message string, data ...interface{}) ActionResult {
	result := ActionResult{Success: true, Message: message}
	if len(data) > 0 {
		result.Data = data[0]
	}
	return result
}

// failure turns err into a failed result. context names the operation for logs.
func failure(err error, context string) ActionResult {
	code := CodeFor(err, context)
	if apperrors.StatusForCode(code) >= 500 {
		logger.Error("Action failed", err, map[string]interface{}{
			"action": context,
			"code":   code,
		})
	} else {
		logger.Warn("Action rejected", map[string]interface{}{
			"action": context,
			"code":   code,
			"reason": err.Error(),
		})
	}

	return ActionResult{
		Success: false,
		Message: apperrors.FormatError(err),
		Code:    code,
	}
}

// CodeFor maps err to the error code reported to clients.
func CodeFor(err error, context string) string {
	switch {
	case validator.IsValidationError(err):
		return apperrors.ValidationInvalidInput
	case errors.Is(err, ErrUnauthenticated):
		return apperrors.AuthUnauthorized
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.AuthInvalidCredentials
	case errors.Is(err, ErrForbidden):
		return apperrors.AuthzForbidden
	case errors.Is(err, ErrEmailAlreadyExists):
		return apperrors.AuthEmailAlreadyExists
	case errors.Is(err, ErrProductNotFound):
		return apperrors.ProductNotFound
	case errors.Is(err, ErrOrderNotFound):
		return apperrors.OrderNotFound
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrCartItemNotFound), errors.Is(err, ErrNoSessionCart):
		return apperrors.ResourceNotFound
	case errors.Is(err, ErrOutOfStock):
		return apperrors.ProductOutOfStock
	case errors.Is(err, ErrCartEmpty):
		return apperrors.CartEmpty
	case errors.Is(err, ErrNoShippingAddress), errors.Is(err, ErrNoPaymentMethod):
		return apperrors.ValidationRequired
	case errors.Is(err, ErrOrderAlreadyPaid):
		return apperrors.OrderAlreadyPaid
	case errors.Is(err, ErrOrderNotPaid):
		return apperrors.OrderNotPaid
	case errors.Is(err, ErrOrderAlreadyDelivered):
		return apperrors.OrderAlreadyDelivered
	case errors.Is(err, ErrPaymentUnavailable), errors.Is(err, stripe.ErrNotConfigured):
		return apperrors.InternalConfigError
	case errors.Is(err, stripe.ErrInvalidSignature):
		return apperrors.WebhookSignatureInvalid
	case errors.Is(err, stripe.ErrInvalidPayload), errors.Is(err, stripe.ErrMissingOrderID):
		return apperrors.WebhookPayloadInvalid
	}
	return apperrors.ParseError(err, context).Code
}

// guard converts a panic inside a mutation into a failed result.
func guard(result *ActionResult, context string) {
	if r := recover(); r != nil {
		*result = failure(fmt.Errorf("%v", r), context)
	}
}
