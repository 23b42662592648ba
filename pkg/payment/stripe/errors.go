package stripe

import "errors"

var (
	// ErrNotConfigured is returned when the webhook secret is missing
	ErrNotConfigured = errors.New("stripe is not configured")

	// ErrInvalidSignature is returned when the Stripe-Signature header does not match the payload
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidPayload is returned when a signed event cannot be decoded
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrMissingOrderID is returned when a charge carries no orderId metadata
	ErrMissingOrderID = errors.New("charge has no orderId metadata")

	// ErrNoSecretKey is returned when an API call is attempted without a secret key
	ErrNoSecretKey = errors.New("stripe secret key is not set")
)
