package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// Validation
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Catalog and reviews
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductSlugExists   = "PRODUCT_SLUG_EXISTS"
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"

	// Cart and orders
	CartEmpty             = "CART_EMPTY"
	OrderNotFound         = "ORDER_NOT_FOUND"
	OrderAlreadyPaid      = "ORDER_ALREADY_PAID"
	OrderNotPaid          = "ORDER_NOT_PAID"
	OrderAlreadyDelivered = "ORDER_ALREADY_DELIVERED"

	// Payment gateway
	WebhookSignatureInvalid = "WEBHOOK_SIGNATURE_INVALID"
	WebhookPayloadInvalid   = "WEBHOOK_PAYLOAD_INVALID"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
