package errors

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"
)

// ErrorInfo pairs a code from codes.go with a message safe to show users.
type ErrorInfo struct {
	Code    string
	Message string
}

// fieldMessages is implemented by validation errors that carry one message per field.
type fieldMessages interface {
	FieldMessages() []string
}

var (
	// postgres: duplicate key value violates unique constraint "idx_products_slug"
	pgUniqueIndex = regexp.MustCompile(`unique constraint "(?:idx|uni)_[a-z_]+?_([a-z_]+)"`)
	// postgres detail: Key (slug)=(x) already exists.
	pgUniqueKey = regexp.MustCompile(`Key \(([a-z_]+)\)=`)
	// sqlite: UNIQUE constraint failed: products.slug
	sqliteUnique = regexp.MustCompile(`UNIQUE constraint failed: [a-z_]+\.([a-z_]+)`)
)

// ParseError classifies err into a code and a message. context names the
// operation (e.g. "create product") and picks the fallback wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	var fm fieldMessages
	if errors.As(err, &fm) {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: strings.Join(fm.FieldMessages(), ". "),
		}
	}

	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is referenced by other data",
		}
	}

	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A dependent service is unavailable, please try again",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// UniqueField extracts the column behind a unique-constraint violation.
func UniqueField(errStr string) string {
	for _, re := range []*regexp.Regexp{pgUniqueKey, sqliteUnique, pgUniqueIndex} {
		if m := re.FindStringSubmatch(errStr); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	switch field := UniqueField(errStr); field {
	case "email":
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already exists"}
	case "slug":
		return ErrorInfo{Code: ProductSlugExists, Message: "Slug already exists"}
	case "":
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: capitalize(field) + " already exists"}
	}
}

// FormatError renders err as the message of a failed mutation result:
// validation failures joined, unique violations as "<Field> already exists",
// anything else as its own text.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var fm fieldMessages
	if errors.As(err, &fm) {
		return strings.Join(fm.FieldMessages(), ". ")
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint") {
		return parseDuplicateKeyError(errStr).Message
	}

	return capitalize(errStr)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart not found"
	}
	return "The requested resource was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not create the record, please try again"
	case strings.Contains(contextLower, "update"):
		return "Could not update the record, please try again"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete the record, please try again"
	}
	return "An unexpected error occurred, please try again"
}

// ParseAndRespond parses err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
