// Package validator holds the input schemas for every mutable entity.
// Each Parse function normalizes its input and returns either the value or a
// *ValidationError listing every failed constraint.
package validator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by every Parse function.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return strings.Join(e.FieldMessages(), ". ")
}

// FieldMessages returns the messages in declaration order.
func (e *ValidationError) FieldMessages() []string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return messages
}

// AsMap is the shape consumed by errors.RespondWithValidationError.
func (e *ValidationError) AsMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

var (
	engine     *validator.Validate
	engineOnce sync.Once

	paymentMethodsMu sync.RWMutex
	paymentMethods   = []string{"PayPal", "Stripe", "CashOnDelivery"}
)

// SetPaymentMethods replaces the accepted payment method names.
func SetPaymentMethods(methods []string) {
	if len(methods) == 0 {
		return
	}
	paymentMethodsMu.Lock()
	defer paymentMethodsMu.Unlock()
	paymentMethods = append([]string(nil), methods...)
}

// PaymentMethods returns the accepted payment method names.
func PaymentMethods() []string {
	paymentMethodsMu.RLock()
	defer paymentMethodsMu.RUnlock()
	return append([]string(nil), paymentMethods...)
}

// IsPaymentMethod reports whether name is one of the accepted methods.
func IsPaymentMethod(name string) bool {
	for _, m := range PaymentMethods() {
		if m == name {
			return true
		}
	}
	return false
}

func get() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("integer", validateInteger)
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return IsPaymentMethod(fl.Field().String())
		})
		engine = v
	})
	return engine
}

// validateCurrency accepts decimal strings with at most two fractional digits.
func validateCurrency(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return false
	}
	return d.Exponent() >= -2 || d.Equal(d.Round(2))
}

func validateInteger(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return f == math.Trunc(f)
	default:
		return true
	}
}

// validate runs the struct tags on s and converts failures to a *ValidationError.
func validate(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   jsonFieldName(fe),
			Message: message(fe),
		})
	}
	return out
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.StructField()
	if len(name) == 0 {
		return fe.Field()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Passwords don't match"
	case "currency":
		return fmt.Sprintf("%s must have exactly two decimal places", label)
	case "integer":
		return fmt.Sprintf("%s must be a whole number", label)
	case "payment_method", "oneof":
		return fmt.Sprintf("Invalid %s", strings.ToLower(label))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
