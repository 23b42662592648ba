package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeValidation []string

func (f fakeValidation) Error() string            { return "validation failed" }
func (f fakeValidation) FieldMessages() []string { return f }

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation messages are joined",
			err:  fakeValidation{"Name must be at least 3 characters", "Price is required"},
			want: "Name must be at least 3 characters. Price is required",
		},
		{
			name: "wrapped validation",
			err:  fmt.Errorf("create product: %w", fakeValidation{"Slug must be at least 3 characters"}),
			want: "Slug must be at least 3 characters",
		},
		{
			name: "postgres unique violation",
			err:  stderrors.New(`ERROR: duplicate key value violates unique constraint "idx_products_slug" (SQLSTATE 23505)`),
			want: "Slug already exists",
		},
		{
			name: "sqlite unique violation",
			err:  stderrors.New("UNIQUE constraint failed: users.email"),
			want: "Email already exists",
		},
		{
			name: "sqlite unique violation on other column",
			err:  stderrors.New("UNIQUE constraint failed: carts.session_cart_id"),
			want: "Session_cart_id already exists",
		},
		{
			name: "plain error is capitalized",
			err:  stderrors.New("product not found"),
			want: "Product not found",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"record not found", gorm.ErrRecordNotFound, "get product", ResourceNotFound},
		{"validation", fakeValidation{"x"}, "create product", ValidationInvalidInput},
		{"duplicate slug", stderrors.New("UNIQUE constraint failed: products.slug"), "create product", ProductSlugExists},
		{"duplicate email", stderrors.New(`duplicate key value violates unique constraint "idx_users_email"`), "sign up", AuthEmailAlreadyExists},
		{"foreign key", stderrors.New("violates foreign key constraint"), "delete product", ResourceConflict},
		{"network", stderrors.New("dial tcp: connection refused"), "publish", InternalExternalAPI},
		{"unknown", stderrors.New("boom"), "update order", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}

	assert.Equal(t, "Product not found", ParseError(gorm.ErrRecordNotFound, "get product").Message)
}

func TestUniqueField(t *testing.T) {
	assert.Equal(t, "slug", UniqueField(`duplicate key value violates unique constraint "idx_products_slug" DETAIL: Key (slug)=(abc) already exists.`))
	assert.Equal(t, "email", UniqueField(`duplicate key value violates unique constraint "idx_users_email"`))
	assert.Equal(t, "", UniqueField("something else"))
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusForCode(""))
	assert.Equal(t, http.StatusUnauthorized, StatusForCode(AuthUnauthorized))
	assert.Equal(t, http.StatusNotFound, StatusForCode(ProductNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(ValidationInvalidInput))
	assert.Equal(t, http.StatusConflict, StatusForCode(ProductSlugExists))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(InternalServerError))
}
