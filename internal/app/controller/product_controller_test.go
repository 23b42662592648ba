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

func productBody(slug string) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Polo Sporting Stretch Shirt",
		"slug":        slug,
		"category":    "Men's Dress Shirts",
		"brand":       "Polo",
		"description": "Classic Polo style with modern comfort",
		"stock":       5,
		"images":      []string{"/images/sample-products/p1-1.jpg"},
		"price":       "59.99",
	}
}

func TestProductController_Search(t *testing.T) {
	api := setupTestAPI(t)
	for i := 0; i < 13; i++ {
		api.seedProduct(t, fmt.Sprintf("shirt-%d", i), "20.00", 5)
	}

	// limit is not a request parameter; pages stay at the configured size.
	w := api.do(t, request{method: http.MethodGet, path: "/api/v1/products?limit=1000&page=2"})
	require.Equal(t, http.StatusOK, w.Code)

	var page service.SearchResult
	decode(t, w, &page)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(13), page.Total)

	t.Run("bad price filter", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodGet, path: "/api/v1/products?price=cheap"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body apperrors.ErrorResponse
		decode(t, w, &body)
		assert.Equal(t, apperrors.ValidationInvalidInput, body.Error)
		assert.Equal(t, "Price filter must look like min-max", body.Message)
	})

	t.Run("all products", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodGet, path: "/api/products"})
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Products []model.Product `json:"products"`
			Count    int             `json:"count"`
		}
		decode(t, w, &body)
		assert.Equal(t, 13, body.Count)
	})
}

func TestProductController_Lookup(t *testing.T) {
	api := setupTestAPI(t)
	product := api.seedProduct(t, "lookup", "10.00", 1)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"by id", fmt.Sprintf("/api/v1/products/%d", product.ID), http.StatusOK},
		{"by slug", "/api/v1/products/slug/lookup", http.StatusOK},
		{"unknown id", "/api/v1/products/9999", http.StatusNotFound},
		{"unknown slug", "/api/v1/products/slug/nope", http.StatusNotFound},
		{"malformed id", "/api/v1/products/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, request{method: http.MethodGet, path: tt.path})
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}

			var body struct {
				Product model.Product `json:"product"`
			}
			decode(t, w, &body)
			assert.Equal(t, product.ID, body.Product.ID)
		})
	}
}

func TestProductController_Categories(t *testing.T) {
	api := setupTestAPI(t)
	api.seedProduct(t, "a", "10.00", 1)
	api.seedProduct(t, "b", "10.00", 1)

	w := api.do(t, request{method: http.MethodGet, path: "/api/v1/products/categories"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":[{"category":"Shirts","count":2}]}`, w.Body.String())
}

func TestProductController_AdminWrites(t *testing.T) {
	api := setupTestAPI(t)
	_, adminToken := api.seedUser(t, "admin@example.com", model.RoleAdmin)
	_, userToken := api.seedUser(t, "user@example.com", model.RoleUser)

	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/products", body: productBody("polo-shirt"), token: adminToken})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		actionBody
		Data model.Product `json:"data"`
	}
	decode(t, w, &created)
	assert.True(t, created.Success)
	assert.Equal(t, "Product created successfully", created.Message)
	require.NotZero(t, created.Data.ID)

	t.Run("non-admins are refused", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/products", body: productBody("other"), token: userToken})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/products", body: productBody("polo-shirt"), token: adminToken})
		assert.Equal(t, http.StatusConflict, w.Code)

		var body actionBody
		decode(t, w, &body)
		assert.False(t, body.Success)
		assert.Equal(t, "Slug already exists", body.Message)
		assert.Equal(t, apperrors.ProductSlugExists, body.Code)
	})

	t.Run("invalid form", func(t *testing.T) {
		form := productBody("xy")
		form["price"] = "12.345"
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/products", body: form, token: adminToken})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body actionBody
		decode(t, w, &body)
		assert.Contains(t, body.Message, "Slug must be at least 3 characters")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/products", body: "{", token: adminToken})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		form := productBody("polo-shirt")
		form["name"] = "Renamed Shirt"
		w := api.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/api/v1/products/%d", created.Data.ID), body: form, token: adminToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stored model.Product
		require.NoError(t, api.db.First(&stored, created.Data.ID).Error)
		assert.Equal(t, "Renamed Shirt", stored.Name)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/products/%d", created.Data.ID)
		w := api.do(t, request{method: http.MethodDelete, path: path, token: adminToken})
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, request{method: http.MethodDelete, path: path, token: adminToken})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
