package controller

import (
	"net/http"
	"testing"

	"github.com/prostore/prostore-backend/internal/app/model"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionResponse struct {
	actionBody
	Data struct {
		User   model.User     `json:"user"`
		Tokens util.TokenPair `json:"tokens"`
	} `json:"data"`
}

func TestAuthController_SignUp(t *testing.T) {
	api := setupTestAPI(t)

	body := map[string]string{
		"name":             "Jane Doe",
		"email":            "Jane@Example.com",
		"password":         "123456",
		"confirm_password": "123456",
	}

	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res sessionResponse
	decode(t, w, &res)
	assert.True(t, res.Success)
	assert.Equal(t, "jane@example.com", res.Data.User.Email)
	assert.NotEmpty(t, res.Data.Tokens.AccessToken)

	t.Run("email taken", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: body})
		assert.Equal(t, http.StatusConflict, w.Code)

		var res actionBody
		decode(t, w, &res)
		assert.Equal(t, apperrors.AuthEmailAlreadyExists, res.Code)
	})

	t.Run("passwords differ", func(t *testing.T) {
		mismatch := map[string]string{
			"name":             "Jane Doe",
			"email":            "jane2@example.com",
			"password":         "123456",
			"confirm_password": "654321",
		}
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-up", body: mismatch})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var res actionBody
		decode(t, w, &res)
		assert.Equal(t, "Passwords don't match", res.Message)
	})
}

func TestAuthController_SignInAndProfile(t *testing.T) {
	api := setupTestAPI(t)
	user, _ := api.seedUser(t, "shopper@example.com", model.RoleUser)

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", body: map[string]string{
			"email": "shopper@example.com", "password": "wrong-password",
		}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var res actionBody
		decode(t, w, &res)
		assert.Equal(t, apperrors.AuthInvalidCredentials, res.Code)
	})

	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", body: map[string]string{
		"email": "shopper@example.com", "password": "123456",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res sessionResponse
	decode(t, w, &res)
	token := res.Data.Tokens.AccessToken
	require.NotEmpty(t, token)

	w = api.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User model.User `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, user.ID, me.User.ID)

	w = api.do(t, request{method: http.MethodPut, path: "/api/v1/auth/me", token: token, body: map[string]string{
		"name": "Renamed Shopper", "email": "shopper@example.com",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored model.User
	require.NoError(t, api.db.First(&stored, user.ID).Error)
	assert.Equal(t, "Renamed Shopper", stored.Name)

	t.Run("refresh", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", body: map[string]string{
			"refresh_token": res.Data.Tokens.RefreshToken,
		}})
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", body: map[string]string{
			"refresh_token": token,
		}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/refresh", body: map[string]string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("signed out", func(t *testing.T) {
		w := api.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_SignInAdoptsSessionCart(t *testing.T) {
	api := setupTestAPI(t)
	user, _ := api.seedUser(t, "adopter@example.com", model.RoleUser)
	product := api.seedProduct(t, "cap", "12.00", 3)

	const session = "guest-session"
	w := api.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", session: session, body: map[string]interface{}{"product_id": product.ID}})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, request{method: http.MethodPost, path: "/api/v1/auth/sign-in", session: session, body: map[string]string{
		"email": "adopter@example.com", "password": "123456",
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var cart model.Cart
	require.NoError(t, api.db.Where("session_cart_id = ?", session).First(&cart).Error)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, user.ID, *cart.UserID)
}
