package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/validator"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/pkg/redis"
	"github.com/prostore/prostore-backend/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB := setupTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(testDB),
		repository.NewCartRepository(testDB),
		testJWTSecret,
		time.Hour,
		24*time.Hour,
	)
	return svc, testDB
}

func TestAuthService_SignUp(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	in := validator.SignUpInput{
		Name:            "Jane Doe",
		Email:           "  Jane@Example.com ",
		Password:        "123456",
		ConfirmPassword: "123456",
	}
	res := svc.SignUp(ctx, in, "")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "User registered successfully", res.Message)

	session, ok := res.Data.(*Session)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.Equal(t, model.RoleUser, session.User.Role)
	assert.NotEmpty(t, session.Tokens.AccessToken)

	var stored model.User
	require.NoError(t, testDB.First(&stored, session.User.ID).Error)
	assert.NotEqual(t, "123456", stored.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		res := svc.SignUp(ctx, in, "")
		assert.False(t, res.Success)
		assert.Equal(t, apperrors.AuthEmailAlreadyExists, res.Code)
	})

	t.Run("passwords differ", func(t *testing.T) {
		bad := in
		bad.Email = "other@example.com"
		bad.ConfirmPassword = "654321"
		res := svc.SignUp(ctx, bad, "")
		assert.False(t, res.Success)
		assert.Equal(t, "Passwords don't match", res.Message)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	user := seedUser(t, testDB, "nameless@example.com", "123456", model.RoleUser)
	require.NoError(t, testDB.Model(user).Update("name", model.PlaceholderName).Error)

	// An anonymous cart collected before signing in follows the user.
	sessionCart := &model.Cart{SessionCartID: "session-1", Items: []model.CartItem{}}
	require.NoError(t, testDB.Create(sessionCart).Error)

	res := svc.SignIn(ctx, validator.SignInInput{Email: "nameless@example.com", Password: "123456"}, "session-1")
	require.True(t, res.Success, res.Message)
	session := res.Data.(*Session)
	assert.Equal(t, "nameless", session.User.Name)

	var cart model.Cart
	require.NoError(t, testDB.First(&cart, sessionCart.ID).Error)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, user.ID, *cart.UserID)

	tests := []struct {
		name  string
		input validator.SignInInput
		code  string
	}{
		{"wrong password", validator.SignInInput{Email: "nameless@example.com", Password: "wrong-password"}, apperrors.AuthInvalidCredentials},
		{"unknown email", validator.SignInInput{Email: "ghost@example.com", Password: "123456"}, apperrors.AuthInvalidCredentials},
		{"malformed email", validator.SignInInput{Email: "not-an-email", Password: "123456"}, apperrors.ValidationInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.SignIn(ctx, tt.input, "")
			assert.False(t, res.Success)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}

func TestAuthService_SignOut(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { redis.SetClient(nil) })

	svc, testDB := setupAuthServiceTest(t)
	ctx := context.Background()
	seedUser(t, testDB, "leaver@example.com", "123456", model.RoleUser)

	res := svc.SignIn(ctx, validator.SignInInput{Email: "leaver@example.com", Password: "123456"}, "")
	require.True(t, res.Success, res.Message)
	token := res.Data.(*Session).Tokens.AccessToken

	res = svc.SignOut(ctx, token)
	require.True(t, res.Success, res.Message)

	revoked, err := redis.IsTokenBlacklisted(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	res = svc.SignOut(ctx, "garbage")
	assert.False(t, res.Success)
	assert.Equal(t, apperrors.AuthUnauthorized, res.Code)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)
	ctx := context.Background()
	user := seedUser(t, testDB, "refresh@example.com", "123456", model.RoleAdmin)

	pair, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testJWTSecret, time.Hour, time.Hour)
	require.NoError(t, err)

	res := svc.Refresh(ctx, pair.RefreshToken)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, user.ID, res.Data.(*Session).User.ID)

	// Access tokens are not accepted where a refresh token is expected.
	res = svc.Refresh(ctx, pair.AccessToken)
	assert.False(t, res.Success)
	assert.Equal(t, apperrors.AuthUnauthorized, res.Code)
}
