package repository

import (
	"testing"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCart(sessionID string, userID *uint) *model.Cart {
	return &model.Cart{
		SessionCartID: sessionID,
		UserID:        userID,
		Items: []model.CartItem{
			{ProductID: 1, Name: "Shirt", Slug: "shirt", Qty: 2, Image: "/images/shirt.jpg", Price: decimal.RequireFromString("10.00")},
		},
		ItemsPrice:    decimal.RequireFromString("20.00"),
		ShippingPrice: decimal.RequireFromString("10.00"),
		TaxPrice:      decimal.RequireFromString("3.00"),
		TotalPrice:    decimal.RequireFromString("33.00"),
	}
}

func TestCartRepository_SaveAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)

	cart := newCart("session-1", nil)
	require.NoError(t, repo.Save(cart))
	assert.NotZero(t, cart.ID)

	found, err := repo.FindBySessionID("session-1")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Qty)
	assert.True(t, decimal.RequireFromString("33").Equal(found.TotalPrice))

	found.Items[0].Qty = 3
	require.NoError(t, repo.Save(found))

	again, err := repo.FindBySessionID("session-1")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Items[0].Qty)

	_, err = repo.FindBySessionID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_AssignSessionCartToUser(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	user := seedUser(t, testDB, "alice")

	old := newCart("old-session", &user.ID)
	require.NoError(t, repo.Save(old))
	require.NoError(t, repo.Save(newCart("new-session", nil)))

	require.NoError(t, repo.AssignSessionCartToUser("new-session", user.ID))

	owned, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-session", owned.SessionCartID)

	_, err = repo.FindBySessionID("old-session")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	t.Run("unknown session", func(t *testing.T) {
		err := repo.AssignSessionCartToUser("nope", user.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		owned, err := repo.FindByUserID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-session", owned.SessionCartID)
	})
}

func TestCartRepository_DeleteStaleSessionCarts(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCartRepository(testDB)
	user := seedUser(t, testDB, "alice")

	require.NoError(t, repo.Save(newCart("stale", nil)))
	require.NoError(t, repo.Save(newCart("fresh", nil)))
	require.NoError(t, repo.Save(newCart("owned", &user.ID)))

	past := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, testDB.Model(&model.Cart{}).
		Where("session_cart_id IN ?", []string{"stale", "owned"}).
		UpdateColumn("updated_at", past).Error)

	deleted, err := repo.DeleteStaleSessionCarts(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindBySessionID("stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindBySessionID("owned")
	assert.NoError(t, err)
	_, err = repo.FindBySessionID("fresh")
	assert.NoError(t, err)
}
