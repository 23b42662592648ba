package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func runAdmin(t *testing.T, testDB *gorm.DB, args ...string) (string, error) {
	t.Helper()
	open := func() (*gorm.DB, func(), error) {
		return testDB, func() {}, nil
	}
	cmd := newRootCmd(open, config.SchedulerConfig{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupAdminDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func TestCreateAdmin(t *testing.T) {
	testDB := setupAdminDB(t)

	out, err := runAdmin(t, testDB, "create-admin", "--email", " Root@Example.com ", "--password", "secret123", "--name", "Root")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin root@example.com")

	var created model.User
	require.NoError(t, testDB.Where("email = ?", "root@example.com").First(&created).Error)
	assert.Equal(t, model.RoleAdmin, created.Role)
	assert.Equal(t, "Root", created.Name)
	assert.True(t, util.VerifyPassword(created.PasswordHash, "secret123"))

	t.Run("promotes existing user", func(t *testing.T) {
		user := &model.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "x", Role: model.RoleUser}
		require.NoError(t, testDB.Create(user).Error)

		out, err := runAdmin(t, testDB, "create-admin", "--email", "jane@example.com")
		require.NoError(t, err)
		assert.Contains(t, out, "Promoted jane@example.com")

		var stored model.User
		require.NoError(t, testDB.First(&stored, user.ID).Error)
		assert.Equal(t, model.RoleAdmin, stored.Role)
		assert.Equal(t, "x", stored.PasswordHash)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := runAdmin(t, testDB, "create-admin")
		assert.ErrorContains(t, err, "--email is required")

		_, err = runAdmin(t, testDB, "create-admin", "--email", "new@example.com", "--password", "123")
		assert.ErrorContains(t, err, "at least 6 characters")
	})
}

func TestRecalcRatings(t *testing.T) {
	testDB := setupAdminDB(t)

	product := &model.Product{
		Name: "Shirt", Slug: "shirt", Category: "Shirts", Brand: "Polo", Description: "desc",
		Price: decimal.RequireFromString("20.00"), Images: []string{"/a.jpg"},
	}
	require.NoError(t, testDB.Create(product).Error)
	user := &model.User{Name: "Reviewer", Email: "r@example.com", PasswordHash: "x"}
	require.NoError(t, testDB.Create(user).Error)
	require.NoError(t, testDB.Create(&model.Review{
		ProductID: product.ID, UserID: user.ID, Title: "Nice", Description: "Body", Rating: 4,
	}).Error)

	out, err := runAdmin(t, testDB, "recalc-ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "Ratings reconciled.")

	var stored model.Product
	require.NoError(t, testDB.First(&stored, product.ID).Error)
	assert.Equal(t, 1, stored.NumReviews)
	assert.InDelta(t, 4.0, stored.Rating, 1e-9)
}

func TestPurgeCarts(t *testing.T) {
	testDB := setupAdminDB(t)

	fresh := &model.Cart{SessionCartID: "fresh"}
	stale := &model.Cart{SessionCartID: "stale"}
	require.NoError(t, testDB.Create(fresh).Error)
	require.NoError(t, testDB.Create(stale).Error)
	require.NoError(t, testDB.Model(stale).UpdateColumn("updated_at", time.Now().Add(-72*time.Hour)).Error)

	out, err := runAdmin(t, testDB, "purge-carts", "--older-than", "48h")
	require.NoError(t, err)
	assert.Contains(t, out, "Stale carts purged.")

	var sessions []string
	require.NoError(t, testDB.Model(&model.Cart{}).Pluck("session_cart_id", &sessions).Error)
	assert.Equal(t, []string{"fresh"}, sessions)
}
