package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hashed",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

type productOpt func(*model.Product)

func withPrice(p string) productOpt {
	return func(m *model.Product) { m.Price = decimal.RequireFromString(p) }
}

func withCategory(c string) productOpt {
	return func(m *model.Product) { m.Category = c }
}

func withRating(r float64) productOpt {
	return func(m *model.Product) { m.Rating = r }
}

func withCreatedAt(at time.Time) productOpt {
	return func(m *model.Product) { m.CreatedAt = at }
}

func withStock(n int) productOpt {
	return func(m *model.Product) { m.Stock = n }
}

func featured() productOpt {
	return func(m *model.Product) { m.IsFeatured = true }
}

func seedProduct(t *testing.T, testDB *gorm.DB, name string, opts ...productOpt) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        name,
		Slug:        slugify(name),
		Category:    "Shirts",
		Brand:       "Polo",
		Description: "A product for testing",
		Price:       decimal.RequireFromString("10.00"),
		Stock:       5,
		Images:      []string{"/images/" + slugify(name) + ".jpg"},
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
