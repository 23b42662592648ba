package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/internal/events"
	"github.com/prostore/prostore-backend/pkg/mail"
	"github.com/prostore/prostore-backend/pkg/util"
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

func seedUser(t *testing.T, gdb *gorm.DB, email, password string, role model.UserRole) *model.User {
	t.Helper()
	hashed, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Name: "Test User", Email: email, PasswordHash: hashed, Role: role}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, gdb *gorm.DB, slug, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        "Product " + slug,
		Slug:        slug,
		Category:    "Shirts",
		Brand:       "Polo",
		Description: "A product for testing",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		Images:      []string{"/images/" + slug + ".jpg"},
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func uintPtr(v uint) *uint { return &v }

// recordingPages remembers every revalidated path.
type recordingPages struct {
	mu    sync.Mutex
	paths []string
}

func (p *recordingPages) Get(context.Context, string, string) ([]byte, bool) { return nil, false }

func (p *recordingPages) Set(context.Context, string, string, []byte) error { return nil }

func (p *recordingPages) Revalidate(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return nil
}

func (p *recordingPages) Paths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderPaidEvent
}

func (p *recordingPublisher) PublishOrderPaid(_ context.Context, event events.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []events.OrderPaidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderPaidEvent(nil), p.events...)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}
