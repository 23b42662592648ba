package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/internal/middleware"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
	"github.com/prostore/prostore-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret     = "controller-test-secret"
	testWebhookSecret = "whsec_controller_test"
	testSessionCookie = "sessionCartId"
)

// testAPI mounts the controllers on the same paths the router uses.
type testAPI struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	store := config.StoreConfig{PageSize: 12, LatestProductsLimit: 4, FeaturedLimit: 4}
	productService := service.NewProductService(productRepo, nil, store)
	reviewService := service.NewReviewService(reviewRepo, productRepo, nil)
	authService := service.NewAuthService(userRepo, cartRepo, testJWTSecret, 15*time.Minute, time.Hour)
	userService := service.NewUserService(userRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, nil, nil)

	verifier, err := stripe.NewClient(stripe.Config{WebhookSecret: testWebhookSecret})
	require.NoError(t, err)
	paymentService := service.NewPaymentService(verifier, orderService)

	products := NewProductController(productService)
	reviews := NewReviewController(reviewService)
	auth := NewAuthController(authService, userService)
	users := NewUserController(userService)
	carts := NewCartController(cartService)
	orders := NewOrderController(orderService)
	webhooks := NewWebhookController(paymentService)

	authMW := middleware.NewAuthMiddleware(testJWTSecret)
	session := middleware.SessionCart(testSessionCookie, false)
	admin := authMW.RequireRole(model.RoleAdmin)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())

	r.GET("/api/products", products.ListAll)
	r.POST("/api/webhooks/stripe", webhooks.Stripe)

	v1 := r.Group("/api/v1")
	v1.POST("/auth/sign-up", session, auth.SignUp)
	v1.POST("/auth/sign-in", session, auth.SignIn)
	v1.POST("/auth/refresh", auth.Refresh)
	v1.GET("/auth/me", authMW.Authenticate(), auth.Me)
	v1.PUT("/auth/me", authMW.Authenticate(), auth.UpdateProfile)

	v1.GET("/products", products.Search)
	v1.GET("/products/categories", products.Categories)
	v1.GET("/products/slug/:slug", products.BySlug)
	v1.GET("/products/:id", products.ByID)
	v1.GET("/products/:id/reviews", reviews.List)
	v1.GET("/products/:id/reviews/me", authMW.Authenticate(), reviews.Mine)
	v1.POST("/products/:id/reviews", authMW.Authenticate(), reviews.Upsert)
	v1.POST("/products", authMW.Authenticate(), admin, products.Create)
	v1.PUT("/products/:id", authMW.Authenticate(), admin, products.Update)
	v1.DELETE("/products/:id", authMW.Authenticate(), admin, products.Delete)

	v1.GET("/cart", session, authMW.OptionalAuthenticate(), carts.Get)
	v1.POST("/cart/items", session, authMW.OptionalAuthenticate(), carts.AddItem)
	v1.DELETE("/cart/items/:product_id", session, authMW.OptionalAuthenticate(), carts.RemoveItem)

	v1.POST("/orders", session, authMW.Authenticate(), orders.Create)
	v1.GET("/orders", authMW.Authenticate(), orders.Mine)
	v1.GET("/orders/:id", authMW.Authenticate(), orders.Get)
	v1.POST("/orders/:id/payment-intent", authMW.Authenticate(), orders.PaymentIntent)
	v1.PUT("/orders/:id/pay", authMW.Authenticate(), admin, orders.MarkPaid)
	v1.PUT("/orders/:id/deliver", authMW.Authenticate(), admin, orders.Deliver)

	v1.PUT("/users/me/address", authMW.Authenticate(), users.UpdateAddress)
	v1.PUT("/users/me/payment-method", authMW.Authenticate(), users.UpdatePaymentMethod)
	v1.GET("/users", authMW.Authenticate(), admin, users.List)
	v1.PUT("/users/:id", authMW.Authenticate(), admin, users.Update)
	v1.DELETE("/users/:id", authMW.Authenticate(), admin, users.Delete)

	return &testAPI{db: testDB, router: r}
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	session string
	headers map[string]string
}

func (a *testAPI) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	switch b := req.body.(type) {
	case nil:
	case string:
		body.WriteString(b)
	case []byte:
		body.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&body).Encode(b))
	}

	httpReq := httptest.NewRequest(req.method, req.path, &body)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.session != "" {
		httpReq.AddCookie(&http.Cookie{Name: testSessionCookie, Value: req.session})
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httpReq)
	return w
}

func (a *testAPI) seedUser(t *testing.T, email string, role model.UserRole) (*model.User, string) {
	t.Helper()
	hashed, err := util.HashPassword("123456")
	require.NoError(t, err)

	user := &model.User{Name: "Test User", Email: email, PasswordHash: hashed, Role: role}
	require.NoError(t, a.db.Create(user).Error)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(role), testJWTSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (a *testAPI) seedProduct(t *testing.T, slug, price string, stock int) *model.Product {
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
	require.NoError(t, a.db.Create(product).Error)
	return product
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// actionBody mirrors service.ActionResult with the data left raw.
type actionBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}
