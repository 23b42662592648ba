package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/controller"
	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/cache"
	"github.com/prostore/prostore-backend/internal/middleware"
)

// Controllers groups every HTTP handler the API mounts. Upload may be nil
// when no bucket is configured.
type Controllers struct {
	Auth    *controller.AuthController
	User    *controller.UserController
	Product *controller.ProductController
	Review  *controller.ReviewController
	Cart    *controller.CartController
	Order   *controller.OrderController
	Webhook *controller.WebhookController
	Upload  *controller.UploadController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	pages          cache.PageCache
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	pages cache.PageCache,
	cfg *config.Config,
) *Router {
	if pages == nil {
		pages = cache.NewNoopPageCache()
	}
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		pages:          pages,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": r.config.Email.AppName + " API is running",
		})
	})

	ctrl := r.controllers
	auth := r.authMiddleware
	adminOnly := []gin.HandlerFunc{auth.Authenticate(), auth.RequireRole(model.RoleAdmin)}
	session := middleware.SessionCart(r.config.Store.SessionCookie, r.config.Server.Environment == "production")

	api := router.Group("/api")
	{
		api.GET("/products", ctrl.Product.ListAll)
		api.POST("/webhooks/stripe", ctrl.Webhook.Stripe)
	}

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/sign-up", session, ctrl.Auth.SignUp)
			authGroup.POST("/sign-in", session, ctrl.Auth.SignIn)
			authGroup.POST("/refresh", ctrl.Auth.Refresh)
			authGroup.POST("/sign-out", auth.Authenticate(), ctrl.Auth.SignOut)
			authGroup.GET("/me", auth.Authenticate(), ctrl.Auth.Me)
			authGroup.PUT("/me", auth.Authenticate(), ctrl.Auth.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", ctrl.Product.Search)
			products.GET("/latest", ctrl.Product.Latest)
			products.GET("/featured", ctrl.Product.Featured)
			products.GET("/categories", ctrl.Product.Categories)
			products.GET("/slug/:slug", ctrl.Product.BySlug)
			products.GET("/:id", ctrl.Product.ByID)
			products.GET("/:id/reviews", ctrl.Review.List)
			products.GET("/:id/reviews/me", auth.Authenticate(), ctrl.Review.Mine)
			products.POST("/:id/reviews", auth.Authenticate(), ctrl.Review.Upsert)

			products.GET("/admin", append(adminOnly,
				middleware.CachePage(r.pages, func(*gin.Context) string { return service.AdminProductsPath }),
				ctrl.Product.AdminList,
			)...)
			products.POST("", append(adminOnly, ctrl.Product.Create)...)
			products.PUT("/:id", append(adminOnly, ctrl.Product.Update)...)
			products.DELETE("/:id", append(adminOnly, ctrl.Product.Delete)...)
		}

		cart := v1.Group("/cart")
		cart.Use(session, auth.OptionalAuthenticate())
		{
			cart.GET("", ctrl.Cart.Get)
			cart.POST("/items", ctrl.Cart.AddItem)
			cart.DELETE("/items/:product_id", ctrl.Cart.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(session, auth.Authenticate())
		{
			orders.POST("", ctrl.Order.Create)
			orders.GET("", ctrl.Order.Mine)
			orders.GET("/:id", ctrl.Order.Get)
			orders.POST("/:id/payment-intent", ctrl.Order.PaymentIntent)
			orders.PUT("/:id/pay", auth.RequireRole(model.RoleAdmin), ctrl.Order.MarkPaid)
			orders.PUT("/:id/deliver", auth.RequireRole(model.RoleAdmin), ctrl.Order.Deliver)
		}

		users := v1.Group("/users")
		users.Use(auth.Authenticate())
		{
			users.PUT("/me/address", ctrl.User.UpdateAddress)
			users.PUT("/me/payment-method", ctrl.User.UpdatePaymentMethod)

			users.GET("", auth.RequireRole(model.RoleAdmin), ctrl.User.List)
			users.PUT("/:id", auth.RequireRole(model.RoleAdmin), ctrl.User.Update)
			users.DELETE("/:id", auth.RequireRole(model.RoleAdmin), ctrl.User.Delete)
		}

		if ctrl.Upload != nil {
			upload := v1.Group("/upload")
			upload.Use(adminOnly...)
			{
				upload.POST("/presigned-url", ctrl.Upload.GeneratePresignedURL)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, middleware.CacheStatusHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			// Credentials rule out a literal wildcard; echo the caller's origin instead.
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}
