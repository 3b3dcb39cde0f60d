package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mikeychann-hash/Evies-Epoxy/controllers"
	"github.com/mikeychann-hash/Evies-Epoxy/middleware"
	"github.com/mikeychann-hash/Evies-Epoxy/ratelimit"
)

// Controllers bundles the handler sets registered on the router.
type Controllers struct {
	Auth     *controllers.AuthController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Checkout *controllers.CheckoutController
	Order    *controllers.OrderController
	Webhook  *controllers.WebhookController
}

// Register wires the full API surface. Authenticated routes run RequireAuth
// before RateLimit so throttle buckets key by user id instead of client
// address.
func Register(r *gin.Engine, ctrl Controllers, limiter *ratelimit.Limiter, jwtSecret string) {
	api := r.Group("/api")

	auth := middleware.RequireAuth(jwtSecret)
	admin := middleware.RequireAdmin()

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", middleware.RateLimit(limiter, ratelimit.RuleAuthSignup), ctrl.Auth.Signup)
		authRoutes.POST("/login", middleware.RateLimit(limiter, ratelimit.RuleAuthLogin), ctrl.Auth.Login)
	}

	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", middleware.RateLimit(limiter, ratelimit.RuleAPIRead), ctrl.Product.GetProducts)
		productRoutes.GET("/:id", middleware.RateLimit(limiter, ratelimit.RuleAPIRead), ctrl.Product.GetProductByID)
		productRoutes.POST("", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIWrite), ctrl.Product.CreateProduct)
		productRoutes.PUT("/:id", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIWrite), ctrl.Product.UpdateProduct)
		productRoutes.DELETE("/:id", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIDelete), ctrl.Product.DeleteProduct)
	}

	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", middleware.RateLimit(limiter, ratelimit.RuleAPIRead), ctrl.Category.GetCategories)
		categoryRoutes.POST("", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIWrite), ctrl.Category.CreateCategory)
		categoryRoutes.PUT("/:id", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIWrite), ctrl.Category.UpdateCategory)
		categoryRoutes.DELETE("/:id", auth, admin, middleware.RateLimit(limiter, ratelimit.RuleAPIDelete), ctrl.Category.DeleteCategory)
	}

	api.POST("/checkout", auth, middleware.RateLimit(limiter, ratelimit.RuleCheckout), ctrl.Checkout.Checkout)

	// Stripe authenticates with the signature header; a rate limit here would
	// only throttle event redelivery.
	api.POST("/webhooks/stripe", ctrl.Webhook.StripeWebhook)

	orderRoutes := api.Group("/orders", auth, middleware.RateLimit(limiter, ratelimit.RuleAPIRead))
	{
		orderRoutes.GET("", ctrl.Order.GetOrders)
		orderRoutes.GET("/:id", ctrl.Order.GetOrderByID)
	}

	adminRoutes := api.Group("/admin", auth, admin)
	{
		adminRoutes.GET("/orders", middleware.RateLimit(limiter, ratelimit.RuleAPIRead), ctrl.Order.GetAllOrders)
		adminRoutes.PATCH("/orders/:id/status", middleware.RateLimit(limiter, ratelimit.RuleAPIWrite), ctrl.Order.UpdateOrderStatus)
	}
}
