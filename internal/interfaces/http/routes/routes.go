// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/checkout"
	"github.com/your-org/storefront-api/internal/domain/favorite"
	"github.com/your-org/storefront-api/internal/domain/newsletter"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/payment"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/region"
	"github.com/your-org/storefront-api/internal/domain/shipping"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"github.com/your-org/storefront-api/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/pdf"
)

// Dependencies bundles the services the route tree needs
type Dependencies struct {
	Config            *config.Config
	Logger            *logrus.Logger
	Feed              *events.Feed
	UserService       *user.Service
	ProductService    *product.Service
	CartService       *cart.Service
	FavoriteService   *favorite.Service
	CheckoutService   *checkout.Service
	OrderService      *order.Service
	ShippingResolver  *shipping.Resolver
	PaymentGateway    *payment.Gateway
	RegionClient      *region.Client
	NewsletterService *newsletter.Service
	PDFService        *pdf.Service
}

// SetupRoutes mounts all API routes on the given group
func SetupRoutes(api *gin.RouterGroup, deps *Dependencies) {
	cfg := deps.Config

	authHandler := handlers.NewAuthHandler(deps.UserService, deps.CartService)
	profileHandler := handlers.NewProfileHandler(deps.UserService)
	productHandler := handlers.NewProductHandler(deps.ProductService)
	cartHandler := handlers.NewCartHandler(deps.CartService)
	favoriteHandler := handlers.NewFavoriteHandler(deps.FavoriteService)
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService)
	shippingHandler := handlers.NewShippingHandler(deps.ShippingResolver)
	orderHandler := handlers.NewOrderHandler(deps.OrderService)
	paymentHandler := handlers.NewPaymentHandler(deps.PaymentGateway, deps.OrderService, deps.Logger)
	regionHandler := handlers.NewRegionHandler(deps.RegionClient)
	newsletterHandler := handlers.NewNewsletterHandler(deps.NewsletterService)
	invoiceHandler := handlers.NewInvoiceHandler(deps.OrderService, deps.PDFService)

	// Authentication
	auth := api.Group("/auth")
	auth.Use(middleware.GuestSession())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Account
	profile := api.Group("/profile")
	profile.Use(middleware.AuthMiddleware(cfg))
	{
		profile.GET("", profileHandler.GetProfile)
		profile.PUT("", profileHandler.UpdateProfile)
		profile.PUT("/address", profileHandler.UpdateAddress)
		profile.PUT("/password", profileHandler.ChangePassword)
	}

	// Catalog
	products := api.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/search", productHandler.Search)
		products.GET("/:id", productHandler.Get)
	}

	// Cart, shared by guests and users
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.GuestSession(), middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	// Favorites
	favorites := api.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(cfg))
	{
		favorites.GET("", favoriteHandler.List)
		favorites.GET("/:productId/status", favoriteHandler.Status)
		favorites.POST("/:productId/toggle", favoriteHandler.Toggle)
	}

	// Checkout
	checkoutGroup := api.Group("/checkout")
	checkoutGroup.Use(middleware.AuthMiddleware(cfg))
	{
		checkoutGroup.POST("/snapshot", checkoutHandler.CreateSnapshot)
		checkoutGroup.GET("/snapshot/:id", checkoutHandler.GetSnapshot)
		checkoutGroup.POST("/voucher", checkoutHandler.ApplyVoucher)
		checkoutGroup.DELETE("/voucher", checkoutHandler.RemoveVoucher)
		checkoutGroup.POST("/submit", checkoutHandler.Submit)
	}

	// Shipping rates
	api.POST("/shipping/rates", shippingHandler.GetRates)

	// Orders
	orders := api.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.List)
		orders.GET("/:number", orderHandler.Get)
		orders.POST("/:number/cancel", orderHandler.Cancel)
		orders.GET("/:number/invoice", invoiceHandler.Download)
	}

	// Payment
	api.GET("/payment/channels", paymentHandler.GetChannels)
	api.POST("/webhooks/payment", paymentHandler.Webhook)

	// Regions
	regions := api.Group("/regions")
	{
		regions.GET("/provinces", regionHandler.Provinces)
		regions.GET("/regencies/:provinceCode", regionHandler.Regencies)
		regions.GET("/districts/:regencyCode", regionHandler.Districts)
		regions.GET("/villages/:districtCode", regionHandler.Villages)
	}

	// Newsletter
	api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
}

// SetupRealtimeRoutes mounts the SSE stream. It lives outside the request
// timeout middleware since feed connections are long-lived.
func SetupRealtimeRoutes(api *gin.RouterGroup, deps *Dependencies) {
	realtimeHandler := handlers.NewRealtimeHandler(deps.Feed)

	realtime := api.Group("/realtime")
	realtime.Use(middleware.AuthMiddleware(deps.Config))
	{
		realtime.GET("/events", realtimeHandler.Stream)
	}
}
