package routes

import (
	"github.com/ayoogunade/AyoZon/controllers"
	"github.com/ayoogunade/AyoZon/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every handler the router needs.
type Controllers struct {
	Products *controllers.ProductController
	Payments *controllers.PaymentController
	Admin    *controllers.AdminController
	System   *controllers.SystemController
}

// RegisterRoutes sets up all storefront routes.
func RegisterRoutes(r *gin.Engine, ctl Controllers, sessions *middleware.SessionManager, loginLimiter gin.HandlerFunc) {
	r.GET("/", ctl.System.Home)
	r.GET("/health", ctl.System.Health)
	r.GET("/config", ctl.System.Config)
	r.GET("/uploads/:filename", ctl.System.ServeUpload)

	// Catalog
	r.GET("/products", ctl.Products.GetProducts)

	// Admin-only catalog mutations
	admin := r.Group("")
	admin.Use(middleware.RequireAdmin(sessions))
	admin.POST("/add_product", ctl.Products.AddProduct)
	admin.PUT("/products/:id", ctl.Products.UpdateProduct)
	admin.DELETE("/products/:id", ctl.Products.DeleteProduct)

	// Checkout
	r.POST("/create-payment-intent", ctl.Payments.CreatePaymentIntent)
	r.POST("/confirm-payment", ctl.Payments.ConfirmPayment)
	r.POST("/place_order", ctl.Payments.PlaceOrder)

	// Session
	adminRoutes := r.Group("/admin")
	adminRoutes.POST("/login", loginLimiter, ctl.Admin.Login)
	adminRoutes.POST("/logout", ctl.Admin.Logout)
	adminRoutes.GET("/status", ctl.Admin.Status)
}
