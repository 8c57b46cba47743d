package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopstock/internal/service"
	"shopstock/internal/token"
)

// Services bundles everything the router needs to wire handlers.
type Services struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Cart     service.CartService
	Orders   service.OrderService
	Stock    service.StockService
	Purchase service.PurchaseService
}

func Router(svcs Services, tokens *token.HSProvider, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(svcs.Auth, log)
	catalogH := NewCatalogHandler(svcs.Catalog, log)
	cartH := NewCartHandler(svcs.Cart, log)
	orderH := NewOrderHandler(svcs.Orders, log)
	stockH := NewStockHandler(svcs.Stock, log)
	purchaseH := NewPurchaseHandler(svcs.Purchase, log)

	v1 := r.Group("/api/v1")

	v1.POST("/auth/register", authH.Register)
	v1.POST("/auth/login", authH.Login)
	v1.POST("/auth/refresh", authH.Refresh)
	v1.POST("/auth/logout", authH.Logout)

	auth := v1.Group("")
	auth.Use(AuthMiddleware(tokens))

	auth.GET("/auth/me", authH.Profile)

	auth.GET("/products", catalogH.ListProducts)
	auth.GET("/products/:id", catalogH.GetProduct)
	auth.POST("/products", catalogH.CreateProduct)
	auth.PATCH("/products/:id", catalogH.UpdateProduct)

	auth.GET("/product-lines", catalogH.ListProductLines)
	auth.POST("/product-lines", catalogH.CreateProductLine)

	auth.GET("/suppliers", catalogH.ListSuppliers)
	auth.POST("/suppliers", catalogH.CreateSupplier)

	auth.GET("/cart", cartH.GetCart)
	auth.GET("/cart/summary", cartH.Summary)
	auth.POST("/cart/lines", cartH.UpsertLine)
	auth.PUT("/cart/lines/:productId", cartH.SetQuantity)
	auth.DELETE("/cart/lines/:productId", cartH.RemoveLine)
	auth.DELETE("/cart", cartH.Clear)

	auth.POST("/orders/checkout", orderH.Checkout)
	auth.POST("/orders", orderH.Create)
	auth.GET("/orders", orderH.List)
	auth.GET("/orders/my", orderH.ListMine)
	auth.GET("/orders/:id", orderH.Get)
	auth.POST("/orders/:id/confirm", orderH.Confirm)
	auth.POST("/orders/:id/cancel", orderH.Cancel)

	auth.GET("/stock/:productId", stockH.Get)
	auth.POST("/stock/verify", stockH.Verify)
	auth.POST("/stock/adjust", stockH.Adjust)
	auth.GET("/stock/low", stockH.ListLow)
	auth.GET("/stock/:productId/movements", stockH.Movements)

	auth.POST("/purchases", purchaseH.Create)
	auth.GET("/purchases", purchaseH.List)
	auth.GET("/purchases/:id", purchaseH.Get)
	auth.POST("/purchases/:id/receive", purchaseH.Receive)
	auth.POST("/purchases/:id/cancel", purchaseH.Cancel)

	return r
}
