package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/config"
	"github.com/ikkim/dualstore-shop/internal/app/controller"
	"github.com/ikkim/dualstore-shop/internal/middleware"
)

type Router struct {
	catalogController *controller.CatalogController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	reportController  *controller.ReportController
	statusController  *controller.StatusController
	config            *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	reportController *controller.ReportController,
	statusController *controller.StatusController,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController: catalogController,
		cartController:    cartController,
		orderController:   orderController,
		reportController:  reportController,
		statusController:  statusController,
		config:            cfg,
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
			"message": "shop API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", r.statusController.Status)
		v1.GET("/products", r.catalogController.ListProducts)

		users := v1.Group("/users")
		{
			users.GET("", r.catalogController.ListUsers)
			users.GET("/:id/cart", r.cartController.GetCart)
			users.POST("/:id/cart", r.cartController.AddToCart)
			users.POST("/:id/orders", r.orderController.PlaceOrder)
			users.POST("/:id/orders/:orderId/cancel", r.orderController.CancelOrder)
		}

		v1.GET("/orders/:id", r.orderController.GetOrder)

		reports := v1.Group("/reports")
		{
			reports.GET("/spenders", r.reportController.Spenders)
			reports.GET("/repeat-buyers", r.reportController.RepeatBuyers)
			reports.GET("/:name/export", r.reportController.Export)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}
