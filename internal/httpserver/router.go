package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(authMiddleware(deps.CustomerSvc))

	api.POST("/auth/signup", signupHandler(deps))
	api.POST("/auth/login", loginHandler(deps, logger))

	api.GET("/categories", listCategoriesHandler(deps))
	api.GET("/categories/:id", getCategoryHandler(deps))
	api.GET("/products", listProductsHandler(deps))
	api.GET("/products/:id", getProductHandler(deps))

	api.GET("/cart", getCartHandler(deps))
	api.POST("/cart", addToCartHandler(deps))
	api.GET("/cart/total", cartTotalHandler(deps))
	api.PATCH("/cart/:lineID", updateCartLineHandler(deps))
	api.DELETE("/cart/:lineID", removeCartLineHandler(deps))

	authed := api.Group("", requireUser())
	authed.POST("/checkout", checkoutHandler(deps))
	authed.GET("/orders", listOrdersHandler(deps))
	authed.GET("/orders/:id", getOrderHandler(deps))

	return router
}
