package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/swiftdrop/swiftdrop/internal/realtime"
	"github.com/swiftdrop/swiftdrop/internal/server/http/handlers"
	"github.com/swiftdrop/swiftdrop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeliveryFacade, hub *realtime.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/ws"})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// The event stream authenticates inside the handler so tokens can
	// also arrive via query string, which browser websocket clients need.
	api.GET("/ws", gin.WrapH(realtime.Handler(hub, facade, logger)))

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders/customer/:id", orderHandler.CustomerOrders)
	authed.GET("/orders/courier/:id", orderHandler.CourierOrders)
	authed.GET("/orders/pending", orderHandler.Pending)
	authed.GET("/orders/history/:id", orderHandler.History)
	authed.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	return engine
}
