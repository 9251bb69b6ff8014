package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/issam-seghir/shark-chat-backend/internal/handlers"
	"github.com/issam-seghir/shark-chat-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	MessageHandler *handlers.MessageHandler
	ChannelHandler *handlers.ChannelHandler
	GroupHandler   *handlers.GroupHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/channels/:id/messages", cfg.MessageHandler.Send)
	api.GET("/channels/:id/messages", cfg.MessageHandler.List)
	api.POST("/channels/:id/typing", cfg.ChannelHandler.Typing)
	api.PATCH("/messages/:id", cfg.MessageHandler.Update)
	api.DELETE("/messages/:id", cfg.MessageHandler.Delete)

	api.GET("/dm/:user", cfg.ChannelHandler.ResolveDM)

	api.POST("/groups", cfg.GroupHandler.Create)
	api.GET("/groups/:id", cfg.GroupHandler.Get)
	api.PATCH("/groups/:id", cfg.GroupHandler.Update)
	api.DELETE("/groups/:id", cfg.GroupHandler.Delete)
	api.POST("/groups/:id/join", cfg.GroupHandler.Join)
	api.POST("/groups/:id/kick/:user", cfg.GroupHandler.Kick)

	return router
}
