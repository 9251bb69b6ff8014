package main

import (
	"fmt"
	"os"

	"github.com/issam-seghir/shark-chat-backend/internal/app"
	"github.com/issam-seghir/shark-chat-backend/internal/data/repos/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/db"
	"github.com/issam-seghir/shark-chat-backend/internal/handlers"
	"github.com/issam-seghir/shark-chat-backend/internal/middleware"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime/bus"
	"github.com/issam-seghir/shark-chat-backend/internal/server"
	"github.com/issam-seghir/shark-chat-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := app.Load(log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := chat.NewUserRepo(thePG, log)
	channelRepo := chat.NewChannelRepo(thePG, log)
	groupRepo := chat.NewGroupRepo(thePG, log)
	attachmentRepo := chat.NewAttachmentRepo(thePG, log)
	messageRepo := chat.NewMessageRepo(thePG, log)

	// Realtime bus
	log.Info("Setting up realtime bus now...")
	var eventBus bus.Bus
	if cfg.RedisAddr != "" {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init RedisBus", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set, using in-process bus")
		eventBus = bus.NewMemoryBus(log)
	}
	defer eventBus.Close()

	// Services
	log.Info("Setting up Services from main...")
	notifier := services.NewNotifier(eventBus, log)
	previewer := services.NewLinkPreviewer(log)
	messageService := services.NewMessageService(thePG, log, messageRepo, channelRepo, groupRepo, userRepo, attachmentRepo, previewer, notifier)
	channelService := services.NewChannelService(thePG, log, channelRepo, groupRepo, userRepo, notifier)
	groupService := services.NewGroupService(thePG, log, groupRepo, channelRepo, notifier)

	// Handlers
	log.Info("Setting up Handlers from main...")
	messageHandler := handlers.NewMessageHandler(messageService)
	channelHandler := handlers.NewChannelHandler(channelService)
	groupHandler := handlers.NewGroupHandler(groupService)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecret)

	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware: authMiddleware,
		MessageHandler: messageHandler,
		ChannelHandler: channelHandler,
		GroupHandler:   groupHandler,
		AllowOrigins:   cfg.AllowOrigins,
	})

	log.Info("Starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
