package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/convene-app/convene/internal/config"
	"github.com/convene-app/convene/internal/database"
	"github.com/convene-app/convene/internal/handler"
	"github.com/convene-app/convene/internal/middleware"
	"github.com/convene-app/convene/internal/models"
	"github.com/convene-app/convene/internal/repository"
	"github.com/convene-app/convene/internal/router"
	"github.com/convene-app/convene/internal/service"
	"github.com/convene-app/convene/internal/session"
	cloud "github.com/convene-app/convene/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Topic{}, &models.Room{}, &models.Message{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessions := session.NewRedisStore(redisClient, logger)

	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authService := service.NewAuthService(userRepo, sessions, validate, cfg.JWTSecret, cfg.SessionTTL, logger)
	roomService := service.NewRoomService(roomRepo, topicRepo, messageRepo, validate, cfg.TopicSampleLimit, cfg.RecentMessageLimit, logger)
	messageService := service.NewMessageService(messageRepo, roomRepo, userRepo, validate, cfg.JoinRoomOnPost, logger)
	topicService := service.NewTopicService(topicRepo, logger)
	userService := service.NewUserService(userRepo, roomRepo, messageRepo, topicRepo, validate, uploader, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	roomHandler := handler.NewRoomHandler(roomService, logger)
	messageHandler := handler.NewMessageHandler(messageService, logger)
	topicHandler := handler.NewTopicHandler(topicService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		RoomHandler:    roomHandler,
		MessageHandler: messageHandler,
		TopicHandler:   topicHandler,
		UserHandler:    userHandler,
		JWTRequired:    middleware.JWTProtected(cfg.JWTSecret, sessions),
		JWTOptional:    middleware.JWTOptional(cfg.JWTSecret, sessions),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
