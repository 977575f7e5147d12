package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/quizhive/quizhive/internal/api"
	"github.com/quizhive/quizhive/internal/config"
	"github.com/quizhive/quizhive/internal/db"
	"github.com/quizhive/quizhive/internal/middleware"
	"github.com/quizhive/quizhive/internal/observ"
	"github.com/quizhive/quizhive/internal/repository/postgres"
	"github.com/quizhive/quizhive/internal/ws"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no parent deadline — Background() is the right root here.
	// Once serving, each request carries its own context.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	// One pool shared by every store — pgxpool is goroutine-safe.
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	chatRepo := postgres.NewChatStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	messageRepo := postgres.NewMessageStore(pool)
	fileRepo := postgres.NewFileStore(pool)
	quizRepo := postgres.NewQuizStore(pool)
	assignmentRepo := postgres.NewAssignmentStore(pool)

	hub := ws.NewHub(logger)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	userHandler := api.NewUserHandler(userRepo, logger)
	chatHandler := api.NewChatHandler(chatRepo, membershipRepo, messageRepo, logger)
	fileHandler := api.NewFileHandler(fileRepo, cfg.UploadDir, logger)
	quizHandler := api.NewQuizHandler(quizRepo, logger)
	assignmentHandler := api.NewAssignmentHandler(assignmentRepo, logger)
	wsHandler := ws.NewHandler(hub, messageRepo, cfg.JWTSecret, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	logger.Info("starting QuizHive backend",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	// Public routes: liveness probe and the auth endpoints that mint tokens.
	srv.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})
	srv.POST("/api/auth/register", authHandler.Register)
	srv.POST("/api/auth/login", authHandler.Login)

	// The socket endpoint authenticates itself via the token query param,
	// so it sits outside the Bearer-header middleware.
	srv.GET("/api/chat/ws", wsHandler.Serve)

	authed := srv.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	authed.GET("/users/me", userHandler.GetMe)

	authed.GET("/chat/", chatHandler.ListChats)
	authed.POST("/chat", chatHandler.CreateChat)
	authed.GET("/chat/messages/:chatID", chatHandler.GetMessages)
	authed.POST("/chat/:chatID/members", chatHandler.AddMember)
	authed.GET("/chat/:chatID/members", chatHandler.ListMembers)
	authed.POST("/chat/files", fileHandler.Upload)
	authed.GET("/chat/files/:id", fileHandler.Download)

	authed.POST("/quizzes", quizHandler.Create)
	authed.GET("/quizzes", quizHandler.List)
	authed.GET("/quizzes/:id", quizHandler.GetByID)
	authed.PUT("/quizzes/:id", quizHandler.Update)
	authed.DELETE("/quizzes/:id", quizHandler.Delete)

	authed.POST("/assignments", assignmentHandler.Create)
	authed.GET("/assignments", assignmentHandler.List)
	authed.GET("/assignments/:id", assignmentHandler.GetByID)
	authed.PUT("/assignments/:id", assignmentHandler.Update)
	authed.DELETE("/assignments/:id", assignmentHandler.Delete)

	return srv.Run(":" + cfg.Port)
}
