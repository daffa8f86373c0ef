package main

import (
	"log"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/config"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/database"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/errors"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/handlers"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/middleware"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database; refuse to serve traffic until the store is up
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())

	// Login attempt store: Redis when configured, in-memory otherwise
	var attemptStore middleware.AttemptStore = middleware.NewMemoryAttemptStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		attemptStore = middleware.NewRedisAttemptStore(client)
		log.Printf("Login attempt store backed by Redis at %s", cfg.RedisAddr)
	}
	loginLimiter := middleware.NewLoginLimiter(attemptStore, cfg.LoginMaxAttempts, cfg.LoginWindow, cfg.LoginLockout)

	// Services
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens)
	taskService := services.NewTaskService(taskRepo)
	statsService := services.NewStatsService(taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	taskHandler := handlers.NewTaskHandler(taskService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		errors.OK(c, 200, gin.H{"status": "ok"})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
	}

	// Task routes (protected)
	todos := r.Group("/todos")
	todos.Use(middleware.RequireAuth(tokens))
	{
		todos.GET("", taskHandler.ListTasks)
		todos.POST("", taskHandler.CreateTask)
		todos.PUT("/:id", taskHandler.UpdateTask)
		todos.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Statistics routes (protected)
	stats := r.Group("/stats")
	stats.Use(middleware.RequireAuth(tokens))
	{
		stats.GET("", statsHandler.Overview)
		stats.GET("/completion-time", statsHandler.CompletionTime)
		stats.GET("/productivity", statsHandler.Productivity)
		stats.GET("/time-series", statsHandler.TimeSeries)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
