package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/broadcast"
	"github.com/taskboardhq/taskboard-api/internal/config"
	"github.com/taskboardhq/taskboard-api/internal/constants"
	"github.com/taskboardhq/taskboard-api/internal/database"
	"github.com/taskboardhq/taskboard-api/internal/dedup"
	"github.com/taskboardhq/taskboard-api/internal/events"
	"github.com/taskboardhq/taskboard-api/internal/handlers"
	"github.com/taskboardhq/taskboard-api/internal/logging"
	"github.com/taskboardhq/taskboard-api/internal/middleware"
	"github.com/taskboardhq/taskboard-api/internal/repository"
	"github.com/taskboardhq/taskboard-api/internal/resourceapi"
	"github.com/taskboardhq/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Pick the document store backend
	var store repository.Store
	switch cfg.StoreBackend {
	case config.StoreBackendRemote:
		store = resourceapi.NewClient(cfg.ResourceAPIURL, logger).Store()
	case config.StoreBackendDatabase:
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = repository.Store{
			Projects:      repository.NewProjectRepository(db),
			Notifications: repository.NewNotificationRepository(db),
			Users:         repository.NewUserRepository(db),
		}
	default:
		log.Fatalf("Unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}

	// Wire the event pipeline: workflow mutations publish to the bus, the
	// notifier consumes it and the hub tells live sessions to refetch.
	bus := events.NewBus(constants.EventQueueSize)
	hub := broadcast.NewHub()
	cache := dedup.New(constants.DedupeWindow)
	notifier := services.NewNotifier(store, bus, cache, hub, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go notifier.Run(ctx)

	// Initialize services
	workflowService := services.NewWorkflowService(store.Projects, bus)
	projectService := services.NewProjectService(store.Projects)
	notificationService := services.NewNotificationService(store, logger)
	sessionService := services.NewSessionService(store.Users, bus)

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(workflowService, projectService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	streamHandler := handlers.NewStreamHandler(hub)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// API routes (all require a caller-supplied identity)
	api := r.Group("/api")
	api.Use(middleware.RequireIdentity())
	{
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id/archive", projectHandler.SetArchived)
			projects.PUT("/:id/hide", projectHandler.SetHidden)
			projects.POST("/:id/stop", projectHandler.StopProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.GET("/:id/tasks", taskHandler.ListTasks)
			projects.POST("/:id/tasks", taskHandler.AddTask)
			projects.GET("/:id/tasks/:taskId/time", taskHandler.GetTaskTime)
			projects.POST("/:id/tasks/:taskId/delete-request", taskHandler.RequestDelete)
			projects.POST("/:id/tasks/:taskId/delete-confirmation", taskHandler.ConfirmDelete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/stream", streamHandler.Stream)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/:id/dismiss", notificationHandler.Dismiss)
			notifications.POST("/:id/restore", notificationHandler.RestoreTask)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.StartSession)
			sessions.DELETE("", sessionHandler.EndSession)
		}
	}

	// Start server
	logger.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
