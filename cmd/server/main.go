package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/work-assignment-api/internal/auth"
	"github.com/yukikurage/work-assignment-api/internal/calendar"
	"github.com/yukikurage/work-assignment-api/internal/config"
	"github.com/yukikurage/work-assignment-api/internal/database"
	"github.com/yukikurage/work-assignment-api/internal/handlers"
	"github.com/yukikurage/work-assignment-api/internal/middleware"
	"github.com/yukikurage/work-assignment-api/internal/notify"
	"github.com/yukikurage/work-assignment-api/internal/repository"
	"github.com/yukikurage/work-assignment-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Resolve side-effect ports once at startup; the lifecycle engine only
	// ever sees the interfaces.
	var notifier notify.Notifier
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			cfg.MailFrom,
			cfg.MailFromName,
		)
		log.Println("Mail notifications enabled")
	} else {
		notifier = notify.NewNoopNotifier()
		log.Println("Mail notifications disabled (SMTP not configured)")
	}

	var cal calendar.Calendar
	if cfg.CalendarEnabled() {
		cal = calendar.NewGoogleCalendar(cfg.GoogleClientID, cfg.GoogleClientSecret)
		log.Println("Calendar integration enabled")
	} else {
		cal = calendar.NewNoopCalendar()
		log.Println("Calendar integration disabled (Google credentials not configured)")
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	itemRepo := repository.NewWorkItemRepository(database.GetDB())

	tokenMgr := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	workItemService := services.NewWorkItemService(itemRepo, userRepo, notifier, cal)

	if err := authService.EnsureBootstrapAdmin(
		cfg.BootstrapAdminName,
		cfg.BootstrapAdminEmail,
		cfg.BootstrapAdminPassword,
	); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenMgr)
	userHandler := handlers.NewUserHandler(userService)
	workItemHandler := handlers.NewWorkItemHandler(workItemService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Work Assignment API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", middleware.RequireAuth(tokenMgr), middleware.RequireAdmin(), authHandler.Register)
			auth.GET("/me", middleware.RequireAuth(tokenMgr), authHandler.GetCurrentUser)
		}

		items := api.Group("/work-items")
		items.Use(middleware.RequireAuth(tokenMgr))
		{
			items.POST("", middleware.RequireAdmin(), workItemHandler.Assign)
			items.GET("", workItemHandler.List)
			items.GET("/submitted", middleware.RequireAdmin(), workItemHandler.ListSubmitted)
			items.GET("/stats", middleware.RequireAdmin(), workItemHandler.Stats)
			items.GET("/:id", workItemHandler.Get)
			items.PUT("/:id/complete", workItemHandler.Complete)
			items.PUT("/:id/approve", middleware.RequireAdmin(), workItemHandler.Approve)
			items.PUT("/:id/reject", middleware.RequireAdmin(), workItemHandler.Reject)
			items.PUT("/:id", middleware.RequireAdmin(), workItemHandler.Update)
			items.DELETE("/:id", middleware.RequireAdmin(), workItemHandler.Delete)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokenMgr))
		{
			users.GET("", middleware.RequireAdmin(), userHandler.List)
			users.PUT("/me/calendar", userHandler.LinkCalendar)
			users.DELETE("/me/calendar", userHandler.UnlinkCalendar)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", middleware.RequireAdmin(), userHandler.Update)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.Delete)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
