package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/retrohub/retrohub-api/internal/config"
	"github.com/retrohub/retrohub-api/internal/constants"
	"github.com/retrohub/retrohub-api/internal/database"
	"github.com/retrohub/retrohub-api/internal/handlers"
	"github.com/retrohub/retrohub-api/internal/middleware"
	"github.com/retrohub/retrohub-api/internal/repository"
	"github.com/retrohub/retrohub-api/internal/services"
	"github.com/retrohub/retrohub-api/internal/storage"
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
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize file storage
	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.MaxMultipartMemory = constants.MaxMultipartMemory

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	typeRepo := repository.NewProjectTypeRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, friendRepo)
	projectService := services.NewProjectService(projectRepo, typeRepo, friendRepo, userRepo, fileStore, aiService)
	activityService := services.NewActivityService(activityRepo, projectRepo)
	searchService := services.NewSearchService(projectRepo, userRepo, activityRepo)
	adminService := services.NewAdminService(userRepo, projectRepo, typeRepo, fileStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, activityService)
	searchHandler := handlers.NewSearchHandler(searchService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "RetroHub API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User and friendship routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/:id", userHandler.GetProfile)
			users.PUT("/:id", userHandler.UpdateProfile)
			users.POST("/:id/friends", userHandler.SendFriendRequest)
			users.GET("/:id/friends", userHandler.ListFriends)
		}

		friends := api.Group("/friends")
		friends.Use(middleware.RequireAuth())
		{
			friends.GET("/requests", userHandler.ListFriendRequests)
			friends.POST("/requests/:id/accept", userHandler.AcceptFriendRequest)
		}

		// Project routes. Viewing and downloading a project is public; every
		// mutation requires a session, and member/owner routes stack the
		// project middleware on top.
		projects := api.Group("/projects")
		{
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/download", projectHandler.RecordDownload)

			projects.POST("", middleware.RequireAuth(), projectHandler.CreateProject)
			projects.GET("/feed", middleware.RequireAuth(), projectHandler.ListFeed)
			projects.PUT("/:id", middleware.RequireAuth(), middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.EditProject)
			projects.DELETE("/:id", middleware.RequireAuth(), middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.DeleteProject)
			projects.POST("/:id/checkout", middleware.RequireAuth(), middleware.RequireProjectAccess(), projectHandler.Checkout)
			projects.POST("/:id/checkin", middleware.RequireAuth(), middleware.RequireProjectAccess(), projectHandler.Checkin)
			projects.POST("/:id/members", middleware.RequireAuth(), middleware.RequireProjectAccess(), projectHandler.AddMember)
			projects.DELETE("/:id/members/:member_id", middleware.RequireAuth(), middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.RemoveMember)
			projects.POST("/:id/transfer-ownership", middleware.RequireAuth(), middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.TransferOwnership)
			projects.POST("/:id/messages", middleware.RequireAuth(), middleware.RequireProjectAccess(), projectHandler.PostMessage)
			projects.POST("/:id/suggest-tags", middleware.RequireAuth(), middleware.RequireProjectAccess(), projectHandler.SuggestTags)
		}

		// Search (protected)
		api.GET("/search", middleware.RequireAuth(), searchHandler.Search)

		// Admin routes (protected, admin role)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/projects", adminHandler.ListProjects)
			admin.PUT("/projects/:id", adminHandler.UpdateProject)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)
			admin.POST("/projects/:id/unlock", adminHandler.UnlockProject)
			admin.GET("/project-types", adminHandler.ListProjectTypes)
			admin.POST("/project-types", adminHandler.CreateProjectType)
			admin.PUT("/project-types/:id", adminHandler.UpdateProjectType)
			admin.DELETE("/project-types/:id", adminHandler.DeleteProjectType)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
