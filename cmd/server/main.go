package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/fitstride/fitstride-api/internal/config"
	"github.com/fitstride/fitstride-api/internal/database"
	"github.com/fitstride/fitstride-api/internal/handlers"
	"github.com/fitstride/fitstride-api/internal/repository"
	cronjobs "github.com/fitstride/fitstride-api/internal/scheduler"
	"github.com/fitstride/fitstride-api/internal/services"
	"github.com/fitstride/fitstride-api/pkg/logger"
	"github.com/fitstride/fitstride-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	boardRepo := repository.NewLeaderboardRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	statsService := services.NewStatsService(statsRepo, boardRepo, userRepo)
	activityService := services.NewActivityService(activityRepo, statsService)
	backfillService := services.NewBackfillService(userRepo, activityRepo, statsService)
	friendService := services.NewFriendService(friendRepo, userRepo)
	leaderboardService := services.NewLeaderboardService(boardRepo, friendService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	activityHandler := handlers.NewActivityHandler(activityService)
	statsHandler := handlers.NewStatsHandler(statsService)
	friendHandler := handlers.NewFriendHandler(friendService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	adminHandler := handlers.NewAdminHandler(backfillService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Activity routes
	protectedActivityRoutes := router.PathPrefix("/activities").Subrouter()
	protectedActivityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedActivityRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedActivityRoutes.HandleFunc("", activityHandler.CreateActivityHandler).Methods("POST")
	protectedActivityRoutes.HandleFunc("", activityHandler.ListActivitiesHandler).Methods("GET")
	protectedActivityRoutes.HandleFunc("/{id}", activityHandler.GetActivityHandler).Methods("GET")
	protectedActivityRoutes.HandleFunc("/{id}", activityHandler.UpdateActivityHandler).Methods("PUT")
	protectedActivityRoutes.HandleFunc("/{id}", activityHandler.DeleteActivityHandler).Methods("DELETE")

	// Stats routes
	protectedStatsRoutes := router.PathPrefix("/stats").Subrouter()
	protectedStatsRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedStatsRoutes.HandleFunc("", statsHandler.GetAllTimeStatsHandler).Methods("GET")
	protectedStatsRoutes.HandleFunc("/{period}", statsHandler.GetPeriodStatsHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("/{id}/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{id}/block", friendHandler.BlockUserHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")

	// Leaderboard routes
	protectedBoardRoutes := router.PathPrefix("/leaderboards").Subrouter()
	protectedBoardRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedBoardRoutes.HandleFunc("/{period}", leaderboardHandler.GetLeaderboardHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/backfill", adminHandler.RunBackfillHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Scheduled maintenance window for the backfill sweep
	cronjobs.StartMaintenanceJobs(backfillService, cfg.BackfillSchedule)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
