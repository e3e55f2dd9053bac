// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"school-api/config"
	"school-api/db"
	"school-api/handler"
	"school-api/logger"
	"school-api/repository"
	"school-api/router"
	"school-api/schema"
	"school-api/service"
	"syscall"
	"time"
)

// Build wires repositories, services, handlers and the route table over database and cache.
// cache may be nil, in which case meals are always read from the database.
func Build(database *sql.DB, cache service.ICacheClient) (http.Handler, error) {
	cfg := config.AppConfig
	clock := service.NewClock(cfg.Location())
	schema.SetLocation(cfg.Location())

	// Repositories
	userRepo := repository.NewUserRepository(database)
	mealRepo := repository.NewMealRepository(database)
	attendanceRepo := repository.NewAttendanceLogRepository(database)
	ingangRepo := repository.NewIngangRepository(database)
	outgoRepo := repository.NewOutgoRequestRepository(database)
	tokenRepo := repository.NewTokenRepository(database)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.SecretKey, cfg.JWT.TTL)
	tokenService := service.NewTokenService(tokenRepo, userRepo, authService, cfg.JWT.RefreshTTL)
	identityService := service.NewIdentityService(userRepo)
	userService := service.NewUserService(userRepo, authService)
	mealService := service.NewMealService(mealRepo, cache, cfg.Meals.CacheTTL)
	attendanceService, err := service.NewAttendanceService(attendanceRepo, userRepo, clock, cfg.Attendance.Windows)
	if err != nil {
		return nil, err
	}
	ingangService := service.NewIngangService(database, ingangRepo, clock,
		cfg.Ingang.MaxPerClass, cfg.Ingang.TicketCount, cfg.Ingang.TimeSlots)
	outgoService := service.NewOutgoService(outgoRepo, userRepo, clock)

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService, tokenService),
		User:       handler.NewUserHandler(userService),
		Meal:       handler.NewMealHandler(mealService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Ingang:     handler.NewIngangHandler(ingangService),
		Outgo:      handler.NewOutgoHandler(outgoService),
	}

	gate := handler.NewGate(authService, identityService)
	return router.NewRouter(gate, router.Routes(handlers, ingangService.TimeSlots())), nil
}

func Run() {
	config.LoadConfig(".")
	logger.Init(config.AppConfig.Log.Level)
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	if config.AppConfig.JWT.SecretKey == "" {
		logger.Log.Fatal("jwt.secret_key must be set")
	}

	if err := db.Migrate(config.AppConfig.Migrations.Path, db.ConnString(true)); err != nil {
		logger.Log.Fatalf("Error migrating the database: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	var cache service.ICacheClient
	if config.AppConfig.Redis.Enabled {
		rdb, err := db.ConnectRedis()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, meal cache disabled")
		} else {
			defer rdb.Close()
			cache = rdb
		}
	}

	r, err := Build(database, cache)
	if err != nil {
		logger.Log.Fatalf("Error building application: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
