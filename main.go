package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"chat-directory-server/internal/config"
	"chat-directory-server/internal/logger"
	"chat-directory-server/internal/middleware"
	"chat-directory-server/internal/models"
	"chat-directory-server/internal/routes"
	"chat-directory-server/internal/storage"
)

var log = logger.New("server")

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("Error loading config: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal("Error loading config: %v", err)
	}
	logger.SetMinLevel(level)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		LogLevel: gormLogLevel(level),
	})
	if err != nil {
		fatal("Error connecting to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info("connected to %s database", cfg.Database.Driver)

	images, err := storage.NewImageStore(cfg.Upload.Dir, cfg.Upload.MaxBytes, cfg.Upload.AllowedExtensions)
	if err != nil {
		fatal("Error preparing upload directory: %v", err)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		fatal("Error configuring proxies: %v", err)
	}
	router.MaxMultipartMemory = 32 << 20
	router.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg))

	routes.SetupRoutes(router, db, cfg, images)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown: %v", err)
	}
	log.Info("server exited")
}

func gormLogLevel(level int) gormlogger.LogLevel {
	switch level {
	case logger.LevelDebug:
		return gormlogger.Info
	case logger.LevelError:
		return gormlogger.Error
	}
	return gormlogger.Warn
}

func fatal(format string, args ...interface{}) {
	log.Error(format, args...)
	os.Exit(1)
}
