package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fund-tracker/config"
	"fund-tracker/database"
	"fund-tracker/handlers"
	"fund-tracker/ownership"
	"fund-tracker/session"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize the database and Redis connections.
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to the database: ", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer rdb.Close()

	store := database.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := store.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.Fatal("Failed to bootstrap admin account: ", err)
		}
		if created {
			log.Printf("Created admin account %q", cfg.AdminUsername)
		}
	}

	router := handlers.NewRouter(&handlers.Handler{
		Store:        store,
		Sessions:     session.NewManager(rdb, cfg.JWTSecret, cfg.SessionTTL),
		Ownership:    ownership.NewCache(rdb),
		CookieSecure: cfg.CookieSecure,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
